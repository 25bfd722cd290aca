package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-renderkit/pkg/vars"
)

// Load parses a single source file into a variable tree and reports the
// namespace derived from its file name. The document may be a mapping or a
// sequence of single-key mappings; both normalize to one flat mapping.
// Missing files wrap fs.ErrNotExist; malformed documents return *ParseError.
func Load(path string) (string, vars.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	tree, err := Parse(path, data)
	if err != nil {
		return "", nil, err
	}
	return NamespaceFor(path), tree, nil
}

// Parse decodes raw document bytes using the format implied by the path's
// extension. YAML is the default; ".toml" sources decode with go-toml.
func Parse(path string, data []byte) (vars.Tree, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		tree := vars.Tree{}
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		return normalizeTree(tree), nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return normalizeDocument(path, doc)
}

// normalizeDocument flattens the two accepted document shapes into one tree.
func normalizeDocument(path string, doc any) (vars.Tree, error) {
	switch v := doc.(type) {
	case nil:
		return vars.Tree{}, nil
	case map[string]any:
		return normalizeTree(v), nil
	case []any:
		tree := vars.Tree{}
		for i, item := range v {
			entry, ok := item.(map[string]any)
			if !ok || len(entry) != 1 {
				return nil, &ParseError{
					Path: path,
					Err:  fmt.Errorf("sequence item %d is not a single-key mapping", i),
				}
			}
			for key, value := range entry {
				tree[key] = normalizeValue(value)
			}
		}
		return tree, nil
	default:
		return nil, &ParseError{
			Path: path,
			Err:  fmt.Errorf("document must be a mapping or a sequence of single-key mappings, got %T", doc),
		}
	}
}

// normalizeTree rewrites decoder-specific container types into the canonical
// tree shape so the rest of the pipeline only ever sees vars.Tree and []any.
func normalizeTree(in map[string]any) vars.Tree {
	out := make(vars.Tree, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return normalizeTree(v)
	case map[any]any:
		out := make(vars.Tree, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
