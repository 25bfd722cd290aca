package vars

import (
	"fmt"
	"sort"
	"strings"
)

// Lookup resolves a dotted path against the tree. It returns false when any
// segment is missing or a non-final segment is not a nested tree.
func Lookup(t Tree, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, ".")
	current := any(t)
	for _, segment := range segments {
		tree, ok := current.(Tree)
		if !ok {
			return nil, false
		}
		current, ok = tree[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetPath writes value at the dotted path, creating intermediate trees as
// needed. It fails when an intermediate segment already holds a non-tree
// value, since overwriting it silently would discard configuration.
func SetPath(t Tree, path string, value any) error {
	if path == "" {
		return fmt.Errorf("vars: empty key path")
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return fmt.Errorf("vars: key path %q has an empty segment", path)
		}
	}

	current := t
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment]
		if !ok {
			child := Tree{}
			current[segment] = child
			current = child
			continue
		}
		child, ok := next.(Tree)
		if !ok {
			return fmt.Errorf("vars: segment %q in path %q is not a nested tree", segment, path)
		}
		current = child
	}
	current[segments[len(segments)-1]] = value
	return nil
}

// Flatten returns every leaf value keyed by its dotted path. Sequence elements
// are addressed with a bracketed index (for example "steps[2]") so callers can
// name them in diagnostics; such paths are not resolvable through Lookup.
func Flatten(t Tree) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", t)
	return out
}

func flattenInto(out map[string]any, prefix string, value any) {
	switch v := value.(type) {
	case Tree:
		for key, child := range v {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			flattenInto(out, path, child)
		}
	case []any:
		for i, item := range v {
			flattenInto(out, fmt.Sprintf("%s[%d]", prefix, i), item)
		}
	default:
		out[prefix] = value
	}
}

// SortedKeys returns the map's keys in lexical order, a convenience for
// deterministic iteration in output and tests.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
