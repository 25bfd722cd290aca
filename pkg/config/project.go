package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-renderkit/pkg/vars"
)

const (
	// ConfigsDirName is the project directory holding namespaced sources.
	ConfigsDirName = "configs"
	// BaseConfigName is the un-namespaced base source at the project root.
	BaseConfigName = "config.yaml"
	// RepoRootKey is the reserved key that may carry the repo root inside the
	// merged tree.
	RepoRootKey = "repo_root"
)

// sourceExtensions lists the file extensions picked up from the configs
// directory, in discovery order.
var sourceExtensions = []string{".yaml", ".yml", ".toml"}

// ProjectOptions selects which sources participate in an invocation.
type ProjectOptions struct {
	// Root is the project directory holding config.yaml and configs/.
	Root string
	// NoProjectConfig skips the default project sources entirely.
	NoProjectConfig bool
	// GlobalOverrides are explicitly supplied sources merged at top level.
	GlobalOverrides []string
	// NamespacedOverrides are explicitly supplied sources merged under the
	// namespace derived from their file names.
	NamespacedOverrides []string
	// RepoRoot, when set, overrides any repo_root found in the sources.
	RepoRoot string
	// Assignments are raw key=value pairs applied after everything else.
	Assignments []string
}

// LoadLayers builds the ordered layer set for an invocation. The base project
// config is optional; explicitly supplied override files must exist.
func LoadLayers(opts ProjectOptions) ([]Layer, error) {
	var layers []Layer

	if !opts.NoProjectConfig {
		projectLayers, err := loadProjectLayers(opts.Root)
		if err != nil {
			return nil, err
		}
		layers = append(layers, projectLayers...)
	}

	for _, path := range opts.GlobalOverrides {
		_, tree, err := Load(path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, Layer{Rank: RankOverride, Tree: tree})
	}

	for _, path := range opts.NamespacedOverrides {
		namespace, tree, err := Load(path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, Layer{Rank: RankOverride, Namespace: namespace, Tree: tree})
	}

	if opts.RepoRoot != "" {
		layers = append(layers, Layer{
			Rank: RankRepoRoot,
			Tree: vars.Tree{RepoRootKey: opts.RepoRoot},
		})
	}

	if len(opts.Assignments) > 0 {
		layer, err := AssignmentLayer(opts.Assignments)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}

	return layers, nil
}

// loadProjectLayers discovers the default project sources: the base config at
// the project root plus every source file under the configs directory.
func loadProjectLayers(root string) ([]Layer, error) {
	var layers []Layer

	basePath := filepath.Join(root, BaseConfigName)
	if _, err := os.Stat(basePath); err == nil {
		_, tree, err := Load(basePath)
		if err != nil {
			return nil, err
		}
		layers = append(layers, Layer{Rank: RankProject, Tree: tree})
	}

	configsDir := filepath.Join(root, ConfigsDirName)
	entries, err := os.ReadDir(configsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return layers, nil
		}
		return nil, fmt.Errorf("config: read configs dir %s: %w", configsDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !hasSourceExtension(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		namespace, tree, err := Load(filepath.Join(configsDir, name))
		if err != nil {
			return nil, err
		}
		layers = append(layers, Layer{Rank: RankProject, Namespace: namespace, Tree: tree})
	}
	return layers, nil
}

func hasSourceExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range sourceExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// ResolveRepoRoot picks the repo root for include resolution: the reserved
// key inside the merged tree when present (with "~" expanded), otherwise the
// provided fallback, conventionally the project root.
func ResolveRepoRoot(merged vars.Tree, fallback string) string {
	value, ok := vars.Lookup(merged, RepoRootKey)
	if !ok {
		return fallback
	}
	root, ok := value.(string)
	if !ok || root == "" {
		return fallback
	}
	if root == "~" || strings.HasPrefix(root, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			root = filepath.Join(home, strings.TrimPrefix(root, "~"))
		}
	}
	return root
}
