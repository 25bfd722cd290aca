package config

import (
	"sort"

	"github.com/goliatone/go-renderkit/pkg/vars"
)

// Rank orders configuration layers. Higher ranks win on key collisions.
type Rank int

const (
	// RankProject covers the default project sources: the base config file
	// and the namespaced files discovered under the configs directory.
	RankProject Rank = iota + 1
	// RankOverride covers explicitly supplied override source files.
	RankOverride
	// RankRepoRoot covers the repo-root override supplied on the command line.
	RankRepoRoot
	// RankAssignment covers direct key=value assignments, the final word.
	RankAssignment
)

// Layer is one precedence tier: a tree, an optional namespace to nest it
// under, and the rank that decides collisions.
type Layer struct {
	Rank      Rank
	Namespace string
	Tree      vars.Tree
}

// Merge combines layers in ascending rank into a single tree. Within a rank,
// supplied order is preserved (stable sort), so later overrides of the same
// rank win, matching the order flags were given on the command line.
func Merge(layers []Layer) vars.Tree {
	ordered := make([]Layer, len(layers))
	copy(ordered, layers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rank < ordered[j].Rank
	})

	merged := vars.Tree{}
	for _, layer := range ordered {
		incoming := layer.Tree
		if layer.Namespace != "" {
			incoming = vars.Tree{layer.Namespace: layer.Tree}
		}
		vars.Merge(merged, incoming)
	}
	return merged
}
