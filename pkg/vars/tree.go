// Package vars models the variable trees that flow through the pipeline:
// loosely typed mappings decoded from YAML or TOML whose values are scalars,
// sequences, or nested trees.
package vars

// Tree is a variable tree. Values are restricted to the YAML-decoded closed
// set: string, bool, int, int64, float64, nil, []any, and nested Tree.
type Tree = map[string]any

// Clone returns a deep copy of the tree. Sequences and nested trees are
// copied; scalars are shared (they are immutable).
func Clone(t Tree) Tree {
	if t == nil {
		return Tree{}
	}
	out := make(Tree, len(t))
	for key, value := range t {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Tree:
		return Clone(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two trees hold the same structure and scalar values.
func Equal(a, b Tree) bool {
	return equalValue(a, b)
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case Tree:
		bv, ok := b.(Tree)
		if !ok || len(av) != len(bv) {
			return false
		}
		for key, value := range av {
			other, ok := bv[key]
			if !ok || !equalValue(value, other) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
