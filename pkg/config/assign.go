package config

import (
	"strings"

	"github.com/goliatone/go-renderkit/pkg/vars"
)

// Assignment is a parsed key=value pair. The value stays a raw string and is
// subject to the same special-syntax resolution as any file-sourced value.
type Assignment struct {
	Path  string
	Value string
}

// ParseAssignment splits a "KOS.version=2.0" style argument. Only the first
// "=" separates key from value, so values may themselves contain "=".
func ParseAssignment(input string) (Assignment, error) {
	key, value, found := strings.Cut(input, "=")
	if !found {
		return Assignment{}, &AssignError{Input: input, Reason: "missing '='"}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Assignment{}, &AssignError{Input: input, Reason: "empty key"}
	}
	for _, segment := range strings.Split(key, ".") {
		if segment == "" {
			return Assignment{}, &AssignError{Input: input, Reason: "key has an empty path segment"}
		}
	}
	return Assignment{Path: key, Value: value}, nil
}

// AssignmentLayer folds parsed assignments into a single highest-rank layer.
func AssignmentLayer(inputs []string) (Layer, error) {
	tree := vars.Tree{}
	for _, input := range inputs {
		assignment, err := ParseAssignment(input)
		if err != nil {
			return Layer{}, err
		}
		if err := vars.SetPath(tree, assignment.Path, assignment.Value); err != nil {
			return Layer{}, &AssignError{Input: input, Reason: err.Error()}
		}
	}
	return Layer{Rank: RankAssignment, Tree: tree}, nil
}
