package render

import (
	"strings"

	"github.com/goliatone/go-renderkit/pkg/vars"
)

// BuildContext assembles the mapping handed to the template engine. Every key
// stays reachable by its full dotted path; when a scope is set, the subtree
// at that path is additionally promoted to the top level, with scope keys
// winning top-level collisions. A scope that names no subtree is ignored so
// an explicit scope never hides the rest of the context.
func BuildContext(resolved vars.Tree, scope string) map[string]any {
	out := make(map[string]any, len(resolved))
	for key, value := range resolved {
		out[key] = value
	}

	scope = strings.TrimSpace(scope)
	if scope == "" {
		return out
	}
	subtree, ok := vars.Lookup(resolved, scope)
	if !ok {
		return out
	}
	promoted, ok := subtree.(vars.Tree)
	if !ok {
		return out
	}
	for key, value := range promoted {
		out[key] = value
	}
	return out
}
