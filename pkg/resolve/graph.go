package resolve

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-renderkit/pkg/vars"
)

// refPattern captures the leading dotted identifier of a {{ ... }} span.
// pongo2 exposes no parse-tree API for undeclared variables, so references
// are scanned lexically; filters and expression tails after the identifier
// are irrelevant to dependency ordering.
var refPattern = regexp.MustCompile(`\{\{-?\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)`)

// leaf is one string-bearing position in the tree, with a setter so resolved
// values can be written back regardless of whether the holder is a mapping or
// a sequence element.
type leaf struct {
	path      string
	namespace string
	value     string
	set       func(any)
}

// templateNode is a still-unresolved "$" value participating in the
// dependency graph.
type templateNode struct {
	leaf
	deps map[string]struct{}
}

// collectLeaves gathers every string value with its dotted path. Sequence
// elements are addressed with a bracketed index purely for diagnostics.
func collectLeaves(tree vars.Tree) []leaf {
	var leaves []leaf
	collectFromTree(tree, "", "", &leaves)
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].path < leaves[j].path })
	return leaves
}

func collectFromTree(tree vars.Tree, prefix, namespace string, leaves *[]leaf) {
	for key, value := range tree {
		path := key
		ns := namespace
		if prefix != "" {
			path = prefix + "." + key
		} else {
			ns = ""
		}
		collectValue(tree, key, value, path, ns, leaves)
	}
}

func collectValue(parent vars.Tree, key string, value any, path, namespace string, leaves *[]leaf) {
	switch v := value.(type) {
	case vars.Tree:
		childNS := namespace
		if childNS == "" {
			childNS = path
		}
		collectFromTree(v, path, childNS, leaves)
	case []any:
		collectFromSlice(v, path, namespace, leaves)
	case string:
		*leaves = append(*leaves, leaf{
			path:      path,
			namespace: namespace,
			value:     v,
			set:       func(resolved any) { parent[key] = resolved },
		})
	}
}

func collectFromSlice(seq []any, prefix, namespace string, leaves *[]leaf) {
	for i, item := range seq {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		switch v := item.(type) {
		case vars.Tree:
			collectFromTree(v, path, namespace, leaves)
		case []any:
			collectFromSlice(v, path, namespace, leaves)
		case string:
			index := i
			*leaves = append(*leaves, leaf{
				path:      path,
				namespace: namespace,
				value:     v,
				set:       func(resolved any) { seq[index] = resolved },
			})
		}
	}
}

// collectPaths returns every dotted mapping path in the tree, intermediate
// keys included, so references can target namespaces as well as leaves.
func collectPaths(tree vars.Tree) map[string]struct{} {
	paths := make(map[string]struct{})
	var walk func(t vars.Tree, prefix string)
	walk = func(t vars.Tree, prefix string) {
		for key, value := range t {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			paths[path] = struct{}{}
			if child, ok := value.(vars.Tree); ok {
				walk(child, path)
			}
		}
	}
	walk(tree, "")
	return paths
}

// templateRefs extracts the dotted identifiers referenced by a template body.
func templateRefs(src string) []string {
	matches := refPattern.FindAllStringSubmatch(src, -1)
	seen := make(map[string]struct{}, len(matches))
	var refs []string
	for _, match := range matches {
		if _, dup := seen[match[1]]; dup {
			continue
		}
		seen[match[1]] = struct{}{}
		refs = append(refs, match[1])
	}
	return refs
}

// resolveDeps maps a node's references onto pending node paths. Lookup order
// follows the namespace-first strategy: sibling within the node's namespace,
// then an exact global path, then a namespace-prefix match that pulls in
// every pending key beneath it. References that match no known path are left
// to the template engine, which renders them empty.
func resolveDeps(node *templateNode, known map[string]struct{}, pending map[string]*templateNode) {
	for _, ref := range templateRefs(strings.TrimPrefix(node.value, "$")) {
		if node.namespace != "" {
			sibling := node.namespace + "." + ref
			if _, ok := known[sibling]; ok {
				addDep(node, sibling, pending)
				continue
			}
		}
		if _, ok := known[ref]; ok {
			addDep(node, ref, pending)
			// An exact match may still be a namespace; fall through to the
			// prefix scan so the whole subtree is awaited.
		}
		prefix := ref + "."
		for path := range pending {
			if strings.HasPrefix(path, prefix) {
				addDep(node, path, pending)
			}
		}
	}
}

// addDep records an edge only when the target is itself still pending;
// already-resolved values impose no ordering. Self references stay in the
// graph so cycle detection reports them.
func addDep(node *templateNode, path string, pending map[string]*templateNode) {
	if _, isPending := pending[path]; isPending {
		node.deps[path] = struct{}{}
	}
}

// detectCycle runs a three-color depth-first search over the pending nodes
// and returns the first cycle found as an ordered key path, or nil.
func detectCycle(pending map[string]*templateNode) []string {
	const (
		white = iota
		grey
		black
	)
	state := make(map[string]int, len(pending))
	var stack []string

	order := make([]string, 0, len(pending))
	for path := range pending {
		order = append(order, path)
	}
	sort.Strings(order)

	var cycle []string
	var visit func(path string) bool
	visit = func(path string) bool {
		state[path] = grey
		stack = append(stack, path)

		node := pending[path]
		deps := make([]string, 0, len(node.deps))
		for dep := range node.deps {
			deps = append(deps, dep)
		}
		sort.Strings(deps)

		for _, dep := range deps {
			switch state[dep] {
			case grey:
				for i, frame := range stack {
					if frame == dep {
						cycle = append(append([]string{}, stack[i:]...), dep)
						return true
					}
				}
				cycle = []string{dep, dep}
				return true
			case white:
				if visit(dep) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[path] = black
		return false
	}

	for _, path := range order {
		if state[path] == white && visit(path) {
			return cycle
		}
	}
	return nil
}
