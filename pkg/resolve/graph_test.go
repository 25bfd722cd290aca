package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-renderkit/pkg/vars"
)

func TestTemplateRefs(t *testing.T) {
	cases := []struct {
		src  string
		want []string
	}{
		{"hello {{ name }}", []string{"name"}},
		{"{{ KOS.version }} and {{ KOS.version }}", []string{"KOS.version"}},
		{"{{- trimmed }}", []string{"trimmed"}},
		{"{{ value|upper }} {{ other }}", []string{"value", "other"}},
		{"no references here", nil},
		{"{{ a.b.c }}", []string{"a.b.c"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, templateRefs(tc.src)); diff != "" {
			t.Errorf("templateRefs(%q) mismatch (-want +got):\n%s", tc.src, diff)
		}
	}
}

func TestCollectPaths_IncludesIntermediates(t *testing.T) {
	tree := vars.Tree{
		"KOS": vars.Tree{
			"nested": vars.Tree{"deep": "v"},
		},
		"top": "v",
	}

	got := collectPaths(tree)

	for _, path := range []string{"KOS", "KOS.nested", "KOS.nested.deep", "top"} {
		if _, ok := got[path]; !ok {
			t.Errorf("missing path %q", path)
		}
	}
}

func TestCollectLeaves_NamespaceAssignment(t *testing.T) {
	tree := vars.Tree{
		"top": "a",
		"KOS": vars.Tree{
			"version": "b",
			"nested":  vars.Tree{"deep": "c"},
		},
	}

	byPath := make(map[string]string)
	for _, l := range collectLeaves(tree) {
		byPath[l.path] = l.namespace
	}

	want := map[string]string{
		"top":             "",
		"KOS.version":     "KOS",
		"KOS.nested.deep": "KOS",
	}
	if diff := cmp.Diff(want, byPath); diff != "" {
		t.Fatalf("namespaces mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectCycle(t *testing.T) {
	pending := map[string]*templateNode{
		"a": {leaf: leaf{path: "a"}, deps: map[string]struct{}{"b": {}}},
		"b": {leaf: leaf{path: "b"}, deps: map[string]struct{}{"c": {}}},
		"c": {leaf: leaf{path: "c"}, deps: map[string]struct{}{"a": {}}},
	}

	cycle := detectCycle(pending)
	if cycle == nil {
		t.Fatal("expected a cycle")
	}
	if first, last := cycle[0], cycle[len(cycle)-1]; first != last {
		t.Fatalf("cycle path does not close: %v", cycle)
	}
}

func TestDetectCycle_NoneForDAG(t *testing.T) {
	pending := map[string]*templateNode{
		"a": {leaf: leaf{path: "a"}, deps: map[string]struct{}{"b": {}, "c": {}}},
		"b": {leaf: leaf{path: "b"}, deps: map[string]struct{}{"c": {}}},
		"c": {leaf: leaf{path: "c"}, deps: map[string]struct{}{}},
	}

	if cycle := detectCycle(pending); cycle != nil {
		t.Fatalf("unexpected cycle %v", cycle)
	}
}

func TestResolveDeps_SiblingBeatsGlobal(t *testing.T) {
	// Both "KOS.name" and a top-level "name" exist; the sibling wins for a
	// node inside the KOS namespace.
	known := map[string]struct{}{
		"KOS":      {},
		"KOS.name": {},
		"name":     {},
	}
	pending := map[string]*templateNode{
		"KOS.name": {leaf: leaf{path: "KOS.name", namespace: "KOS"}},
		"name":     {leaf: leaf{path: "name"}},
	}
	node := &templateNode{
		leaf: leaf{path: "KOS.banner", namespace: "KOS", value: "${{ name }}"},
		deps: map[string]struct{}{},
	}

	resolveDeps(node, known, pending)

	if _, ok := node.deps["KOS.name"]; !ok {
		t.Fatalf("deps = %v, want sibling KOS.name", node.deps)
	}
	if _, ok := node.deps["name"]; ok {
		t.Fatalf("deps = %v, sibling match must not also bind the global", node.deps)
	}
}

func TestResolveDeps_NamespacePrefixAwaitsSubtree(t *testing.T) {
	known := map[string]struct{}{
		"KOS":         {},
		"KOS.version": {},
	}
	pending := map[string]*templateNode{
		"KOS.version": {leaf: leaf{path: "KOS.version"}},
	}
	node := &templateNode{
		leaf: leaf{path: "summary", value: "${{ KOS }}"},
		deps: map[string]struct{}{},
	}

	resolveDeps(node, known, pending)

	if _, ok := node.deps["KOS.version"]; !ok {
		t.Fatalf("deps = %v, want pending subtree key KOS.version", node.deps)
	}
}
