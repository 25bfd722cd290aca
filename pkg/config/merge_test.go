package config_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-renderkit/pkg/config"
	"github.com/goliatone/go-renderkit/pkg/vars"
)

func TestMerge_HigherRankWins(t *testing.T) {
	layers := []config.Layer{
		{Rank: config.RankAssignment, Tree: vars.Tree{"KOS": vars.Tree{"version": "3.0"}}},
		{Rank: config.RankProject, Namespace: "KOS", Tree: vars.Tree{"version": "1.0", "author": "ada"}},
		{Rank: config.RankOverride, Namespace: "KOS", Tree: vars.Tree{"version": "2.0"}},
	}

	got := config.Merge(layers)

	want := vars.Tree{
		"KOS": vars.Tree{"version": "3.0", "author": "ada"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_SameRankPreservesSuppliedOrder(t *testing.T) {
	layers := []config.Layer{
		{Rank: config.RankOverride, Tree: vars.Tree{"key": "first"}},
		{Rank: config.RankOverride, Tree: vars.Tree{"key": "second"}},
	}

	got := config.Merge(layers)
	if got["key"] != "second" {
		t.Fatalf("key = %v, want second (later same-rank layer wins)", got["key"])
	}
}

func TestMerge_NamespaceNesting(t *testing.T) {
	layers := []config.Layer{
		{Rank: config.RankProject, Tree: vars.Tree{"project_name": "Kosmos"}},
		{Rank: config.RankProject, Namespace: "KOS", Tree: vars.Tree{"version": "1.0"}},
	}

	got := config.Merge(layers)

	if value, _ := vars.Lookup(got, "KOS.version"); value != "1.0" {
		t.Fatalf("KOS.version = %v", value)
	}
	if got["project_name"] != "Kosmos" {
		t.Fatalf("project_name = %v", got["project_name"])
	}
}

func TestParseAssignment(t *testing.T) {
	assignment, err := config.ParseAssignment("KOS.version=2.0")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if assignment.Path != "KOS.version" || assignment.Value != "2.0" {
		t.Fatalf("assignment = %+v", assignment)
	}

	// Only the first '=' splits key from value.
	assignment, err = config.ParseAssignment("flags=a=b")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if assignment.Value != "a=b" {
		t.Fatalf("value = %q, want a=b", assignment.Value)
	}
}

func TestParseAssignment_Malformed(t *testing.T) {
	for _, input := range []string{"novalue", "=empty", "a..b=x", " =x"} {
		_, err := config.ParseAssignment(input)
		var assignErr *config.AssignError
		if !errors.As(err, &assignErr) {
			t.Errorf("%q: expected *AssignError, got %v", input, err)
		}
	}
}

func TestAssignmentLayer_SetsNestedPaths(t *testing.T) {
	layer, err := config.AssignmentLayer([]string{"KOS.version=2.0", "top=plain"})
	if err != nil {
		t.Fatalf("assignment layer: %v", err)
	}
	if layer.Rank != config.RankAssignment {
		t.Fatalf("rank = %v", layer.Rank)
	}
	if value, _ := vars.Lookup(layer.Tree, "KOS.version"); value != "2.0" {
		t.Fatalf("KOS.version = %v", value)
	}
	if layer.Tree["top"] != "plain" {
		t.Fatalf("top = %v", layer.Tree["top"])
	}
}

func TestResolveRepoRoot(t *testing.T) {
	merged := vars.Tree{config.RepoRootKey: "/srv/repo"}
	if got := config.ResolveRepoRoot(merged, "/fallback"); got != "/srv/repo" {
		t.Fatalf("repo root = %q", got)
	}
	if got := config.ResolveRepoRoot(vars.Tree{}, "/fallback"); got != "/fallback" {
		t.Fatalf("fallback repo root = %q", got)
	}
	if got := config.ResolveRepoRoot(vars.Tree{config.RepoRootKey: 7}, "/fallback"); got != "/fallback" {
		t.Fatalf("non-string repo root = %q", got)
	}
}
