package config_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-renderkit/pkg/config"
	"github.com/goliatone/go-renderkit/pkg/testsupport"
	"github.com/goliatone/go-renderkit/pkg/vars"
)

func TestNamespaceFor(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"KOS-main.yaml", "KOS"},
		{"KOS-main.yml", "KOS"},
		{"db2-overrides.toml", "db2"},
		{"configs/KOS-main.yaml", "KOS"},
		{"config.yaml", ""},
		{"KOS_main.yaml", ""},
		{"-dangling.yaml", ""},
		{"KOS-.yaml", ""},
		{"KOS-main.json", ""},
	}
	for _, tc := range cases {
		if got := config.NamespaceFor(tc.path); got != tc.want {
			t.Errorf("NamespaceFor(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestLoad_SequenceOfSingleKeyMappings(t *testing.T) {
	root := testsupport.WriteProject(t, map[string]string{
		"KOS-main.yaml": "- version: '1.0'\n- project_name: Kosmos\n",
	})

	namespace, tree, err := config.Load(filepath.Join(root, "KOS-main.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if namespace != "KOS" {
		t.Fatalf("namespace = %q, want KOS", namespace)
	}

	want := vars.Tree{"version": "1.0", "project_name": "Kosmos"}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_CanonicalMapping(t *testing.T) {
	root := testsupport.WriteProject(t, map[string]string{
		"config.yaml": "project_name: Kosmos\nnested:\n  key: value\nitems:\n  - a\n  - b\n",
	})

	namespace, tree, err := config.Load(filepath.Join(root, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if namespace != "" {
		t.Fatalf("namespace = %q, want empty", namespace)
	}

	want := vars.Tree{
		"project_name": "Kosmos",
		"nested":       vars.Tree{"key": "value"},
		"items":        []any{"a", "b"},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyDocument(t *testing.T) {
	root := testsupport.WriteProject(t, map[string]string{"config.yaml": "\n"})

	_, tree, err := config.Load(filepath.Join(root, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tree) != 0 {
		t.Fatalf("expected empty tree, got %v", tree)
	}
}

func TestLoad_TOMLSource(t *testing.T) {
	root := testsupport.WriteProject(t, map[string]string{
		"db2-settings.toml": "host = \"localhost\"\n\n[pool]\nsize = 4\n",
	})

	namespace, tree, err := config.Load(filepath.Join(root, "db2-settings.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if namespace != "db2" {
		t.Fatalf("namespace = %q, want db2", namespace)
	}
	if got, _ := vars.Lookup(tree, "host"); got != "localhost" {
		t.Fatalf("host = %v", got)
	}
	if _, ok := vars.Lookup(tree, "pool.size"); !ok {
		t.Fatal("expected nested pool.size")
	}
}

func TestLoad_MalformedDocument(t *testing.T) {
	root := testsupport.WriteProject(t, map[string]string{
		"bad.yaml":      "key: [unclosed\n",
		"badshape.yaml": "- not_single: 1\n  extra: 2\n",
		"scalar.yaml":   "just a scalar\n",
	})

	for _, name := range []string{"bad.yaml", "badshape.yaml", "scalar.yaml"} {
		_, _, err := config.Load(filepath.Join(root, name))
		var parseErr *config.ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("%s: expected *ParseError, got %v", name, err)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}
