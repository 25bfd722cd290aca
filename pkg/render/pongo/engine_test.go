package pongo_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goliatone/go-renderkit/pkg/render/pongo"
	"github.com/goliatone/go-renderkit/pkg/testsupport"
)

func TestNew_StringOnlyEngine(t *testing.T) {
	// Construction with no loader options must succeed: inline rendering is
	// the common path and only named-template lookup needs a real loader.
	engine, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString("ok {{ n }}", map[string]any{"n": 1})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ok 1" {
		t.Fatalf("rendered = %q", got)
	}
	if _, err := engine.RenderTemplate("named.txt", nil); err == nil {
		t.Fatal("named lookup must still require a loader")
	}
}

func TestRenderString_DottedAccess(t *testing.T) {
	engine, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString("{{ KOS.version }} by {{ author }}", map[string]any{
		"KOS":    map[string]any{"version": "1.0"},
		"author": "ada",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "1.0 by ada" {
		t.Fatalf("rendered = %q", got)
	}
}

func TestRenderString_TeesToWriter(t *testing.T) {
	engine, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var buf bytes.Buffer
	got, err := engine.RenderString("hi {{ name }}", map[string]any{"name": "kosmos"}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "hi kosmos" || buf.String() != got {
		t.Fatalf("rendered = %q, writer = %q", got, buf.String())
	}
}

func TestRenderString_AutoescapeDisabled(t *testing.T) {
	engine, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString("{{ snippet }}", map[string]any{
		"snippet": `<a href="x">&</a>`,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != `<a href="x">&</a>` {
		t.Fatalf("rendered = %q, want markup passed through verbatim", got)
	}
}

func TestRenderTemplate_WithBaseDirAndInclude(t *testing.T) {
	root := testsupport.WriteProject(t, map[string]string{
		"main.txt":    "start {% include \"partial.txt\" %} end",
		"partial.txt": "[{{ label }}]",
	})

	engine, err := pongo.New(pongo.WithBaseDir(root))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderTemplate("main.txt", map[string]any{"label": "inner"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "start [inner] end" {
		t.Fatalf("rendered = %q", got)
	}
}

func TestRenderTemplate_WithoutLoader(t *testing.T) {
	engine, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	_, err = engine.RenderTemplate("anything.txt", nil)
	if err == nil || !strings.Contains(err.Error(), "no template loader") {
		t.Fatalf("expected loader error, got %v", err)
	}
}

func TestRenderString_ParseError(t *testing.T) {
	engine, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if _, err := engine.RenderString("{% if %}", nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNew_Globals(t *testing.T) {
	engine, err := pongo.New(pongo.WithGlobals(map[string]any{"env": "test"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString("{{ env }}", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "test" {
		t.Fatalf("rendered = %q", got)
	}
}
