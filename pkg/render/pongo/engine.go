// Package pongo provides the pongo2-backed template engine used for both
// inline "$" expansion and template file rendering.
package pongo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-renderkit/pkg/render"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	globals   map[string]any
}

// WithBaseDir loads named templates from a directory on disk, enabling
// cross-template includes rooted there.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads named templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobals seeds context values available to every render.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[key] = value
		}
	}
}

// Engine satisfies render.Engine with a pongo2 template set. Construction
// without a base dir or fs.FS yields a string-only engine: RenderString works
// and RenderTemplate reports that no loader is configured.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	hasLoader   bool
}

var _ render.Engine = (*Engine)(nil)

// New constructs an Engine. Autoescaping is disabled globally: the pipeline
// composes text artifacts, so rendered values must pass through verbatim.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	pongo2.SetAutoescape(false)

	hasLoader := len(loaders) > 0
	if !hasLoader {
		// pongo2.NewSet panics with zero loaders. A base-dir-less local
		// loader keeps FromString working; RenderTemplate stays gated on
		// hasLoader so named lookups still report the missing loader.
		loaders = append(loaders, pongo2.MustNewLocalFileSystemLoader(""))
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("renderkit", loaders...),
		templates:   make(map[string]*pongo2.Template),
		hasLoader:   hasLoader,
	}
	if len(cfg.globals) > 0 {
		engine.templateSet.Globals = pongo2.Context(cfg.globals)
	}
	return engine, nil
}

// RenderString parses and executes inline template text.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("pongo: engine is nil")
	}
	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("pongo: parse template string: %w", err)
	}
	return e.execute(tmpl, "inline template", data, out...)
}

// RenderTemplate executes a template by name through the configured loader.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("pongo: engine is nil")
	}
	if !e.hasLoader {
		return "", errors.New("pongo: no template loader configured")
	}
	tmpl, err := e.getTemplate(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, name, data, out...)
}

func (e *Engine) execute(tmpl *pongo2.Template, name string, data any, out ...io.Writer) (string, error) {
	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: convert data for %s: %w", name, err)
	}

	var buf bytes.Buffer

	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("pongo: execute %s: %w", name, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := w.Write([]byte(rendered)); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) getTemplate(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[name]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", name, err)
	}
	e.templates[name] = tmpl
	return tmpl, nil
}

// convertToContext accepts the mapping shapes the pipeline produces. Trees
// are already normalized by the config loader, so no deep conversion is
// needed here.
func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		return nil, fmt.Errorf("pongo: unsupported context type %T", data)
	}
}
