// Package orchestrator wires the pipeline together: layered source loading,
// merging, special-value resolution, scope application, and rendering in the
// three invocation modes (single template, piped stdin, directory batch).
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/goliatone/go-renderkit/internal/console"
	"github.com/goliatone/go-renderkit/internal/fsutil"
	"github.com/goliatone/go-renderkit/pkg/config"
	"github.com/goliatone/go-renderkit/pkg/render"
	"github.com/goliatone/go-renderkit/pkg/render/pongo"
	"github.com/goliatone/go-renderkit/pkg/resolve"
	"github.com/goliatone/go-renderkit/pkg/vars"
)

const (
	// TemplatesDirName is the project directory rendered in batch mode.
	TemplatesDirName = "templates"
	// OutputsDirName is the directory batch mode mirrors rendered files into.
	OutputsDirName = "outputs"

	lockFileName = ".renderkit.lock"
)

// Request describes one invocation, mirroring the CLI surface.
type Request struct {
	// Template is the path of a single template to render to stdout.
	Template string
	// StdinTemplate is template text read from a pipe; mutually exclusive
	// with Template.
	StdinTemplate string
	// Project is the project root; empty means the working directory.
	Project string
	// NoProjectConfig disables loading the default project sources.
	NoProjectConfig bool
	// GlobalConfigs are override sources merged at top level.
	GlobalConfigs []string
	// NamespacedConfigs are override sources merged under their file-name
	// namespaces.
	NamespacedConfigs []string
	// RepoRoot overrides the repo root used for "@" includes.
	RepoRoot string
	// Assignments are key=value pairs with the highest precedence.
	Assignments []string
	// Scope promotes a namespace to the top level in single and stdin modes.
	Scope string
}

// Option customises the orchestrator.
type Option func(*Orchestrator)

// WithRunner injects the command execution capability handed to the resolver.
func WithRunner(runner resolve.Runner) Option {
	return func(o *Orchestrator) {
		o.runner = runner
	}
}

// WithConsole injects the progress printer.
func WithConsole(c *console.Console) Option {
	return func(o *Orchestrator) {
		o.console = c
	}
}

// WithCommandConfirm installs a gate consulted before every "!" command runs.
// Returning false aborts the invocation without executing the command.
func WithCommandConfirm(fn func(command string) (bool, error)) Option {
	return func(o *Orchestrator) {
		o.confirm = fn
	}
}

// WithStdout overrides where single and stdin mode output is written.
func WithStdout(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.stdout = w
	}
}

// Orchestrator runs invocations against a fixed set of capabilities.
type Orchestrator struct {
	runner  resolve.Runner
	console *console.Console
	stdout  io.Writer
	confirm func(command string) (bool, error)
}

// New constructs an Orchestrator with stdout and a non-quiet console as
// defaults.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		stdout:  os.Stdout,
		console: console.New(nil, false),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	return o
}

// Run executes the invocation. Single and stdin modes abort on the first
// failure; directory mode renders every template, reports each failure, and
// returns an error if any template failed.
func (o *Orchestrator) Run(ctx context.Context, req Request) error {
	if req.Template != "" && req.StdinTemplate != "" {
		return errors.New("orchestrator: cannot combine a piped template with --template")
	}

	resolved, projectRoot, err := o.buildContext(ctx, req)
	if err != nil {
		return err
	}

	if req.Template != "" || req.StdinTemplate != "" {
		return o.renderSingle(resolved, req)
	}
	return o.renderDirectory(projectRoot, resolved)
}

// Context loads, merges, and resolves the variable tree without rendering,
// for inspection commands.
func (o *Orchestrator) Context(ctx context.Context, req Request) (vars.Tree, error) {
	resolved, _, err := o.buildContext(ctx, req)
	return resolved, err
}

func (o *Orchestrator) buildContext(ctx context.Context, req Request) (vars.Tree, string, error) {
	projectRoot := req.Project
	if projectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("orchestrator: working directory: %w", err)
		}
		projectRoot = wd
	}

	o.console.Infof("loading configuration from %s", projectRoot)
	layers, err := config.LoadLayers(config.ProjectOptions{
		Root:                projectRoot,
		NoProjectConfig:     req.NoProjectConfig,
		GlobalOverrides:     req.GlobalConfigs,
		NamespacedOverrides: req.NamespacedConfigs,
		RepoRoot:            req.RepoRoot,
		Assignments:         req.Assignments,
	})
	if err != nil {
		return nil, "", err
	}
	merged := config.Merge(layers)

	repoRoot := config.ResolveRepoRoot(merged, projectRoot)
	// Templates can always reference {{ repo_root }}, including the fallback
	// and ~ expansion the sources themselves never spelled out.
	merged[config.RepoRootKey] = repoRoot
	if info, err := os.Stat(repoRoot); err != nil || !info.IsDir() {
		o.console.Warnf("repo_root %q is not a directory; @ includes will fail", repoRoot)
	}

	engine, err := pongo.New()
	if err != nil {
		return nil, "", err
	}

	runner := o.runner
	if runner == nil {
		runner = &resolve.ShellRunner{Dir: repoRoot}
	}
	if o.confirm != nil {
		runner = &confirmRunner{next: runner, confirm: o.confirm}
	}

	o.console.Infof("resolving special values")
	resolved, err := resolve.New(
		resolve.WithRepoRoot(repoRoot),
		resolve.WithRenderer(engine),
		resolve.WithRunner(runner),
	).Resolve(ctx, merged)
	if err != nil {
		return nil, "", err
	}
	return resolved, projectRoot, nil
}

// renderSingle handles the single-template and stdin modes, writing the
// rendered result to stdout.
func (o *Orchestrator) renderSingle(resolved vars.Tree, req Request) error {
	content := req.StdinTemplate
	if req.Template != "" {
		data, err := os.ReadFile(req.Template)
		if err != nil {
			return fmt.Errorf("orchestrator: read template %s: %w", req.Template, err)
		}
		content = string(data)
	}

	if req.Scope != "" {
		if _, ok := vars.Lookup(resolved, req.Scope); !ok {
			o.console.Warnf("scope %q not found in configuration, ignoring", req.Scope)
		}
	}

	engine, err := pongo.New()
	if err != nil {
		return err
	}
	output, err := engine.RenderString(content, render.BuildContext(resolved, req.Scope))
	if err != nil {
		return err
	}
	_, err = io.WriteString(o.stdout, output)
	return err
}

// renderDirectory renders the project templates directory recursively,
// mirroring its structure into the outputs directory. A file lock on the
// outputs directory keeps concurrent invocations from interleaving writes.
func (o *Orchestrator) renderDirectory(projectRoot string, resolved vars.Tree) error {
	templatesDir := filepath.Join(projectRoot, TemplatesDirName)
	if info, err := os.Stat(templatesDir); err != nil || !info.IsDir() {
		return fmt.Errorf("orchestrator: templates directory %s does not exist", templatesDir)
	}

	outputsDir := filepath.Join(projectRoot, OutputsDirName)
	if err := os.MkdirAll(outputsDir, 0o755); err != nil {
		return fmt.Errorf("orchestrator: create outputs dir: %w", err)
	}

	// The lock lives at the project root, not inside outputs/, so the
	// mirrored output tree contains only rendered files.
	lock := flock.New(filepath.Join(projectRoot, lockFileName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("orchestrator: lock outputs dir: %w", err)
	}
	defer lock.Unlock()

	engine, err := pongo.New(pongo.WithBaseDir(templatesDir))
	if err != nil {
		return err
	}

	templates, err := fsutil.FindFiles(templatesDir)
	if err != nil {
		return fmt.Errorf("orchestrator: scan templates: %w", err)
	}

	var failed int
	for _, templatePath := range templates {
		rel, err := filepath.Rel(templatesDir, templatePath)
		if err != nil {
			return err
		}
		o.console.Infof("rendering %s", rel)

		if err := o.renderOne(engine, resolved, templatesDir, templatePath, filepath.Join(outputsDir, rel)); err != nil {
			failed++
			o.console.Errorf("render %s: %v", rel, err)
			continue
		}
		o.console.Successf("wrote %s", filepath.Join(OutputsDirName, rel))
	}

	if failed > 0 {
		return fmt.Errorf("orchestrator: %d of %d templates failed", failed, len(templates))
	}
	return nil
}

func (o *Orchestrator) renderOne(engine render.Engine, resolved vars.Tree, templatesDir, templatePath, outputPath string) error {
	scope, err := render.ScopeFor(templatePath, templatesDir)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(templatesDir, templatePath)
	if err != nil {
		return err
	}
	output, err := engine.RenderTemplate(filepath.ToSlash(rel), render.BuildContext(resolved, scope))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(output), 0o644)
}
