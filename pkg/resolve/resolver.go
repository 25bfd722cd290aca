// Package resolve expands the special value syntaxes found in a merged
// variable tree: "!" shell commands, "file://" external includes, "@"
// repo-relative includes, and "$" nested template expansions. Expansion runs
// on the fully merged tree so "$" values can reference keys defined or
// overridden in any layer, and proceeds to a fixpoint with explicit cycle
// detection.
package resolve

import (
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-renderkit/pkg/render"
	"github.com/goliatone/go-renderkit/pkg/vars"
)

// defaultMaxPasses bounds the fixpoint loop as a backstop; cycle detection
// ahead of the loop is what normally prevents non-termination.
const defaultMaxPasses = 64

// TemplateRenderer is the seam the resolver needs from the template engine:
// render inline template text against a context.
type TemplateRenderer interface {
	RenderString(template string, data any, out ...io.Writer) (string, error)
}

// Option configures a Resolver before use.
type Option func(*Resolver)

// WithRepoRoot sets the base directory for "@" includes and, unless a custom
// runner is supplied, the working directory for "!" commands.
func WithRepoRoot(dir string) Option {
	return func(r *Resolver) {
		r.repoRoot = dir
	}
}

// WithWorkdir sets the directory relative "file://" includes resolve against.
// Defaults to the process working directory.
func WithWorkdir(dir string) Option {
	return func(r *Resolver) {
		r.workdir = dir
	}
}

// WithRunner injects the command execution capability.
func WithRunner(runner Runner) Option {
	return func(r *Resolver) {
		r.runner = runner
	}
}

// WithRenderer injects the template engine used for "$" expansion.
func WithRenderer(renderer TemplateRenderer) Option {
	return func(r *Resolver) {
		r.renderer = renderer
	}
}

// WithMaxPasses overrides the fixpoint pass bound.
func WithMaxPasses(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// Resolver expands special values in place over a cloned tree.
type Resolver struct {
	repoRoot  string
	workdir   string
	runner    Runner
	renderer  TemplateRenderer
	maxPasses int
}

// New constructs a Resolver. Without an explicit runner, commands execute
// through the host shell with the repo root as working directory.
func New(options ...Option) *Resolver {
	r := &Resolver{maxPasses: defaultMaxPasses}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.workdir == "" {
		if wd, err := os.Getwd(); err == nil {
			r.workdir = wd
		}
	}
	if r.runner == nil {
		r.runner = &ShellRunner{Dir: r.repoRoot}
	}
	return r
}

// Resolve returns a copy of the tree with every special value expanded. The
// input tree is never mutated, and resolving an already-resolved tree is a
// no-op copy.
func (r *Resolver) Resolve(ctx context.Context, tree vars.Tree) (vars.Tree, error) {
	if r == nil {
		return nil, errors.New("resolve: resolver is nil")
	}
	out := vars.Clone(tree)

	pending, err := r.expandImmediate(ctx, out)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return out, nil
	}
	if r.renderer == nil {
		return nil, errors.New("resolve: template renderer is required for $ values")
	}

	known := collectPaths(out)
	for _, node := range pending {
		resolveDeps(node, known, pending)
	}
	if cycle := detectCycle(pending); cycle != nil {
		return nil, &CycleError{Keys: cycle}
	}

	if err := r.expandTemplates(ctx, out, pending); err != nil {
		return nil, err
	}
	return out, nil
}

// expandImmediate resolves command and include values, which never depend on
// other keys, and returns the "$" values left for the fixpoint loop.
func (r *Resolver) expandImmediate(ctx context.Context, out vars.Tree) (map[string]*templateNode, error) {
	pending := make(map[string]*templateNode)
	for _, l := range collectLeaves(out) {
		switch DetectKind(l.value) {
		case KindCommand:
			stdout, err := r.runner.Run(ctx, strings.TrimPrefix(l.value, "!"))
			if err != nil {
				return nil, err
			}
			l.set(trimTrailingNewline(stdout))
		case KindFileURI:
			content, err := r.readFileURI(l.value)
			if err != nil {
				return nil, err
			}
			l.set(content)
		case KindInclude:
			content, err := r.readRepoInclude(l.value)
			if err != nil {
				return nil, err
			}
			l.set(content)
		case KindTemplate:
			pending[l.path] = &templateNode{leaf: l, deps: map[string]struct{}{}}
		}
	}
	return pending, nil
}

// expandTemplates iterates passes over the pending "$" values. A value is
// rendered once every key it references has itself been resolved; each pass
// must make progress or the leftovers are reported as a cycle. The upfront
// cycle check makes that fallback unreachable in practice.
func (r *Resolver) expandTemplates(ctx context.Context, out vars.Tree, pending map[string]*templateNode) error {
	for pass := 0; len(pending) > 0 && pass < r.maxPasses; pass++ {
		ready := make([]*templateNode, 0, len(pending))
		for _, node := range pending {
			blocked := false
			for dep := range node.deps {
				if _, waiting := pending[dep]; waiting {
					blocked = true
					break
				}
			}
			if !blocked {
				ready = append(ready, node)
			}
		}
		if len(ready) == 0 {
			break
		}
		sort.Slice(ready, func(i, j int) bool { return ready[i].path < ready[j].path })

		for _, node := range ready {
			viewContext := render.BuildContext(out, node.namespace)
			expanded, err := r.expandRendered(ctx, node.value, viewContext)
			if err != nil {
				return err
			}
			node.set(expanded)
			delete(pending, node.path)
		}
	}

	if len(pending) > 0 {
		keys := make([]string, 0, len(pending))
		for path := range pending {
			keys = append(keys, path)
		}
		sort.Strings(keys)
		return &CycleError{Keys: keys}
	}
	return nil
}

// expandRendered renders a "$" value and expands whatever the render
// produces: "$!{{ tool }} arg" renders to a command line that then executes.
// A command or include that still carries "{{" markers after rendering is
// kept as text, never executed half-formed. Command output and include
// content are final and not re-scanned; only a render producing another "$"
// loops, bounded by maxPasses.
func (r *Resolver) expandRendered(ctx context.Context, value string, viewContext map[string]any) (string, error) {
	for pass := 0; pass < r.maxPasses; pass++ {
		switch DetectKind(value) {
		case KindTemplate:
			rendered, err := r.renderer.RenderString(strings.TrimPrefix(value, "$"), viewContext)
			if err != nil {
				return "", err
			}
			value = rendered
		case KindCommand:
			if strings.Contains(value, "{{") {
				return value, nil
			}
			stdout, err := r.runner.Run(ctx, strings.TrimPrefix(value, "!"))
			if err != nil {
				return "", err
			}
			return trimTrailingNewline(stdout), nil
		case KindFileURI:
			if strings.Contains(value, "{{") {
				return value, nil
			}
			return r.readFileURI(value)
		case KindInclude:
			if strings.Contains(value, "{{") {
				return value, nil
			}
			return r.readRepoInclude(value)
		default:
			return value, nil
		}
	}
	return value, nil
}

// trimTrailingNewline strips exactly one trailing newline from command
// output, preserving any interior or additional whitespace.
func trimTrailingNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
