// Package renderkit composes text artifacts (prompts, configs, docs) from
// layered variable sources and pongo2 templates. Sources merge under a strict
// precedence order, special values (@ includes, file:// includes, ! commands,
// $ nested templates) expand to a fixpoint, and the resolved context drives
// template rendering in single, stdin, or directory mode.
package renderkit

import (
	"context"

	"github.com/goliatone/go-renderkit/pkg/orchestrator"
	"github.com/goliatone/go-renderkit/pkg/vars"
)

// Request describes one rendering invocation; alias exported via the root
// package for convenience.
type Request = orchestrator.Request

// Option customises the pipeline before running.
type Option = orchestrator.Option

// New exposes the orchestrator constructor from the top-level module.
func New(options ...Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Render loads the layered configuration, resolves every special value, and
// renders the requested templates. It is the simplest entry point for
// callers embedding the pipeline.
func Render(ctx context.Context, req Request, options ...Option) error {
	return orchestrator.New(options...).Run(ctx, req)
}

// Context loads and resolves the variable tree without rendering, for
// callers that want to inspect or reuse the final mapping.
func Context(ctx context.Context, req Request, options ...Option) (vars.Tree, error) {
	return orchestrator.New(options...).Context(ctx, req)
}
