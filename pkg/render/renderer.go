// Package render holds the template-facing half of the pipeline: the engine
// contract, scope derivation for templates inside a directory tree, and the
// construction of the final render context.
package render

import "io"

// Engine is the templating capability the pipeline depends on. Variable
// substitution follows the "{{ dotted.path }}" placeholder syntax. Extra
// writers, when supplied, receive a copy of the rendered output.
type Engine interface {
	// RenderString renders inline template text.
	RenderString(template string, data any, out ...io.Writer) (string, error)
	// RenderTemplate renders a named template resolved through the engine's
	// configured loader, enabling cross-template includes.
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
