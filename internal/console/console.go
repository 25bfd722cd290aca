// Package console prints progress and diagnostics for an invocation. All
// output goes to the error stream so rendered results own standard output;
// quiet mode suppresses informational lines but never errors.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Console is a quiet-aware printer.
type Console struct {
	w     io.Writer
	quiet bool
}

// New builds a Console writing to w; a nil writer falls back to stderr.
func New(w io.Writer, quiet bool) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{w: w, quiet: quiet}
}

// Infof prints a progress line unless quiet mode is set.
func (c *Console) Infof(format string, args ...any) {
	c.printf(false, text.Colors{}, format, args...)
}

// Successf prints a green progress line unless quiet mode is set.
func (c *Console) Successf(format string, args ...any) {
	c.printf(false, text.Colors{text.FgGreen}, format, args...)
}

// Warnf prints a yellow progress line unless quiet mode is set.
func (c *Console) Warnf(format string, args ...any) {
	c.printf(false, text.Colors{text.FgYellow}, format, args...)
}

// Errorf prints a red diagnostic line. Quiet mode never suppresses errors.
func (c *Console) Errorf(format string, args ...any) {
	c.printf(true, text.Colors{text.FgRed}, format, args...)
}

func (c *Console) printf(always bool, colors text.Colors, format string, args ...any) {
	if c == nil {
		return
	}
	if c.quiet && !always {
		return
	}
	line := fmt.Sprintf(format, args...)
	if len(colors) > 0 {
		line = colors.Sprint(line)
	}
	fmt.Fprintln(c.w, line)
}
