package resolve

import (
	"fmt"
	"strings"
)

// CommandError reports a shell command that exited non-zero, carrying the
// exit code and whatever the command wrote to standard error.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("resolve: command %q exited with code %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// CycleError reports an unresolvable dependency cycle between template
// values, naming the implicated key paths in traversal order.
type CycleError struct {
	Keys []string
}

func (e *CycleError) Error() string {
	return "resolve: cyclic reference: " + strings.Join(e.Keys, " -> ")
}
