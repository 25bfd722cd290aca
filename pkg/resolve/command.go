package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Runner executes a shell command and returns its captured standard output.
// It is injected into the resolver so tests can stub command execution.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// ShellRunner executes commands through the host shell. Commands run with the
// repo root as working directory when one is configured, matching include
// resolution so relative paths behave consistently.
type ShellRunner struct {
	// Dir is the working directory for commands; empty means inherited.
	Dir string
}

// Run executes the command via "sh -c", returning raw standard output. A
// non-zero exit produces a *CommandError with the captured standard error.
func (r *ShellRunner) Run(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if r != nil && r.Dir != "" {
		cmd.Dir = r.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &CommandError{
				Command:  command,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return "", fmt.Errorf("resolve: run command %q: %w", command, err)
	}
	return stdout.String(), nil
}
