package orchestrator

import (
	"context"
	"fmt"

	"github.com/goliatone/go-renderkit/pkg/resolve"
)

// confirmRunner gates command execution behind a confirmation callback.
type confirmRunner struct {
	next    resolve.Runner
	confirm func(command string) (bool, error)
}

func (r *confirmRunner) Run(ctx context.Context, command string) (string, error) {
	ok, err := r.confirm(command)
	if err != nil {
		return "", fmt.Errorf("orchestrator: confirm command %q: %w", command, err)
	}
	if !ok {
		return "", fmt.Errorf("orchestrator: execution of %q declined", command)
	}
	return r.next.Run(ctx, command)
}
