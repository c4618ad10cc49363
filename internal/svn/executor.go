package svn

import (
	"context"
	"os/exec"
)

// CommandExecutor abstracts running a command to completion for testability.
type CommandExecutor interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RealExecutor runs actual commands and returns their standard output.
type RealExecutor struct{}

func (r *RealExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
