package svn

import (
	"fmt"
	"strings"

	"github.com/joelmoss/svnscm/internal/errs"
)

// Re-export errors for convenience.
var (
	ErrNotFound     = errs.ErrNotFound
	ErrVersionParse = errs.ErrVersionParse
	ErrSpawn        = errs.ErrSpawn
	ErrExecution    = errs.ErrExecution
)

// SpawnError reports that svn could not be launched at all. It is distinct
// from a process that ran and exited non-zero. Without a Path it also
// matches ErrNotFound.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	if e.Path == "" {
		return ErrNotFound.Error() + "."
	}
	if e.Err == nil {
		return fmt.Sprintf("failed to start %s", e.Path)
	}
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() []error {
	if e.Path == "" {
		return []error{ErrSpawn, ErrNotFound}
	}
	if e.Err == nil {
		return []error{ErrSpawn}
	}
	return []error{ErrSpawn, e.Err}
}

// ExecutionError reports that svn ran and exited with a non-zero code. Its
// message is the captured stderr text, which is what callers match on.
type ExecutionError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExecutionError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return e.Stderr
	}
	return fmt.Sprintf("svn %s exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
}

func (e *ExecutionError) Unwrap() error {
	return ErrExecution
}
