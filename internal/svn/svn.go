// Package svn locates the Subversion command-line client and runs it as a
// subprocess, capturing its output and exit status.
package svn

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"
	"sync"

	"github.com/google/shlex"
	"github.com/joelmoss/svnscm/internal/event"
)

// Svn issues invocations of one svn executable. It is safe for concurrent
// use; invocations share nothing but the output event.
type Svn struct {
	path    string
	environ []string

	mu  sync.RWMutex
	env map[string]string

	output event.Emitter[string]
	spawn  spawnFunc
}

// New returns an Svn for the executable at path. An empty path is accepted
// here and rejected when an invocation is attempted. The process environment
// is captured once, now.
func New(path string, env map[string]string) *Svn {
	return &Svn{
		path:    path,
		environ: os.Environ(),
		env:     maps.Clone(env),
		spawn:   spawnProcess,
	}
}

// Path returns the executable path.
func (s *Svn) Path() string {
	return s.path
}

// SetEnv sets an environment override for later invocations.
func (s *Svn) SetEnv(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.env == nil {
		s.env = map[string]string{}
	}
	s.env[key] = value
}

// OnOutput is the log stream: one event with the command line when an
// invocation starts and one with its stderr text when that is non-empty.
func (s *Svn) OnOutput() event.Event[string] {
	return s.output.Event()
}

// Exec runs svn with args in cwd. opts.Cwd, when set, takes precedence.
//
// On a non-zero exit the returned error is an *ExecutionError carrying the
// stderr text; the partial result is returned alongside it. A launch failure
// is a *SpawnError.
func (s *Svn) Exec(ctx context.Context, cwd string, args []string, opts Options) (ExecutionResult, error) {
	if opts.Cwd == "" {
		opts.Cwd = cwd
	}
	return s.exec(ctx, args, opts)
}

// ExecLine is Exec with args split from a shell-style command line. A leading
// "svn" word is dropped.
func (s *Svn) ExecLine(ctx context.Context, cwd, line string, opts Options) (ExecutionResult, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("failed to parse command: %w", err)
	}
	if len(args) > 0 && args[0] == "svn" {
		args = args[1:]
	}
	return s.Exec(ctx, cwd, args, opts)
}

func (s *Svn) exec(ctx context.Context, args []string, opts Options) (ExecutionResult, error) {
	p, err := s.start(ctx, args, opts)
	if err != nil {
		return ExecutionResult{}, err
	}

	result, err := run(ctx, p, lookupEncoding(opts.Encoding))
	if err != nil {
		return ExecutionResult{}, err
	}

	if !opts.NoLog && len(result.Stderr) > 0 {
		s.log(result.Stderr + "\n")
	}

	if result.ExitCode != 0 {
		return result, &ExecutionError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return result, nil
}

func (s *Svn) start(ctx context.Context, args []string, opts Options) (process, error) {
	if s.path == "" {
		return nil, &SpawnError{}
	}

	s.mu.RLock()
	env := mergeEnv(s.environ, s.env, opts.Env, localeEnv)
	s.mu.RUnlock()

	if !opts.NoLog {
		s.log("svn " + strings.Join(args, " ") + "\n")
	}

	return s.spawn(ctx, spawnSpec{
		Path:  s.path,
		Args:  args,
		Dir:   opts.Cwd,
		Env:   env,
		Input: opts.Input,
	})
}

func (s *Svn) log(output string) {
	s.output.Fire(output)
}
