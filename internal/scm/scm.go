// Package scm wires configuration, executable discovery and the svn facade
// into a session whose log events are rendered to an output channel.
package scm

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joelmoss/svnscm/internal/config"
	"github.com/joelmoss/svnscm/internal/errs"
	"github.com/joelmoss/svnscm/internal/event"
	"github.com/joelmoss/svnscm/internal/svn"
	"github.com/joelmoss/svnscm/internal/ui"
)

// ErrDisabled is returned by Open when the integration is turned off.
var ErrDisabled = errs.ErrDisabled

// Service opens svn sessions from the user's configuration.
type Service struct {
	Config  *config.Config
	Locator *svn.Locator
	Out     io.Writer
	Verbose bool
}

// Session is one located svn executable plus the output channel its log
// events are rendered to. Dispose detaches everything Open attached.
type Session struct {
	Svn    *svn.Svn
	Info   svn.ExecutableInfo
	Output *ui.OutputChannel

	status      event.Emitter[string]
	disposables event.Disposables
}

func (s *Service) output() io.Writer {
	if s.Out != nil {
		return s.Out
	}
	return os.Stderr
}

func (s *Service) locator() *svn.Locator {
	if s.Locator != nil {
		return s.Locator
	}
	return svn.NewLocator()
}

// Open reads the configuration once, locates svn and attaches the output
// channel to the facade's log stream.
func (s *Service) Open(ctx context.Context) (*Session, error) {
	st, err := s.Config.Load()
	if err != nil {
		return nil, err
	}
	if !st.Enabled {
		return nil, ErrDisabled
	}
	hint, env, minVersion := st.PathHint, st.Env, st.MinVersion

	sess := &Session{Output: ui.NewOutputChannel("svn", s.output())}
	verbose := func(string) bool { return s.Verbose }
	event.Listen(event.Filter(sess.status.Event(), verbose), sess.Output.AppendLine, &sess.disposables)

	if hint != "" {
		sess.sayStatus("locate", "trying "+ui.DisplayPath(hint))
	}
	info, err := s.locator().Locate(ctx, hint)
	if err != nil {
		sess.Dispose()
		return nil, err
	}
	if hint != "" && info.Path != hint {
		sess.sayStatus("fallback", fmt.Sprintf("%s is not usable, using %s", ui.DisplayPath(hint), info.Path))
	}

	sess.Info = info
	sess.Svn = svn.New(info.Path, env)
	event.Listen(event.Map(sess.Svn.OnOutput(), ui.Colorize), sess.Output.Append, &sess.disposables)

	sess.Output.AppendLine(fmt.Sprintf("Using svn %s from %s", info.Version, ui.DisplayPath(info.Path)))
	if minVersion != "" && !info.AtLeast(minVersion) {
		sess.Output.AppendLine(ui.Yellow(fmt.Sprintf("svn %s is older than the configured minimum %s", info.Version, minVersion)))
	}

	return sess, nil
}

func (s *Session) sayStatus(status, msg string) {
	s.status.Fire(fmt.Sprintf("%12s  %s", status, msg))
}

// OnLog merges the facade's log events with the session's status messages,
// unfiltered and uncolored.
func (s *Session) OnLog() event.Event[string] {
	status := event.Map(s.status.Event(), func(line string) string { return line + "\n" })
	return event.Any(s.Svn.OnOutput(), status)
}

// Exec runs svn with args in cwd.
func (s *Session) Exec(ctx context.Context, cwd string, args []string, opts svn.Options) (svn.ExecutionResult, error) {
	s.sayRun(cwd, opts)
	return s.Svn.Exec(ctx, cwd, args, opts)
}

// ExecLine runs a shell-style svn command line in cwd.
func (s *Session) ExecLine(ctx context.Context, cwd, line string, opts svn.Options) (svn.ExecutionResult, error) {
	s.sayRun(cwd, opts)
	return s.Svn.ExecLine(ctx, cwd, line, opts)
}

func (s *Session) sayRun(cwd string, opts svn.Options) {
	if opts.Cwd != "" {
		cwd = opts.Cwd
	}
	if cwd != "" {
		s.sayStatus("run", "in "+ui.DisplayPath(cwd))
	}
}

// Dispose detaches the output channel and every other listener Open attached.
func (s *Session) Dispose() {
	s.disposables = event.Dispose(s.disposables)
	s.status.Dispose()
}
