package svn

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/joelmoss/svnscm/internal/event"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used to decode stdout when Options.Encoding is empty or
// not supported.
const DefaultEncoding = "utf8"

// localeEnv forces English, UTF-8 output so messages have a stable format.
var localeEnv = map[string]string{
	"LANG":   "en_US.UTF-8",
	"LC_ALL": "en_US",
}

// Options configures a single invocation. The zero value runs in the current
// directory, ignores stdin, decodes stdout as UTF-8 and logs the invocation.
type Options struct {
	// Cwd is the working directory. Empty inherits the current directory.
	Cwd string

	// Env overrides are merged over the inherited environment and the
	// Svn's own overrides. The locale variables are always applied last.
	Env map[string]string

	// Input is written to stdin, which is then closed. When empty, stdin is
	// not connected.
	Input string

	// Encoding names the character set of stdout (e.g. "utf8", "latin1",
	// "shift_jis"). Unknown names silently fall back to DefaultEncoding.
	// Stderr is always decoded as UTF-8.
	Encoding string

	// NoLog suppresses the command line and stderr log events.
	NoLog bool
}

// ExecutionResult is the fully buffered outcome of one invocation.
type ExecutionResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// run waits for the three completions of p (exit, stdout closed, stderr
// closed) and reduces them to one result. Every listener it attaches is
// detached before it returns, whatever the outcome.
func run(ctx context.Context, p process, enc encoding.Encoding) (ExecutionResult, error) {
	var disposables event.Disposables
	defer func() { disposables = event.Dispose(disposables) }()

	exited := make(chan int, 1)
	failed := make(chan error, 1)
	event.ListenOnce(p.OnError(), func(err error) { failed <- err }, &disposables)
	event.ListenOnce(p.OnExit(), func(code int) { exited <- code }, &disposables)
	stdout := collect(p.Stdout(), &disposables)
	stderr := collect(p.Stderr(), &disposables)

	p.Start()

	var result ExecutionResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case code := <-exited:
			result.ExitCode = code
			return nil
		case err := <-failed:
			return err
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	g.Go(func() error {
		select {
		case b := <-stdout:
			result.Stdout = decode(b, enc)
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	g.Go(func() error {
		select {
		case b := <-stderr:
			result.Stderr = decode(b, unicode.UTF8)
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	err := g.Wait()
	// A cancelled context wins over whatever the process reported.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ExecutionResult{}, interrupted(ctxErr)
	}
	if err != nil {
		return ExecutionResult{}, err
	}
	return result, nil
}

func interrupted(err error) error {
	return fmt.Errorf("svn was interrupted: %w", err)
}

// collect buffers every data chunk of s and yields the whole buffer once s
// closes.
func collect(s stream, ds *event.Disposables) <-chan []byte {
	var buf bytes.Buffer
	done := make(chan []byte, 1)
	event.Listen(s.OnData(), func(b []byte) { buf.Write(b) }, ds)
	event.ListenOnce(s.OnClose(), func(struct{}) { done <- buf.Bytes() }, ds)
	return done
}

// lookupEncoding resolves an encoding name, falling back to UTF-8.
func lookupEncoding(name string) encoding.Encoding {
	if name == "" {
		return unicode.UTF8
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc
	}
	return unicode.UTF8
}

func decode(b []byte, enc encoding.Encoding) string {
	if len(b) == 0 {
		return ""
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// mergeEnv applies each override map in turn over base ("KEY=VALUE" pairs)
// and returns a new slice. base is never modified.
func mergeEnv(base []string, overrides ...map[string]string) []string {
	var keys []string
	values := make(map[string]string, len(base))
	for _, kv := range base {
		k, v, _ := strings.Cut(kv, "=")
		if _, seen := values[k]; !seen {
			keys = append(keys, k)
		}
		values[k] = v
	}
	for _, o := range overrides {
		for _, k := range slices.Sorted(maps.Keys(o)) {
			if _, seen := values[k]; !seen {
				keys = append(keys, k)
			}
			values[k] = o[k]
		}
	}

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+values[k])
	}
	return env
}
