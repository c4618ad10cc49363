package svn

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/joelmoss/svnscm/internal/event"
)

// process is a spawned child whose lifecycle is observed through events.
// Nothing is emitted until Start is called, so listeners attached before
// Start never miss a value.
type process interface {
	OnExit() event.Event[int]
	OnError() event.Event[error]
	Stdout() stream
	Stderr() stream
	Start()
}

// stream is one captured output pipe of a process.
type stream interface {
	OnData() event.Event[[]byte]
	OnClose() event.Event[struct{}]
}

// spawnSpec is everything needed to launch one svn invocation.
type spawnSpec struct {
	Path  string
	Args  []string
	Dir   string
	Env   []string
	Input string
}

type spawnFunc func(ctx context.Context, spec spawnSpec) (process, error)

type pipeStream struct {
	r      io.ReadCloser
	data   event.Emitter[[]byte]
	closed event.Emitter[struct{}]
}

func (s *pipeStream) OnData() event.Event[[]byte]     { return s.data.Event() }
func (s *pipeStream) OnClose() event.Event[struct{}] { return s.closed.Event() }

func (s *pipeStream) pump() {
	buf := make([]byte, 32*1024)
	for {
		n, err := s.r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.data.Fire(chunk)
		}
		if err != nil {
			break
		}
	}
	s.closed.Fire(struct{}{})
}

// osProcess runs svn through os/exec.
type osProcess struct {
	path   string
	cmd    *exec.Cmd
	stdout *pipeStream
	stderr *pipeStream
	exit   event.Emitter[int]
	fail   event.Emitter[error]
	once   sync.Once
}

func spawnProcess(ctx context.Context, spec spawnSpec) (process, error) {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	if spec.Input != "" {
		// os/exec closes the child's stdin once the reader is drained.
		cmd.Stdin = strings.NewReader(spec.Input)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Path: spec.Path, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdout.Close()
		return nil, &SpawnError{Path: spec.Path, Err: err}
	}

	return &osProcess{
		path:   spec.Path,
		cmd:    cmd,
		stdout: &pipeStream{r: stdout},
		stderr: &pipeStream{r: stderr},
	}, nil
}

func (p *osProcess) OnExit() event.Event[int]    { return p.exit.Event() }
func (p *osProcess) OnError() event.Event[error] { return p.fail.Event() }
func (p *osProcess) Stdout() stream              { return p.stdout }
func (p *osProcess) Stderr() stream              { return p.stderr }

func (p *osProcess) Start() {
	p.once.Do(p.start)
}

func (p *osProcess) start() {
	if err := p.cmd.Start(); err != nil {
		// Start closes both pipes on failure; report the error and the
		// closed streams the same way a launched process would.
		p.fail.Fire(&SpawnError{Path: p.path, Err: err})
		p.stdout.closed.Fire(struct{}{})
		p.stderr.closed.Fire(struct{}{})
		return
	}

	go func() {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); p.stdout.pump() }()
		go func() { defer wg.Done(); p.stderr.pump() }()
		// Wait must not be called before both pipes are drained.
		wg.Wait()

		err := p.cmd.Wait()
		if err == nil {
			p.exit.Fire(0)
			return
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			p.exit.Fire(exitErr.ExitCode())
			return
		}
		p.fail.Fire(err)
	}()
}
