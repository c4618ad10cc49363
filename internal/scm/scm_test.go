package scm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/joelmoss/svnscm/internal/config"
	"github.com/joelmoss/svnscm/internal/svn"
	"github.com/joelmoss/svnscm/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeSvnEnv = "SVNSCM_FAKE_SVN"

func TestMain(m *testing.M) {
	if os.Getenv(fakeSvnEnv) == "1" {
		switch strings.Join(os.Args[1:], " ") {
		case "--version":
			fmt.Println("svn, version 1.9.4 (r1740329)")
		case "info":
			fmt.Println("Path: .")
			fmt.Fprint(os.Stderr, "svn: warning: W155010: missing")
		default:
			fmt.Fprint(os.Stderr, "svn: E205000: unknown")
			os.Exit(1)
		}
		os.Exit(0)
	}
	color.NoColor = true
	os.Exit(m.Run())
}

// mockExecutor answers --version probes for known paths.
type mockExecutor struct {
	banners map[string]string
	calls   []string
}

func (m *mockExecutor) Run(_ context.Context, name string, _ ...string) ([]byte, error) {
	m.calls = append(m.calls, name)
	banner, ok := m.banners[name]
	if !ok {
		return nil, errors.New("executable file not found")
	}
	return []byte(banner), nil
}

func newTestService(t *testing.T, exec svn.CommandExecutor) (*Service, *bytes.Buffer, *config.Config) {
	t.Helper()
	cfg := config.New(filepath.Join(t.TempDir(), "config.json"))
	var buf bytes.Buffer
	svc := &Service{
		Config:  cfg,
		Locator: &svn.Locator{Executor: exec, GOOS: "linux"},
		Out:     &buf,
	}
	return svc, &buf, cfg
}

func TestOpenDisabled(t *testing.T) {
	mock := &mockExecutor{}
	svc, buf, cfg := newTestService(t, mock)
	require.NoError(t, cfg.Set("enabled", "false"))

	sess, err := svc.Open(context.Background())
	require.ErrorIs(t, err, ErrDisabled)
	assert.Nil(t, sess)
	assert.Empty(t, mock.calls)
	assert.Empty(t, buf.String())
}

func TestOpenAnnouncesExecutable(t *testing.T) {
	svc, buf, _ := newTestService(t, &mockExecutor{banners: map[string]string{"svn": "svn, version 1.9.4 (r1740329)"}})

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)
	defer sess.Dispose()

	assert.Equal(t, svn.ExecutableInfo{Path: "svn", Version: "1.9.4"}, sess.Info)
	assert.Equal(t, "Using svn 1.9.4 from svn\n", buf.String())
}

func TestOpenNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, &mockExecutor{})

	_, err := svc.Open(context.Background())
	require.ErrorIs(t, err, svn.ErrNotFound)
}

func TestOpenVerboseFallback(t *testing.T) {
	mock := &mockExecutor{banners: map[string]string{"svn": "svn, version 1.9.4"}}
	svc, buf, cfg := newTestService(t, mock)
	svc.Verbose = true
	require.NoError(t, cfg.Set("path", "/opt/missing/svn"))

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)
	defer sess.Dispose()

	out := buf.String()
	assert.Contains(t, out, "      locate  trying /opt/missing/svn\n")
	assert.Contains(t, out, "    fallback  /opt/missing/svn is not usable, using svn\n")
	assert.Equal(t, []string{"/opt/missing/svn", "svn"}, mock.calls)
}

func TestOpenQuietHidesStatus(t *testing.T) {
	svc, buf, cfg := newTestService(t, &mockExecutor{banners: map[string]string{"svn": "svn, version 1.9.4"}})
	require.NoError(t, cfg.Set("path", "/opt/missing/svn"))

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)
	defer sess.Dispose()

	assert.Equal(t, "Using svn 1.9.4 from svn\n", buf.String())
}

func TestOpenWarnsOnOldVersion(t *testing.T) {
	svc, buf, cfg := newTestService(t, &mockExecutor{banners: map[string]string{"svn": "svn, version 1.6.9"}})
	require.NoError(t, cfg.Set("min_version", "1.8"))

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)
	defer sess.Dispose()

	assert.Contains(t, buf.String(), "svn 1.6.9 is older than the configured minimum 1.8")
}

func TestSessionRendersLogEvents(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)

	svc, buf, cfg := newTestService(t, &mockExecutor{banners: map[string]string{exe: "svn, version 1.7.22"}})
	require.NoError(t, cfg.Set("path", exe))
	require.NoError(t, cfg.Set("env."+fakeSvnEnv, "1"))

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)
	defer sess.Dispose()
	buf.Reset()

	res, err := sess.Exec(context.Background(), t.TempDir(), []string{"info"}, svn.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Path: .\n", res.Stdout)
	assert.Equal(t, "svn info\nsvn: warning: W155010: missing\n", buf.String())

	buf.Reset()
	_, err = sess.ExecLine(context.Background(), "", "svn bogus", svn.Options{})
	var execErr *svn.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "svn: E205000: unknown", err.Error())
	assert.Equal(t, "svn bogus\nsvn: E205000: unknown\n", buf.String())
}

func TestSessionRealLocate(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)
	t.Setenv(fakeSvnEnv, "1")

	cfg := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, cfg.Set("path", exe))
	var buf bytes.Buffer
	svc := &Service{Config: cfg, Out: &buf}

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)
	defer sess.Dispose()

	assert.Equal(t, "1.9.4", sess.Info.Version)
	assert.Equal(t, exe, sess.Svn.Path())
}

func TestSessionDisposeDetachesOutput(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)

	svc, buf, cfg := newTestService(t, &mockExecutor{banners: map[string]string{exe: "svn, version 1.7.22"}})
	require.NoError(t, cfg.Set("path", exe))
	require.NoError(t, cfg.Set("env."+fakeSvnEnv, "1"))

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)
	buf.Reset()

	var mu sync.Mutex
	var transcript []string
	d := sess.OnLog()(func(line string) {
		mu.Lock()
		transcript = append(transcript, line)
		mu.Unlock()
	})
	defer d.Dispose()

	sess.Dispose()
	_, err = sess.Exec(context.Background(), "", []string{"info"}, svn.Options{})
	require.NoError(t, err)

	assert.Empty(t, buf.String())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"svn info\n", "svn: warning: W155010: missing\n"}, transcript)
}

func TestSessionOnLogIncludesStatus(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)

	svc, _, cfg := newTestService(t, &mockExecutor{banners: map[string]string{exe: "svn, version 1.7.22"}})
	require.NoError(t, cfg.Set("path", exe))
	require.NoError(t, cfg.Set("env."+fakeSvnEnv, "1"))

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)
	defer sess.Dispose()

	var mu sync.Mutex
	var transcript []string
	d := sess.OnLog()(func(line string) {
		mu.Lock()
		transcript = append(transcript, line)
		mu.Unlock()
	})
	defer d.Dispose()

	dir := t.TempDir()
	_, err = sess.Exec(context.Background(), dir, []string{"info"}, svn.Options{NoLog: true})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, transcript, 1)
	assert.Equal(t, fmt.Sprintf("%12s  in %s\n", "run", ui.DisplayPath(dir)), transcript[0])
}
