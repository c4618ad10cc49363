package svn

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strings"
)

var versionRe = regexp.MustCompile(`^svn,? version (\d\.\d\.\d)`)

// ExecutableInfo describes a confirmed svn installation.
type ExecutableInfo struct {
	Path    string
	Version string
}

// AtLeast reports whether the installation is min or newer. An unparseable
// min is treated as satisfied.
func (i ExecutableInfo) AtLeast(min string) bool {
	cmp, ok := CompareVersions(i.Version, min)
	return !ok || cmp >= 0
}

// DefaultName returns the executable name searched for on goos.
func DefaultName(goos string) string {
	if goos == "windows" {
		return "svn.exe"
	}
	return "svn"
}

// Locator discovers the svn executable, trying a hint path before the
// platform default name.
type Locator struct {
	Executor CommandExecutor
	GOOS     string // defaults to runtime.GOOS
}

// NewLocator returns a Locator that probes real executables.
func NewLocator() *Locator {
	return &Locator{Executor: &RealExecutor{}}
}

// Locate is shorthand for NewLocator().Locate.
func Locate(ctx context.Context, hint string) (ExecutableInfo, error) {
	return NewLocator().Locate(ctx, hint)
}

// Locate probes hint, if given, and falls back to the platform default name
// on any failure. There is no further retry and no filesystem pre-check.
func (l *Locator) Locate(ctx context.Context, hint string) (ExecutableInfo, error) {
	if hint != "" {
		if info, err := l.Probe(ctx, hint); err == nil {
			return info, nil
		}
	}
	return l.Probe(ctx, DefaultName(l.goos()))
}

// Probe runs path --version and parses the reported version.
func (l *Locator) Probe(ctx context.Context, path string) (ExecutableInfo, error) {
	out, err := l.executor().Run(ctx, path, "--version")
	if err != nil {
		return ExecutableInfo{}, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}

	version, err := ParseVersion(strings.TrimSpace(string(out)))
	if err != nil {
		return ExecutableInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return ExecutableInfo{Path: path, Version: version}, nil
}

// ParseVersion extracts the x.y.z version from an svn --version banner.
func ParseVersion(banner string) (string, error) {
	m := versionRe.FindStringSubmatch(banner)
	if m == nil {
		return "", ErrVersionParse
	}
	return m[1], nil
}

func (l *Locator) executor() CommandExecutor {
	if l.Executor != nil {
		return l.Executor
	}
	return &RealExecutor{}
}

func (l *Locator) goos() string {
	if l.GOOS != "" {
		return l.GOOS
	}
	return runtime.GOOS
}
