package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// OutputChannel is a named text sink that log events are rendered into.
// It is safe for concurrent use.
type OutputChannel struct {
	name string
	mu   sync.Mutex
	w    io.Writer
}

// NewOutputChannel creates a channel writing to w, or os.Stderr if w is nil.
func NewOutputChannel(name string, w io.Writer) *OutputChannel {
	if w == nil {
		w = os.Stderr
	}
	return &OutputChannel{name: name, w: w}
}

// Name returns the channel name.
func (c *OutputChannel) Name() string {
	return c.name
}

// Append writes text as is.
func (c *OutputChannel) Append(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.w, text)
}

// AppendLine writes text followed by a newline.
func (c *OutputChannel) AppendLine(text string) {
	c.Append(text + "\n")
}

// Colorize renders an svn log event: command lines dim, stderr carrying an
// svn error code red, other stderr yellow. The trailing newline is kept
// uncolored.
func Colorize(text string) string {
	body := strings.TrimSuffix(text, "\n")
	if body == "" {
		return text
	}
	suffix := text[len(body):]
	if strings.HasPrefix(body, "svn ") {
		return Dim(body) + suffix
	}
	if strings.Contains(body, "svn: E") {
		return Red(body) + suffix
	}
	return Yellow(body) + suffix
}
