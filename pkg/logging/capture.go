package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Capture is a thread-safe circular buffer of formatted warning messages.
// Reports include its contents so that parse diagnostics survive even when
// stderr scrolled past or was discarded.
type Capture struct {
	mu    sync.RWMutex
	buf   []string
	size  int
	head  int // next write position
	count int // number of messages stored
	total uint64
}

// NewCapture creates a capture buffer with the given capacity.
func NewCapture(size int) *Capture {
	return &Capture{
		buf:  make([]string, size),
		size: size,
	}
}

// Add appends a message, overwriting the oldest if full.
func (c *Capture) Add(msg string) {
	c.mu.Lock()
	c.buf[c.head] = msg
	c.head = (c.head + 1) % c.size
	if c.count < c.size {
		c.count++
	}
	c.total++
	c.mu.Unlock()
}

// All returns the buffered messages, oldest first.
func (c *Capture) All() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]string, c.count)
	for i := 0; i < c.count; i++ {
		idx := (c.head - c.count + i + c.size) % c.size
		result[i] = c.buf[idx]
	}
	return result
}

// Total returns how many messages were ever added, including any that the
// buffer has since overwritten.
func (c *Capture) Total() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total
}

// CaptureHandler is an slog.Handler that forwards records to a wrapped base
// handler (typically stderr) and stores warnings and errors in a Capture,
// regardless of the base handler's level.
type CaptureHandler struct {
	base    slog.Handler
	capture *Capture
	attrs   []slog.Attr
	groups  []string
}

// NewCaptureHandler wraps a base slog.Handler with warning capture.
func NewCaptureHandler(base slog.Handler, capture *Capture) *CaptureHandler {
	return &CaptureHandler{base: base, capture: capture}
}

// Enabled implements slog.Handler. Warnings stay enabled even when the
// base handler is quieter, so the capture buffer sees them.
func (h *CaptureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn || h.base.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *CaptureHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if h.base.Enabled(ctx, r.Level) {
		err = h.base.Handle(ctx, r)
	}
	if r.Level >= slog.LevelWarn {
		h.capture.Add(h.format(r))
	}
	return err
}

// WithAttrs implements slog.Handler.
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CaptureHandler{
		base:    h.base.WithAttrs(attrs),
		capture: h.capture,
		attrs:   append(append([]slog.Attr{}, h.attrs...), attrs...),
		groups:  h.groups,
	}
}

// WithGroup implements slog.Handler.
func (h *CaptureHandler) WithGroup(name string) slog.Handler {
	return &CaptureHandler{
		base:    h.base.WithGroup(name),
		capture: h.capture,
		attrs:   h.attrs,
		groups:  append(append([]string{}, h.groups...), name),
	}
}

// format produces a compact text representation of a log record.
func (h *CaptureHandler) format(r slog.Record) string {
	var b strings.Builder
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%s", a.Key, a.Value.String())
	}

	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if len(h.groups) > 0 {
			key = strings.Join(h.groups, ".") + "." + key
		}
		fmt.Fprintf(&b, " %s=%s", key, a.Value.String())
		return true
	})

	return b.String()
}
