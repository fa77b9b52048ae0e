package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// MavenHandler is a slog.Handler that formats records Maven-style:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value key=value
type MavenHandler struct {
	w              io.Writer
	level          slog.Level
	mu             *sync.Mutex
	system         string // e.g. "ingest", "api", "scan"
	showTimestamps bool
	useColors      bool
	groups         []string
	attrs          []slog.Attr
}

// NewMavenHandler creates a new Maven-style handler. Color output is
// enabled only when the writer is a terminal.
func NewMavenHandler(w io.Writer, opts *slog.HandlerOptions) *MavenHandler {
	h := &MavenHandler{
		w:              w,
		level:          slog.LevelInfo,
		mu:             &sync.Mutex{},
		showTimestamps: true,
		useColors:      isTerminal(w),
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level.Level()
	}
	return h
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Enabled reports whether the handler handles records at the given level.
func (h *MavenHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes a log record
func (h *MavenHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	h.colorize(&buf, h.levelColor(r.Level), "["+levelString(r.Level)+"]")

	if h.system != "" {
		buf.WriteString(" [")
		buf.WriteString(h.system)
		buf.WriteString("]")
	}

	if h.showTimestamps {
		h.colorize(&buf, colorGray, " ["+r.Time.Format("15:04:05")+"]")
	}

	buf.WriteString(" ")
	buf.WriteString(r.Message)

	// "system" is already shown in its bracket, skip it as an attr.
	for _, attr := range h.attrs {
		if attr.Key != "system" {
			appendAttr(&buf, attr)
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "system" {
			appendAttr(&buf, a)
		}
		return true
	})

	buf.WriteString("\n")

	_, err := h.w.Write([]byte(buf.String()))
	return err
}

func (h *MavenHandler) colorize(buf *strings.Builder, color, s string) {
	if h.useColors {
		buf.WriteString(color)
		buf.WriteString(s)
		buf.WriteString(colorReset)
		return
	}
	buf.WriteString(s)
}

func appendAttr(buf *strings.Builder, a slog.Attr) {
	buf.WriteString(" ")
	buf.WriteString(a.Key)
	buf.WriteString("=")
	buf.WriteString(fmt.Sprint(a.Value.Any()))
}

// WithAttrs returns a new handler with the given attributes added
func (h *MavenHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)

	// A "system" attr moves into the bracket prefix.
	for _, attr := range attrs {
		if attr.Key == "system" {
			clone.system = attr.Value.String()
		}
	}
	return clone
}

// WithGroup returns a new handler with the given group name added.
// Groups are tracked but not reflected in the flat output format.
func (h *MavenHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *MavenHandler) clone() *MavenHandler {
	attrs := make([]slog.Attr, len(h.attrs))
	copy(attrs, h.attrs)
	groups := make([]string, len(h.groups))
	copy(groups, h.groups)

	return &MavenHandler{
		w:              h.w,
		level:          h.level,
		mu:             h.mu,
		system:         h.system,
		showTimestamps: h.showTimestamps,
		useColors:      h.useColors,
		groups:         groups,
		attrs:          attrs,
	}
}

func (h *MavenHandler) levelColor(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return colorGray
	case slog.LevelInfo:
		return colorCyan
	case slog.LevelWarn:
		return colorYellow
	case slog.LevelError:
		return colorRed
	default:
		return colorReset
	}
}

func levelString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}
