package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogOptions selects the slog handler behind NewLogger.
type LogOptions struct {
	Level string // debug|info|warn|error, default info
	JSON  bool
}

type slogLogger struct {
	l *slog.Logger
}

// NewLogger returns a Logger writing to w (stderr when nil) through a text
// or JSON slog handler.
func NewLogger(w io.Writer, opts LogOptions) Logger {
	if w == nil {
		w = os.Stderr
	}
	cfg := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, cfg)
	} else {
		h = slog.NewTextHandler(w, cfg)
	}
	return FromSlog(slog.New(h))
}

// FromSlog adapts an existing *slog.Logger.
func FromSlog(l *slog.Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return slogLogger{l: l}
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (s slogLogger) log(level slog.Level, msg string, fields []Field) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.LogAttrs(ctx, level, msg, attrs(fields)...)
}

func (s slogLogger) Debug(msg string, fields ...Field) { s.log(slog.LevelDebug, msg, fields) }
func (s slogLogger) Info(msg string, fields ...Field)  { s.log(slog.LevelInfo, msg, fields) }
func (s slogLogger) Warn(msg string, fields ...Field)  { s.log(slog.LevelWarn, msg, fields) }
func (s slogLogger) Error(msg string, fields ...Field) { s.log(slog.LevelError, msg, fields) }

func (s slogLogger) With(fields ...Field) Logger {
	args := make([]any, 0, len(fields))
	for _, a := range attrs(fields) {
		args = append(args, a)
	}
	return slogLogger{l: s.l.With(args...)}
}

func attrs(fields []Field) []slog.Attr {
	out := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value().(type) {
		case error:
			out = append(out, slog.String(f.Key(), v.Error()))
		default:
			out = append(out, slog.Any(f.Key(), v))
		}
	}
	return out
}
