package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// Logger is the logging interface used by the library.
type Logger interface {
	Info(msg string, obj any)
	Warn(msg string, obj any)
	Debug(msg string, obj any)
	Error(msg string, obj any)
}

// NopLogger discards all log messages.
type NopLogger struct{}

func (NopLogger) Info(string, any)  {}
func (NopLogger) Warn(string, any)  {}
func (NopLogger) Debug(string, any) {}
func (NopLogger) Error(string, any) {}

type slogLogger struct {
	l *slog.Logger
}

// NewWriterLogger builds a text logger that writes every level to w.
func NewWriterLogger(w io.Writer) Logger {
	if w == nil {
		return NopLogger{}
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slogLogger{l: slog.New(h)}
}

func (s slogLogger) log(level slog.Level, msg string, obj any) {
	if obj == nil {
		s.l.Log(context.Background(), level, msg)
		return
	}
	if fields, ok := obj.(map[string]any); ok {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		args := make([]any, 0, len(fields)*2)
		for _, k := range keys {
			args = append(args, k, fields[k])
		}
		s.l.Log(context.Background(), level, msg, args...)
		return
	}
	s.l.Log(context.Background(), level, msg, slog.Any("obj", obj))
}

func (s slogLogger) Info(msg string, obj any)  { s.log(slog.LevelInfo, msg, obj) }
func (s slogLogger) Warn(msg string, obj any)  { s.log(slog.LevelWarn, msg, obj) }
func (s slogLogger) Debug(msg string, obj any) { s.log(slog.LevelDebug, msg, obj) }
func (s slogLogger) Error(msg string, obj any) { s.log(slog.LevelError, msg, obj) }

// Debug writes a debug log when enabled and logger is non-nil.
func Debug(enabled bool, logger Logger, msg string, obj any) {
	if !enabled || logger == nil {
		return
	}
	logger.Debug(msg, obj)
}

// Debugf is a compatibility helper for format-style debug logging.
func Debugf(enabled bool, logger Logger, format string, args ...any) {
	Debug(enabled, logger, fmt.Sprintf(format, args...), nil)
}

// Info writes an info log when logger is non-nil.
func Info(logger Logger, msg string, obj any) {
	if logger == nil {
		return
	}
	logger.Info(msg, obj)
}

// Warn writes a warning log when logger is non-nil.
func Warn(logger Logger, msg string, obj any) {
	if logger == nil {
		return
	}
	logger.Warn(msg, obj)
}

// Error writes an error log when logger is non-nil.
func Error(logger Logger, msg string, obj any) {
	if logger == nil {
		return
	}
	logger.Error(msg, obj)
}
