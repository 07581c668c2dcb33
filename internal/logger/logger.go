// Package logger provides leveled, structured logging on top of zerolog.
//
// A Logger carries an immutable context map. Child derives a new Logger
// whose context is the parent's overridden by the given fields, so the
// same key is never emitted twice and the most specific value wins.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level orders log entries; entries below the configured minimum are dropped.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ParseLevel converts a case-insensitive level name.
func ParseLevel(raw string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", raw)
	}
}

// Fields is a structured context map.
type Fields map[string]any

// Options configures New.
type Options struct {
	// Out receives log lines. Defaults to os.Stderr.
	Out io.Writer
	// Development switches to colorized console lines and a DEBUG minimum.
	Development bool
	// Level overrides the minimum level when non-nil.
	Level *Level
	// NoColor disables ANSI colors in development output.
	NoColor bool
}

// Logger is safe for concurrent use.
type Logger struct {
	zl     zerolog.Logger
	fields Fields
}

// New builds a root logger.
func New(opts Options) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	minLevel := InfoLevel
	if opts.Development {
		minLevel = DebugLevel
	}
	if opts.Level != nil {
		minLevel = *opts.Level
	}

	if opts.Development {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    opts.NoColor,
			TimeFormat: time.RFC3339,
		}
	}

	zl := zerolog.New(out).Level(minLevel.zerolog()).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Child returns a logger that adds fields to every entry.
func (l *Logger) Child(fields Fields) *Logger {
	return &Logger{zl: l.zl, fields: merge(l.fields, fields)}
}

// Context returns a copy of the logger's fixed context.
func (l *Logger) Context() Fields {
	return merge(nil, l.fields)
}

func (l *Logger) Debug(msg string, fields ...Fields) {
	l.emit(l.zl.Debug(), msg, nil, fields)
}

func (l *Logger) Info(msg string, fields ...Fields) {
	l.emit(l.zl.Info(), msg, nil, fields)
}

func (l *Logger) Warn(msg string, fields ...Fields) {
	l.emit(l.zl.Warn(), msg, nil, fields)
}

// Error logs msg at ERROR with the file and line of the call under
// "caller". A non-nil err is decomposed into name, message and, when the
// error records one, its stack under the "error" key.
func (l *Logger) Error(msg string, err error, fields ...Fields) {
	event := l.zl.Error()
	if event != nil {
		event = event.Caller(1)
	}
	l.emit(event, msg, err, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, err error, extra []Fields) {
	if event == nil {
		return
	}
	ctx := l.fields
	for _, f := range extra {
		ctx = merge(ctx, f)
	}
	if err != nil {
		ctx = merge(ctx, Fields{"error": describe(err)})
	}
	if len(ctx) > 0 {
		event = event.Fields(map[string]any(ctx))
	}
	event.Msg(msg)
}

// ErrorDetails is the structured form of an error in a log entry.
type ErrorDetails struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	// Stack is where the error was created, for errors that record it.
	Stack string `json:"stack,omitempty"`
}

// StackTracer is implemented by errors that capture their origin.
type StackTracer interface {
	StackTrace() string
}

func describe(err error) ErrorDetails {
	details := ErrorDetails{Name: fmt.Sprintf("%T", err), Message: err.Error()}
	var named interface{ Name() string }
	if errors.As(err, &named) {
		details.Name = named.Name()
	}
	var traced StackTracer
	if errors.As(err, &traced) {
		details.Stack = traced.StackTrace()
	}
	return details
}

func merge(base, override Fields) Fields {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(Fields, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
