// Package logging provides the structured logger used by the engine and the
// command-line tool. It wraps logrus behind a small interface so that callers
// pass fields as maps and never depend on the backend directly.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured key/value pairs attached to a log entry.
type Fields map[string]any

// Logger is a levelled, structured logger.
type Logger interface {
	WithFields(fields Fields) Logger
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
}

// Format selects the log line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New returns a logrus-backed Logger writing to w at the given level
// ("debug", "info", "warn", "error").
func New(level string, format Format, w io.Writer) (Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(lvl)

	switch Format(strings.ToLower(string(format))) {
	case FormatJSON:
		base.SetFormatter(&logrus.JSONFormatter{})
	case FormatText, "":
		base.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}

	return FromLogrus(base), nil
}

// NewDefaultLogger returns an info-level text logger on stderr.
func NewDefaultLogger() Logger {
	l, _ := New("info", FormatText, os.Stderr)
	return l
}

// FromLogrus adapts an existing logrus logger.
func FromLogrus(l *logrus.Logger) Logger {
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return FromLogrus(l)
}

type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) WithFields(fields Fields) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) Debug(msg string, fields ...Fields) {
	l.with(fields).Debug(msg)
}

func (l *logrusLogger) Info(msg string, fields ...Fields) {
	l.with(fields).Info(msg)
}

func (l *logrusLogger) Warn(msg string, fields ...Fields) {
	l.with(fields).Warn(msg)
}

func (l *logrusLogger) Error(err error, msg string, fields ...Fields) {
	l.with(fields).WithError(err).Error(msg)
}

func (l *logrusLogger) with(fields []Fields) *logrus.Entry {
	e := l.entry
	for _, f := range fields {
		e = e.WithFields(logrus.Fields(f))
	}
	return e
}
