// Package logger provides structured, namespaced logging on top of logrus.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger writes structured messages tagged with a namespace ("ns").
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

// New returns a new Logger instance with the default configuration.
// Arguments after the namespace are key-value pairs added to every message.
func New(ns string, args ...interface{}) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	l := &Logger{
		base:  base,
		entry: base.WithFields(fields(args...)).WithField("ns", ns),
	}
	l.Configure(DefaultConfig())
	return l
}

// NewLogger returns a new Logger configured with the given Config.
func NewLogger(ns string, conf Config) *Logger {
	l := New(ns)
	l.Configure(conf)
	return l
}

// Sub returns a new logger with a different namespace which shares the
// level, formatter, and output of the parent.
func (l *Logger) Sub(ns string, args ...interface{}) *Logger {
	return &Logger{
		base:  l.base,
		entry: l.entry.WithFields(fields(args...)).WithField("ns", ns),
	}
}

// SetLevel sets the level of logging. Unknown levels default to info.
func (l *Logger) SetLevel(lvl string) {
	switch strings.ToLower(lvl) {
	case "debug":
		l.base.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		l.base.SetLevel(logrus.WarnLevel)
	case "error":
		l.base.SetLevel(logrus.ErrorLevel)
	default:
		l.base.SetLevel(logrus.InfoLevel)
	}
}

// SetFormatter sets the formatter used by this logger and its sub-loggers.
func (l *Logger) SetFormatter(f logrus.Formatter) {
	l.base.SetFormatter(f)
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

// Discard discards all log output.
func (l *Logger) Discard() {
	l.base.SetOutput(io.Discard)
}

// DebugEnabled reports whether debug messages would be written.
func (l *Logger) DebugEnabled() bool {
	return l.base.IsLevelEnabled(logrus.DebugLevel)
}

// Debug logs a debug message.
//
// After the first argument, arguments are key-value pairs which are written as structured logs.
//
//	log.Debug("Some message here", "key1", value1, "key2", value2)
func (l *Logger) Debug(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Debug(msg)
}

// Info logs an info message.
//
//	log.Info("Some message here", "key1", value1, "key2", value2)
func (l *Logger) Info(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Warn(msg)
}

// Error logs an error message.
//
// Error values may be passed without a key, as a shortcut:
//
//	err := fetchSnapshot()
//	log.Error("Couldn't fetch snapshot", err)
func (l *Logger) Error(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Error(msg)
}

// WithFields returns a new Logger with the given fields added to all messages.
func (l *Logger) WithFields(args ...interface{}) *Logger {
	return &Logger{
		base:  l.base,
		entry: l.entry.WithFields(fields(args...)),
	}
}

// recoverLogErr is used to recover from any panics during logging.
// Logging should never crash a program.
func recoverLogErr() {
	if r := recover(); r != nil {
		fmt.Fprintln(os.Stderr, "Recovered from logging panic", r)
	}
}

// PrintSimpleError prints out an error message with a red "ERROR:" prefix.
func PrintSimpleError(err error) {
	fmt.Fprintf(os.Stderr, "\x1b[%dm%s\x1b[0m %s\n", 31, "ERROR:", err.Error())
}

// fields converts key-value pairs into logrus fields. A bare error is
// stored under "error"; a dangling or non-string key under "unknown".
func fields(args ...interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i < len(args); i++ {
		switch x := args[i].(type) {
		case error:
			f["error"] = x.Error()
		case string:
			if i+1 < len(args) {
				f[x] = args[i+1]
				i++
			} else {
				f["unknown"] = x
			}
		default:
			f["unknown"] = x
		}
	}
	return f
}
