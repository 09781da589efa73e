package logger

import (
	"io"
)

var global = New("accelfit")

// Configure configures the global logger.
func Configure(c Config) {
	global.Configure(c)
}

// SetOutput sets the output for the global logger
func SetOutput(w io.Writer) {
	global.SetOutput(w)
}

// Discard discards the output for the global logger
func Discard() {
	global.Discard()
}

// Debug logs to the global logger at the Debug level
func Debug(msg string, args ...interface{}) {
	global.Debug(msg, args...)
}

// Info logs to the global logger at the Info level
func Info(msg string, args ...interface{}) {
	global.Info(msg, args...)
}

// Error logs to the global logger at the Error level
func Error(msg string, args ...interface{}) {
	global.Error(msg, args...)
}

// Sub returns a sub-logger of the global logger.
func Sub(ns string, args ...interface{}) *Logger {
	return global.Sub(ns, args...)
}
