// Copyright (C) 2026 sshpot contributors. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package logging provides structured leveled logging for the honeypot.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger wraps a charmbracelet/log logger with the fields this service
// attaches to every session-scoped line.
type Logger struct {
	l *log.Logger
}

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    false,
		ReportTimestamp: true,
		Level:           level,
	})
	return &Logger{l: l}
}

// With returns a derived Logger carrying the given key/value pairs on
// every subsequent line, e.g. session_id and client_ip.
func (lg *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{l: lg.l.With(keyvals...)}
}

func (lg *Logger) Debug(msg interface{}, keyvals ...interface{}) { lg.l.Debug(msg, keyvals...) }
func (lg *Logger) Info(msg interface{}, keyvals ...interface{})  { lg.l.Info(msg, keyvals...) }
func (lg *Logger) Warn(msg interface{}, keyvals ...interface{})  { lg.l.Warn(msg, keyvals...) }
func (lg *Logger) Error(msg interface{}, keyvals ...interface{}) { lg.l.Error(msg, keyvals...) }

// SetLevel adjusts the logger's minimum level.
func (lg *Logger) SetLevel(level log.Level) { lg.l.SetLevel(level) }

var std = New(os.Stderr, log.InfoLevel)

// Default returns the process-wide default logger.
func Default() *Logger { return std }

// SetDefault replaces the process-wide default logger.
func SetDefault(l *Logger) { std = l }

// With derives a logger from the default with the given fields attached.
func With(keyvals ...interface{}) *Logger { return std.With(keyvals...) }

func Debug(msg interface{}, keyvals ...interface{}) { std.Debug(msg, keyvals...) }
func Info(msg interface{}, keyvals ...interface{})  { std.Info(msg, keyvals...) }
func Warn(msg interface{}, keyvals ...interface{})  { std.Warn(msg, keyvals...) }
func Error(msg interface{}, keyvals ...interface{}) { std.Error(msg, keyvals...) }
