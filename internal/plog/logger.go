// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package plog wires up the node's logging backend: a decred/slog
// backend fanned out to both stdout and a rotating file via
// jrick/logrotate, with a per-subsystem logger registry so each
// package can carry its own level.
package plog

import (
	"fmt"
	"io"
	"os"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// MaxLogRolls is the number of rotated log files to keep around.
const MaxLogRolls = 8

var (
	backendLog *slog.Backend
	logRotator *rotator.Rotator

	// subsystemLoggers maps each package's short tag to the logger it
	// was handed via Register. SetLogLevel/SetLogLevels walk this map, the
	// same way the decred/btcsuite family's loggers.go does.
	subsystemLoggers = make(map[string]slog.Logger)
)

// InitLogRotator creates a rotating log file at logFile and arranges
// for all subsystem loggers to write to both it and stdout.
func InitLogRotator(logFile string) error {
	r, err := rotator.New(logFile, 10*1024, false, MaxLogRolls)
	if err != nil {
		return fmt.Errorf("plog: failed to create log rotator: %w", err)
	}
	logRotator = r
	backendLog = slog.NewBackend(io.MultiWriter(os.Stdout, logWriter{}))
	return nil
}

// logWriter forwards to the rotator once InitLogRotator has run, and is
// a silent no-op until then so packages can log during early startup.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	if logRotator == nil {
		return len(p), nil
	}
	return logRotator.Write(p)
}

// Register creates (or returns the existing) logger for tag, the unit
// a package's own log.go assigns to its package-level `log` variable.
func Register(tag string) slog.Logger {
	if backendLog == nil {
		backendLog = slog.NewBackend(io.MultiWriter(os.Stdout, logWriter{}))
	}
	if l, ok := subsystemLoggers[tag]; ok {
		return l
	}
	l := backendLog.Logger(tag)
	l.SetLevel(slog.LevelInfo)
	subsystemLoggers[tag] = l
	return l
}

// SetLogLevel sets the logging level for tag's subsystem, creating the
// logger first via Register if it does not yet exist.
func SetLogLevel(tag, levelStr string) {
	level, ok := slog.LevelFromString(levelStr)
	if !ok {
		return
	}
	Register(tag).SetLevel(level)
}

// SetLogLevels sets every known subsystem to levelStr.
func SetLogLevels(levelStr string) {
	level, ok := slog.LevelFromString(levelStr)
	if !ok {
		return
	}
	for _, l := range subsystemLoggers {
		l.SetLevel(level)
	}
}

// Close flushes and closes the underlying log file, if one was opened.
func Close() {
	if logRotator != nil {
		logRotator.Close()
	}
}
