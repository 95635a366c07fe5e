package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"

	"xdao.co/cryptodiff/corpus"
	"xdao.co/cryptodiff/differ"
	"xdao.co/cryptodiff/module"
)

// logWriter sends log lines to the diagnostic stream and, when configured, to
// the rotating log file.
type logWriter struct {
	errOut  io.Writer
	rotator *rotator.Rotator
}

func (w *logWriter) Write(p []byte) (int, error) {
	_, _ = w.errOut.Write(p)
	if w.rotator != nil {
		_, _ = w.rotator.Write(p)
	}
	return len(p), nil
}

// logging owns the backend and the per-subsystem loggers of one invocation.
type logging struct {
	w          *logWriter
	backend    *slog.Backend
	subsystems map[string]slog.Logger
}

func newLogging(errOut io.Writer) *logging {
	w := &logWriter{errOut: errOut}
	l := &logging{w: w, backend: slog.NewBackend(w)}
	l.subsystems = map[string]slog.Logger{
		"CDIF": l.backend.Logger("CDIF"),
		"CORP": l.backend.Logger("CORP"),
		"DIFF": l.backend.Logger("DIFF"),
		"MODS": l.backend.Logger("MODS"),
	}
	differ.UseLogger(l.subsystems["DIFF"])
	corpus.UseLogger(l.subsystems["CORP"])
	module.UseLogger(l.subsystems["MODS"])
	return l
}

func (l *logging) logger() slog.Logger { return l.subsystems["CDIF"] }

// initRotator starts writing to logFile, keeping three rolled files of 10 MiB.
func (l *logging) initRotator(logFile string) error {
	if dir := filepath.Dir(logFile); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("create log rotator: %w", err)
	}
	l.w.rotator = r
	return nil
}

func (l *logging) setLevel(level string) error {
	lvl, ok := slog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid debug level %q", level)
	}
	for _, logger := range l.subsystems {
		logger.SetLevel(lvl)
	}
	return nil
}

// close detaches the package loggers and flushes the log file.
func (l *logging) close() {
	differ.UseLogger(slog.Disabled)
	corpus.UseLogger(slog.Disabled)
	module.UseLogger(slog.Disabled)
	if l.w.rotator != nil {
		_ = l.w.rotator.Close()
		l.w.rotator = nil
	}
}
