// Package logging provides structured logging for the Overlap hooks.
//
// Every hook process logs JSON lines to <config dir>/logs/overlap.log,
// rotated by size. Diagnostics are echoed to stderr when OVERLAP_DEBUG is
// set or when stderr is not an interactive terminal. Credential-bearing
// fields are redacted before they reach any sink.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/overlaphq/overlap-cli/config"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a hook or
// component. It uses a singleton pattern per component to avoid
// re-initializing within one process.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()

	// Configure Level
	levelStr := "info"
	if os.Getenv("OVERLAP_DEBUG") != "" {
		levelStr = "debug"
	}
	if v := os.Getenv("OVERLAP_LOG_LEVEL"); v != "" {
		levelStr = v
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// File sinks are JSON lines so the log survives being tailed by tools.
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.AddHook(NewRedactHook())
	logger.AddHook(NewBufferHook())

	// Configure Output Sinks
	var writers []io.Writer

	logFilePath := filepath.Join(config.LogDir(), "overlap.log")
	if dir := filepath.Dir(logFilePath); os.MkdirAll(dir, 0755) == nil {
		rotateLogs(logFilePath)
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			writers = append(writers, file)
		}
	}

	// Echo to stderr in debug mode, or when stderr is piped (e.g. the host
	// captures hook diagnostics). Interactive terminals stay quiet.
	isDebug := os.Getenv("OVERLAP_DEBUG") != "" || logger.GetLevel() == logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if isDebug || !isInteractive {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	entry := logger.WithField("component", component).WithField("pid", os.Getpid())
	loggers[component] = entry
	return entry
}
