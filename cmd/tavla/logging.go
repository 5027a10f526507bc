package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/farran/tavla/internal/config"
)

// runtimeLogger fans log events to a styled console sink and an optional file sink.
type runtimeLogger struct {
	sinks     []*charmLog.Logger
	closeFile func() error
}

// newRuntimeLogger configures runtime log sinks from config state.
func newRuntimeLogger(stderr io.Writer, cfg config.LogConfig) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	if stderr == nil {
		stderr = io.Discard
	}

	consoleLogger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          "tavla",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})
	logger := &runtimeLogger{sinks: []*charmLog.Logger{consoleLogger}}
	if cfg.File == "" {
		return logger, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	// Keep file output parseable and unstyled while preserving styled console logs.
	fileLogger := charmLog.NewWithOptions(logFile, charmLog.Options{
		Level:           level,
		Prefix:          "tavla",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	logger.sinks = append(logger.sinks, fileLogger)
	logger.closeFile = logFile.Close
	return logger, nil
}

// Close releases the optional file sink.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// Debug logs one debug event to all sinks.
func (l *runtimeLogger) Debug(msg string, kv ...any) {
	for _, sink := range l.sinks {
		sink.Debug(msg, kv...)
	}
}

// Info logs one info event to all sinks.
func (l *runtimeLogger) Info(msg string, kv ...any) {
	for _, sink := range l.sinks {
		sink.Info(msg, kv...)
	}
}

// Warn logs one warning event to all sinks.
func (l *runtimeLogger) Warn(msg string, kv ...any) {
	for _, sink := range l.sinks {
		sink.Warn(msg, kv...)
	}
}

// Error logs one error event to all sinks.
func (l *runtimeLogger) Error(msg string, kv ...any) {
	for _, sink := range l.sinks {
		sink.Error(msg, kv...)
	}
}
