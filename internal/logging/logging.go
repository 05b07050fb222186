package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logger. It discards everything until
// Initialize enables debug output.
var Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// DefaultPath returns ~/.claude/contextline/debug.log
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".claude", "contextline", "debug.log")
}

// Initialize sets up the logger. With debug off nothing is written; with it
// on, JSON records go to a size-rotated file. stdout is never used.
func Initialize(debug bool, logFile string) (io.Closer, error) {
	if !debug {
		Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return nopCloser{}, nil
	}

	if logFile == "" {
		logFile = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5, // MB
		MaxBackups: 3,
		Compress:   false,
	}

	Logger = slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})).With("pid", os.Getpid())

	return writer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
