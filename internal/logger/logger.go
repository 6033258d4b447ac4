// Package logger provides the process-wide structured logger.
//
// It is a thin wrapper over log/slog with runtime-adjustable level and
// format. The zero configuration logs INFO-level text to stdout.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config holds logger configuration.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or a file path
}

var (
	mu      sync.RWMutex
	output  io.Writer = os.Stdout
	level             = new(slog.LevelVar)
	format            = "text"
	slogger           = newLogger(os.Stdout, "text", level)
)

func newLogger(w io.Writer, format string, lv *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lv}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func reconfigure() {
	slogger = newLogger(output, format, level)
}

// Init applies the given configuration. Output may be "stdout", "stderr"
// or a file path (opened in append mode).
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file %q: %w", cfg.Output, err)
		}
		output = f
	}

	if cfg.Level != "" {
		setLevel(cfg.Level)
	}
	if cfg.Format != "" {
		if f := strings.ToLower(cfg.Format); f == "text" || f == "json" {
			format = f
		}
	}

	reconfigure()
	return nil
}

// InitWithWriter redirects output to w. Primarily for tests.
func InitWithWriter(w io.Writer, lvl, outFormat string) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	if lvl != "" {
		setLevel(lvl)
	}
	if outFormat != "" {
		format = strings.ToLower(outFormat)
	}
	reconfigure()
}

func setLevel(lvl string) {
	switch strings.ToUpper(lvl) {
	case "DEBUG":
		level.Set(slog.LevelDebug)
	case "INFO":
		level.Set(slog.LevelInfo)
	case "WARN":
		level.Set(slog.LevelWarn)
	case "ERROR":
		level.Set(slog.LevelError)
	}
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// Debug logs at debug level with structured fields.
// Usage: Debug("message", "key1", value1, "key2", value2)
func Debug(msg string, args ...any) { get().Debug(msg, args...) }

// Info logs at info level with structured fields.
func Info(msg string, args ...any) { get().Info(msg, args...) }

// Warn logs at warn level with structured fields.
func Warn(msg string, args ...any) { get().Warn(msg, args...) }

// Error logs at error level with structured fields.
func Error(msg string, args ...any) { get().Error(msg, args...) }
