// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// RenderIDKey is the context key for render IDs.
	RenderIDKey ContextKey = "render_id"
	// SampleIDKey is the context key for the sample being rendered.
	SampleIDKey ContextKey = "sample_id"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Stdout carries the command output, so logs go to stderr.
	InitLogger(os.Stderr, LevelInfo, FormatText)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// ParseLevel parses "debug", "info", "warn" or "error". An empty string
// is LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// ParseFormat parses "json" or "text". An empty string is FormatText.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// InitLogger initializes the global logger with the specified writer, level
// and format.
func InitLogger(w io.Writer, level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// WithRenderID adds a render ID to the context.
func WithRenderID(ctx context.Context, renderID string) context.Context {
	return context.WithValue(ctx, RenderIDKey, renderID)
}

// GetRenderID retrieves the render ID from the context.
func GetRenderID(ctx context.Context) string {
	if renderID, ok := ctx.Value(RenderIDKey).(string); ok {
		return renderID
	}
	return ""
}

// WithSampleID adds a sample ID to the context.
func WithSampleID(ctx context.Context, sampleID string) context.Context {
	return context.WithValue(ctx, SampleIDKey, sampleID)
}

// GetSampleID retrieves the sample ID from the context.
func GetSampleID(ctx context.Context) string {
	if sampleID, ok := ctx.Value(SampleIDKey).(string); ok {
		return sampleID
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if renderID := GetRenderID(ctx); renderID != "" {
		logger = logger.With("render_id", renderID)
	}
	if sampleID := GetSampleID(ctx); sampleID != "" {
		logger = logger.With("sample_id", sampleID)
	}
	return logger
}

// Helper functions for common logging patterns

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// SampleLoaded logs a completed sample load.
func SampleLoaded(ctx context.Context, elements int, duration time.Duration, args ...any) {
	allArgs := []any{
		"elements", elements,
		"duration_ms", duration.Milliseconds(),
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Info("sample_loaded", allArgs...)
}

// LoadError logs a failed sample load.
func LoadError(ctx context.Context, err error, args ...any) {
	allArgs := []any{
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Error("sample_load_error", allArgs...)
}

// VariantFallback logs that the requested screenshot variant is missing.
func VariantFallback(ctx context.Context, wanted, shown string, args ...any) {
	allArgs := []any{
		"wanted", wanted,
		"shown", shown,
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Warn("variant_fallback", allArgs...)
}
