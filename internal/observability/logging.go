// Package observability wires structured logging for the console.
package observability

import (
	"context"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-cmdform/internal/config"
)

// Context key for the logger.
type loggerKey struct{}

// Redacted replaces sealed values in log output.
const Redacted = "[REDACTED]"

// NewLogger creates a zap.Logger configured for JSON output to stderr.
//
// Log level usage conventions:
//   - error: unhandled panics, 5xx responses
//   - warn:  rejected submissions, failed file reads
//   - info:  request start/end, server lifecycle, overlay loading
//   - debug: decoded submissions with sealed fields redacted
func NewLogger(cfg config.ObservabilityConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapCfg.Build()
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom returns the logger stored in the context, or the provided
// fallback if none is found.
func LoggerFrom(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}

// RedactFields returns a copy of values with the sealed names replaced by
// Redacted. Empty values stay empty so logs still show what was missing.
func RedactFields(values map[string]string, sealed []string) map[string]string {
	if values == nil {
		return nil
	}
	out := make(map[string]string, len(values))
	for key, value := range values {
		if value != "" && slices.Contains(sealed, key) {
			out[key] = Redacted
			continue
		}
		out[key] = value
	}
	return out
}

// ValuesField renders a value map as a zap object field.
func ValuesField(key string, values map[string]string) zap.Field {
	return zap.Object(key, zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		for name, value := range values {
			enc.AddString(name, value)
		}
		return nil
	}))
}
