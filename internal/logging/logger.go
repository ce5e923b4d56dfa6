package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type requestIDKey struct{}

var base = zap.NewNop()

// New builds the process logger. Development environments get the console
// encoder, everything else JSON.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// SetBase replaces the logger used by FromContext and L.
func SetBase(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base = l
}

// L returns the process logger.
func L() *zap.Logger {
	return base
}

// WithRequestID stores the request ID in ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID from ctx.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides request-scoped logging for services and handlers
type Logger struct {
	z *zap.Logger
}

// FromContext creates a logger carrying the request ID found in ctx
func FromContext(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{z: base.With(zap.String("request_id", requestID))}
}

// Error logs an error with context
func (l *Logger) Error(operation string, err error) {
	l.z.Error("operation failed", zap.String("operation", operation), zap.Error(err))
}

func (l *Logger) Errorf(operation string, format string, args ...interface{}) {
	l.z.Sugar().Errorw(fmt.Sprintf(format, args...), "operation", operation)
}

// Info logs an info message with context
func (l *Logger) Info(operation string, message string, fields ...zap.Field) {
	l.z.Info(message, append([]zap.Field{zap.String("operation", operation)}, fields...)...)
}

func (l *Logger) Infof(operation string, format string, args ...interface{}) {
	l.z.Sugar().Infow(fmt.Sprintf(format, args...), "operation", operation)
}

// Warn logs a warning with context
func (l *Logger) Warn(operation string, message string, fields ...zap.Field) {
	l.z.Warn(message, append([]zap.Field{zap.String("operation", operation)}, fields...)...)
}

func (l *Logger) Warnf(operation string, format string, args ...interface{}) {
	l.z.Sugar().Warnw(fmt.Sprintf(format, args...), "operation", operation)
}
