package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the process logger. It is a no-op until Initialize runs.
	Log = zap.NewNop()
)

// RequestIDKey is the key used to store request ID in context
const RequestIDKey = "request_id"

// RequestIDHeader carries the request id between the storefront and the backend.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// Initialize sets up the logger with the specified environment
func Initialize(env string) {
	InitializeWithWriter(env, nil)
}

// InitializeWithWriter sets up the logger with the specified environment and optional CloudWatch writer
func InitializeWithWriter(env string, cloudWatchWriter io.Writer) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if cloudWatchWriter == nil {
		l, err := config.Build()
		if err != nil {
			fmt.Printf("Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		Log = l
		return
	}

	level := zap.NewAtomicLevelAt(config.Level.Level())
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(config.EncoderConfig), zapcore.AddSync(os.Stdout), level)

	// CloudWatch gets JSON without terminal colours.
	cwEncoderConfig := config.EncoderConfig
	cwEncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	cwCore := zapcore.NewCore(zapcore.NewJSONEncoder(cwEncoderConfig), zapcore.AddSync(cloudWatchWriter), level)

	Log = zap.New(zapcore.NewTee(consoleCore, cwCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// RequestID assigns every request an id, reusing the caller's X-Request-ID when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), requestID))
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// Error logs an error with request ID and additional context
func Error(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String(RequestIDKey, RequestIDFrom(ctx)))
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Log.Error(msg, fields...)
}

// Info logs an info message with request ID and additional context
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Info(msg, append(fields, zap.String(RequestIDKey, RequestIDFrom(ctx)))...)
}

// Debug logs a debug message with request ID and additional context
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Debug(msg, append(fields, zap.String(RequestIDKey, RequestIDFrom(ctx)))...)
}

// Warn logs a warning message with request ID and additional context
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Warn(msg, append(fields, zap.String(RequestIDKey, RequestIDFrom(ctx)))...)
}

// RequestIDFrom extracts the request ID from a gin or plain context.
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if requestID := ginCtx.GetString(RequestIDKey); requestID != "" {
			return requestID
		}
		if ginCtx.Request != nil {
			ctx = ginCtx.Request.Context()
		}
	}
	if requestID, ok := ctx.Value(ctxKey{}).(string); ok && requestID != "" {
		return requestID
	}
	return "unknown"
}

// WithContext creates a new context with the given request ID
func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}
