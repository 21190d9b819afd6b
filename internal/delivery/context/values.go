// Package context carries request-scoped values (request id, logger and
// authenticated user id) on both echo.Context and context.Context.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderXRequestID is the HTTP header name for request ID.
const HeaderXRequestID = "X-Request-Id"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	loggerKey
	userIDKey
)

// Keys used with echo.Context.Set.
const (
	echoRequestIDKey = "request_id"
	echoUserIDKey    = "user_id"
)

func value[T comparable](ctx context.Context, key ctxKey) (T, bool) {
	v, ok := ctx.Value(key).(T)
	var zero T

	return v, ok && v != zero
}

// GetRequestID returns the request ID set by the request-id middleware, or a
// fresh one when the middleware did not run.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(echoRequestIDKey).(string); ok && id != "" {
		return id
	}

	return uuid.Must(uuid.NewV7()).String()
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(echoRequestIDKey, requestID)
}

// GetRequestIDFromContext returns "" when no request ID is attached.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := value[string](ctx, requestIDKey)

	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetLogger returns the request-scoped logger, or nil.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, _ := value[*slog.Logger](ctx, loggerKey)

	return logger
}

// GetLoggerOrDefault is GetLogger with a fallback for code running outside a request.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// SetUserID records the user admitted by the auth gate.
func SetUserID(c echo.Context, userID uuid.UUID) {
	c.Set(echoUserIDKey, userID)
}

// GetUserID reports false for unauthenticated requests and for the nil UUID.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(echoUserIDKey).(uuid.UUID)

	return userID, ok && userID != uuid.Nil
}

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return value[uuid.UUID](ctx, userIDKey)
}
