// Package context carries per-request state between the HTTP gateway and
// the layers below it.
package context

import (
	"context"
	"log/slog"

	"authsvc/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type scopeKey struct{}

// HeaderXRequestID is the HTTP header name for request ID.
const HeaderXRequestID = "X-Request-Id"

// Scope is everything known about the request being served.
// A Scope is never mutated once it is on a context; setters store a copy.
type Scope struct {
	RequestID string
	Logger    *slog.Logger
	Identity  *entity.AuthenticatedIdentity
}

// WithScope returns a new context carrying scope.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the request scope, or a zero Scope when there is none.
func ScopeFrom(ctx context.Context) Scope {
	scope, _ := ctx.Value(scopeKey{}).(Scope)

	return scope
}

// GetRequestID returns the ID of the request behind c.
// Outside the request-scope middleware a fresh ID is returned.
func GetRequestID(c echo.Context) string {
	if id := ScopeFrom(c.Request().Context()).RequestID; id != "" {
		return id
	}

	return uuid.NewString()
}

// GetRequestIDFromContext returns the request ID, or "" outside a request.
func GetRequestIDFromContext(ctx context.Context) string {
	return ScopeFrom(ctx).RequestID
}

// WithLogger returns a new context whose scope logs through logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	scope := ScopeFrom(ctx)
	scope.Logger = logger

	return WithScope(ctx, scope)
}

// GetLoggerOrDefault returns the request logger, or fallback outside a request.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := ScopeFrom(ctx).Logger; logger != nil {
		return logger
	}

	return fallback
}

// GetIdentity returns the authenticated caller.
func GetIdentity(ctx context.Context) (*entity.AuthenticatedIdentity, bool) {
	identity := ScopeFrom(ctx).Identity

	return identity, identity != nil
}

// GetIdentityFromEcho returns the authenticated caller of the request behind c.
func GetIdentityFromEcho(c echo.Context) (*entity.AuthenticatedIdentity, bool) {
	return GetIdentity(c.Request().Context())
}

// SetIdentity records the authenticated caller on the request. From then on
// the request logger tags every line with the caller's user_id.
func SetIdentity(c echo.Context, identity *entity.AuthenticatedIdentity) {
	ctx := c.Request().Context()
	scope := ScopeFrom(ctx)
	scope.Identity = identity
	if scope.Logger != nil && identity != nil && identity.User != nil {
		scope.Logger = scope.Logger.With(slog.String("user_id", identity.User.ID.String()))
	}

	c.SetRequest(c.Request().WithContext(WithScope(ctx, scope)))
}
