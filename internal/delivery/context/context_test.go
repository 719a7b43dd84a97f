package context

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"authsvc/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	generated := GetRequestID(c)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)

	c.SetRequest(c.Request().WithContext(WithScope(c.Request().Context(), Scope{RequestID: "req-1"})))
	assert.Equal(t, "req-1", GetRequestID(c))
	assert.Equal(t, "req-1", GetRequestIDFromContext(c.Request().Context()))
	assert.Empty(t, GetRequestIDFromContext(context.Background()))
}

func TestLoggerOrDefault(t *testing.T) {
	fallback := slog.Default()
	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))

	scoped := slog.Default().With(slog.String("request_id", "abc"))
	ctx := WithLogger(WithScope(context.Background(), Scope{RequestID: "abc"}), scoped)
	assert.Same(t, scoped, GetLoggerOrDefault(ctx, fallback))
	assert.Equal(t, "abc", GetRequestIDFromContext(ctx))
}

func TestSetIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	outer := WithScope(c.Request().Context(), Scope{RequestID: "req-1", Logger: logger})
	c.SetRequest(c.Request().WithContext(outer))

	_, ok := GetIdentityFromEcho(c)
	assert.False(t, ok)

	identity := &entity.AuthenticatedIdentity{
		User:  &entity.User{ID: uuid.New(), Name: "Ann"},
		Claim: &entity.TokenClaim{},
	}
	SetIdentity(c, identity)

	fromEcho, ok := GetIdentityFromEcho(c)
	require.True(t, ok)
	assert.Same(t, identity, fromEcho)
	assert.Equal(t, "req-1", GetRequestID(c))

	GetLoggerOrDefault(c.Request().Context(), nil).Info("after auth")
	assert.Contains(t, buf.String(), identity.User.ID.String())

	// The context captured before authentication is unchanged.
	_, ok = GetIdentity(outer)
	assert.False(t, ok)
}
