package middleware

import (
	"log/slog"

	deliverycontext "authsvc/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxRequestIDLength bounds client-supplied request IDs before they reach logs.
const maxRequestIDLength = 64

// RequestScopeMiddleware opens the request scope: it settles the request ID
// and derives the request logger from the service logger.
type RequestScopeMiddleware struct {
	logger *slog.Logger
}

// NewRequestScopeMiddleware creates the middleware. logger is the service
// logger from infra/log, already tagged with service and env.
func NewRequestScopeMiddleware(logger *slog.Logger) *RequestScopeMiddleware {
	return &RequestScopeMiddleware{
		logger: logger,
	}
}

// Process stores the request scope on the request context and echoes the
// request ID back in the response headers.
func (m *RequestScopeMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		requestID := req.Header.Get(deliverycontext.HeaderXRequestID)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		scope := deliverycontext.Scope{
			RequestID: requestID,
			Logger: m.logger.With(
				slog.String("request_id", requestID),
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
			),
		}
		c.SetRequest(req.WithContext(deliverycontext.WithScope(req.Context(), scope)))

		return next(c)
	}
}

// validRequestID accepts short IDs made of URL-safe characters only.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}

	return true
}
