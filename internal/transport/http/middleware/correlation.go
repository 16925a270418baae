package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/infra/logger"
)

const (
	// TraceIDHeader carries the caller-supplied trace identifier.
	TraceIDHeader   = "X-Trace-ID"
	requestIDHeader = "X-Request-ID"

	// TraceIDKey is the gin context key holding the trace identifier.
	TraceIDKey = "trace_id"
	// UserIDKey is the gin context key holding the authenticated user ID.
	UserIDKey = "user_id"
	// RoleKey is the gin context key holding the authenticated user's role.
	RoleKey = "role"

	requestScopeKey = "request_scope"
)

// RequestScope collects the request facts that outlive a single middleware:
// who called, from where, and under which trace.
type RequestScope struct {
	TraceID   string
	UserID    string
	IP        string
	UserAgent string
}

// EnrichContext assigns every request a trace ID and a RequestScope. A caller
// may propagate its own trace ID, but only a well-formed UUID is trusted.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := strings.TrimSpace(c.GetHeader(TraceIDHeader))
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		c.Set(requestScopeKey, &RequestScope{
			TraceID:   traceID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})

		c.Next()
	}
}

// RequestID stamps each request with a correlation identifier and threads it
// through the request context so log lines can be tied back to the request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey{}, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetTraceID returns the trace ID for the request, or "" before EnrichContext ran.
func GetTraceID(c *gin.Context) string {
	if id, ok := c.Get(TraceIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// GetRequestScope returns the request scope, never nil.
func GetRequestScope(c *gin.Context) *RequestScope {
	if val, ok := c.Get(requestScopeKey); ok {
		if scope, ok := val.(*RequestScope); ok {
			return scope
		}
	}
	return &RequestScope{}
}
