// Package middleware provides HTTP middleware components for the allocation service.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the HTTP header carrying the request ID.
const RequestIDHeader = "X-Request-ID"

// ContextKey type for context keys to avoid collisions.
type ContextKey string

// RequestIDKey is the context key the request ID is stored under.
const RequestIDKey ContextKey = "request_id"

// RequestID tags every request with an ID, honoring one supplied by the
// client in X-Request-ID and minting a UUID otherwise. The ID is echoed
// back in the response headers so callers can correlate logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(string(RequestIDKey), id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request's ID, or "" before RequestID has run.
func GetRequestID(c *gin.Context) string {
	v, ok := c.Get(string(RequestIDKey))
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
