// Package middleware provides HTTP middleware components for the allocation service.
package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Compression gzips responses for clients that advertise gzip support.
// Allocation matrices compress well, so the default level is plenty.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression)
}
