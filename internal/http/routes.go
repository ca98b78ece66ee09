package http

import (
	"github.com/gin-gonic/gin"
)

// RouteGroup is implemented by handlers that register a set of routes.
type RouteGroup interface {
	// RegisterRoutes attaches the group's routes to rg.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// PublicRouteGroup registers routes served without authentication.
type PublicRouteGroup interface {
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// ProtectedRouteGroup registers routes behind the auth middleware.
type ProtectedRouteGroup interface {
	RegisterProtectedRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}
