package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/allocation-service/internal/middleware"
	"github.com/guttosm/allocation-service/internal/service"
)

// AuthRoutes mounts the login, register, refresh and logout endpoints and
// hands out the JWT-guarded group that other registrars hang their
// protected routes off.
type AuthRoutes struct {
	handler     *AuthHandler
	authService service.AuthService
}

func NewAuthRoutes(authService service.AuthService) *AuthRoutes {
	return &AuthRoutes{
		handler:     NewAuthHandler(authService),
		authService: authService,
	}
}

// RegisterPublicRoutes mounts the endpoints a caller reaches before holding
// a token: login, register and token refresh.
func (r *AuthRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/login", r.handler.Login)
	auth.POST("/register", r.handler.Register)
	auth.POST("/refresh", r.handler.RefreshToken)
}

// RegisterProtectedRoutes mounts the JWT-guarded auth routes.
func (r *AuthRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	r.GetProtectedGroup(rg, cfg).POST("/auth/logout", r.handler.Logout)
}

// GetProtectedGroup returns a group guarded by JWT authentication. When the
// router config carries a rate limit, a second per-user limiter applies on
// top of the global one, keyed by the authenticated user rather than the IP.
func (r *AuthRoutes) GetProtectedGroup(rg *gin.RouterGroup, cfg *RouterConfig) *gin.RouterGroup {
	protected := rg.Group("")
	protected.Use(middleware.JWTAuth(r.authService))

	if cfg.RateLimit > 0 {
		protected.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).UserRateLimit())
	}

	return protected
}
