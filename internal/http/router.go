package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/allocation-service/internal/metrics"
	"github.com/guttosm/allocation-service/internal/middleware"
	"github.com/guttosm/allocation-service/internal/service"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit            int
	RateWindow           time.Duration
	APIKeys              map[string]bool
	EnableAuth           bool
	EnableIdempotency    bool
	CORSOrigins          []string
	SwaggerUser          string
	SwaggerPass          string
	LoggingService       service.LoggingService
	ProfileService       service.ProfileService
	AllocationRunService service.AllocationRunService
	AuthService          service.AuthService
	Allocator            service.Allocator
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:  100,
		RateWindow: time.Minute,
		EnableAuth: false,
	}
}

// NewRouter assembles the Gin engine: global middleware, the probe and
// docs endpoints, then the /api group in either JWT-protected or public
// form depending on whether an auth service is configured.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	applyGlobalMiddleware(router, &cfg)
	mountInfraRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	applyAPIMiddleware(api, &cfg)

	if cfg.AuthService != nil {
		mountProtectedAPI(api, handler, &cfg)
	} else {
		mountPublicAPI(api, handler, &cfg)
	}

	return router
}

func applyGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"Accept-Language", "X-CSRF-Token", "Authorization", "X-Refresh-Token",
			"accept", "Cache-Control", "X-Requested-With", "X-API-Key",
			"Idempotency-Key", "X-Request-ID",
		},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
	)

	// Handlers that audit (login, allocate) pull the logging service
	// back out of the request context.
	router.Use(func(c *gin.Context) {
		c.Set("logging_service", cfg.LoggingService)
		c.Next()
	})

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(limiter.RateLimit())
	}
}

// mountInfraRoutes wires the probes, Prometheus metrics, and swagger UI.
// Swagger gets basic auth when credentials are configured.
func mountInfraRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		docs := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		docs.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		return
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func applyAPIMiddleware(api *gin.RouterGroup, cfg *RouterConfig) {
	if cfg.EnableIdempotency {
		api.Use(middleware.Idempotency(middleware.DefaultIdempotencyConfig()))
	}

	// API keys only guard the group when JWT auth is not in play.
	if cfg.EnableAuth && cfg.AuthService == nil && len(cfg.APIKeys) > 0 {
		api.Use(middleware.APIKeyAuth(cfg.APIKeys))
	}
}

func mountProtectedAPI(api *gin.RouterGroup, handler *Handler, cfg *RouterConfig) {
	authRoutes := NewAuthRoutes(cfg.AuthService)
	authRoutes.RegisterPublicRoutes(api)

	protected := authRoutes.GetProtectedGroup(api, cfg)
	protected.POST("/auth/logout", authRoutes.handler.Logout)

	NewAllocationRoutes(handler.allocator, cfg.ProfileService, cfg.AllocationRunService).Register(protected)
}

func mountPublicAPI(api *gin.RouterGroup, handler *Handler, cfg *RouterConfig) {
	if handler == nil {
		return
	}
	NewAllocationRoutes(handler.allocator, cfg.ProfileService, cfg.AllocationRunService).Register(api)
}
