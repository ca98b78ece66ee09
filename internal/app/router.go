// Package app provides router configuration.
package app

import (
	"github.com/guttosm/allocation-service/config"
	"github.com/guttosm/allocation-service/internal/http"
	"github.com/guttosm/allocation-service/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	allocator service.Allocator,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	var loggingService service.LoggingService

	// Initialize persistence-backed services when the database is available
	var profileService service.ProfileService
	var runService service.AllocationRunService
	if dbComponents != nil {
		loggingService = dbComponents.LoggingService
		if dbComponents.ProfilesRepo != nil {
			profileService = service.NewProfileService(dbComponents.ProfilesRepo)
		}
		if dbComponents.AllocationsRepo != nil {
			runService = service.NewAllocationRunService(allocator, dbComponents.AllocationsRepo)
		}
	}

	handler := http.NewHandler(allocator, profileService)
	healthHandler := http.NewHealthHandler()

	// Register circuit breakers for health monitoring
	if dbComponents != nil {
		if dbComponents.DB != nil {
			healthHandler.RegisterChecker("mongodb", mongoChecker{db: dbComponents.DB})
		}
		if dbComponents.ProfilesCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_profiles", dbComponents.ProfilesCircuitBreaker)
		}
		if dbComponents.AllocationsCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_allocations", dbComponents.AllocationsCircuitBreaker)
		}
		if dbComponents.LogsCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_logs", dbComponents.LogsCircuitBreaker)
		}
	}

	// Initialize authentication service
	var authService service.AuthService
	if dbComponents != nil && dbComponents.UserRepo != nil {
		authService = service.NewAuthService(
			dbComponents.UserRepo,
			dbComponents.TokenRepo,
			cfg.Auth,
		)
	}

	routerCfg := http.RouterConfig{
		RateLimit:            cfg.Server.RateLimit,
		RateWindow:           cfg.Server.RateWindow,
		EnableAuth:           cfg.Auth.Enabled,
		APIKeys:              cfg.Auth.APIKeys,
		EnableIdempotency:    true,
		CORSOrigins:          cfg.Server.CORSOrigins,
		SwaggerUser:          cfg.Server.SwaggerUser,
		SwaggerPass:          cfg.Server.SwaggerPass,
		LoggingService:       loggingService,
		ProfileService:       profileService,
		AllocationRunService: runService,
		AuthService:          authService,
		Allocator:            allocator,
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
