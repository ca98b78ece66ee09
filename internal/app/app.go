// Package app provides application initialization and dependency injection.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/allocation-service/config"
	"github.com/guttosm/allocation-service/internal/http"
	"github.com/guttosm/allocation-service/internal/middleware"
	"github.com/guttosm/allocation-service/internal/repository"
	"github.com/guttosm/allocation-service/internal/service"
)

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(cfg config.Config) *gin.Engine {
	// Initialize logger first (needed by other components)
	InitializeLogger()

	// Initialize business services
	serviceComponents := InitializeServices(cfg.Cache, cfg.Allocation)

	// Initialize database components (MongoDB repositories and services)
	dbComponents := InitializeDatabase(cfg.Database, defaultProfileFromConfig(cfg.Allocation))

	// Request logs go through the buffered worker pool when the database is up
	if dbComponents != nil && dbComponents.LoggingService != nil {
		middleware.InitAsyncLogger(dbComponents.LoggingService, middleware.DefaultAsyncLoggerConfig())
	}

	// Initialize router components (handlers and configuration)
	routerComponents := InitializeRouter(serviceComponents.Allocator, dbComponents, cfg)

	return http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config)
}

// defaultProfileFromConfig builds the seed allocation profile from env
// configuration, filling gaps with the built-in defaults.
func defaultProfileFromConfig(cfg config.AllocationConfig) *repository.AllocationProfile {
	sequence := cfg.PackSequence
	if len(sequence) == 0 {
		sequence = service.DefaultPackSequence
	}

	locations := service.ResolveLocations(cfg.Locations)

	return &repository.AllocationProfile{
		Composition:    service.DefaultPackComposition.Clone(),
		CompositionXXS: service.DefaultPackCompositionXXS.Clone(),
		PackSequence:   append([]string(nil), sequence...),
		Locations:      locations,
		OfficeCarve:    service.DefaultOfficeCarve.Clone(),
		OfficeSource:   cfg.OfficeSource,
		CreatedBy:      "system",
	}
}
