// Package app provides database initialization and setup.
package app

import (
	"context"
	"time"

	"github.com/guttosm/allocation-service/config"
	"github.com/guttosm/allocation-service/internal/circuitbreaker"
	"github.com/guttosm/allocation-service/internal/repository"
	"github.com/guttosm/allocation-service/internal/service"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                        *repository.MongoDB
	ProfilesRepo              repository.ProfilesRepositoryInterface
	AllocationsRepo           repository.AllocationsRepositoryInterface
	LoggingService            service.LoggingService
	ProfilesCircuitBreaker    *circuitbreaker.CircuitBreaker
	AllocationsCircuitBreaker *circuitbreaker.CircuitBreaker
	LogsCircuitBreaker        *circuitbreaker.CircuitBreaker
	UserRepo                  repository.UserRepositoryInterface
	TokenRepo                 repository.TokenRepositoryInterface
}

// InitializeDatabase initializes MongoDB connection and creates required repositories and services.
// Returns nil if database is disabled or connection fails.
func InitializeDatabase(cfg config.DatabaseConfig, defaultProfile *repository.AllocationProfile) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Msg("Connected to MongoDB")

	// Set TTL for logs
	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
	}

	// Initialize circuit breakers
	profilesCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-profiles",
	})

	allocationsCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-allocations",
	})

	logsCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-logs",
	})

	// Initialize repositories
	logsRepo := repository.NewLogsRepository(db)
	logsRepoWithCB := repository.NewLogsRepositoryWithCircuitBreaker(logsRepo, logsCB)
	loggingService := service.NewLoggingService(logsRepoWithCB)

	profilesRepo := repository.NewProfilesRepository(db)
	profilesRepoWithCB := repository.NewProfilesRepositoryWithCircuitBreaker(profilesRepo, profilesCB)

	allocationsRepo := repository.NewAllocationsRepository(db)
	allocationsRepoWithCB := repository.NewAllocationsRepositoryWithCircuitBreaker(allocationsRepo, allocationsCB)

	// Initialize auth repositories
	userRepo := repository.NewUserRepository(db.Database)
	tokenRepo := repository.NewTokenRepository(db.Database)

	// Seed the default allocation profile if none is stored yet
	if err := initializeDefaultProfile(profilesRepoWithCB, defaultProfile); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize default allocation profile")
	}

	return &DatabaseComponents{
		DB:                        db,
		ProfilesRepo:              profilesRepoWithCB,
		AllocationsRepo:           allocationsRepoWithCB,
		LoggingService:            loggingService,
		ProfilesCircuitBreaker:    profilesCB,
		AllocationsCircuitBreaker: allocationsCB,
		LogsCircuitBreaker:        logsCB,
		UserRepo:                  userRepo,
		TokenRepo:                 tokenRepo,
	}
}

// mongoChecker adapts the MongoDB handle to the readiness probe.
type mongoChecker struct {
	db *repository.MongoDB
}

func (m mongoChecker) Check() error {
	return m.db.HealthCheck(context.Background())
}

// initializeDefaultProfile stores the built-in allocation profile when the
// database holds no active one.
func initializeDefaultProfile(repo repository.ProfilesRepositoryInterface, profile *repository.AllocationProfile) error {
	if profile == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	active, err := repo.GetActive(ctx)
	if err != nil {
		return err
	}

	if active == nil {
		if _, err := repo.Create(ctx, profile); err != nil {
			return err
		}
		log.Info().Strs("pack_sequence", profile.PackSequence).Msg("Created default allocation profile")
	}

	return nil
}
