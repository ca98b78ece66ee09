//go:build !integration

package app

import (
	"testing"
	"time"

	"github.com/guttosm/allocation-service/config"
	"github.com/guttosm/allocation-service/internal/mocks"
	"github.com/guttosm/allocation-service/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestInitializeRouter(t *testing.T) {
	tests := []struct {
		name         string
		allocator    service.Allocator
		dbComponents *DatabaseComponents
		cfg          config.Config
		validate     func(*testing.T, *RouterComponents)
	}{
		{
			name:      "creates router with allocator only",
			allocator: service.NewAllocatorService(),
			cfg: config.Config{
				Server: config.ServerConfig{
					RateLimit:  100,
					RateWindow: time.Minute,
				},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components)
				assert.NotNil(t, components.Handler)
				assert.NotNil(t, components.HealthHandler)
				assert.False(t, components.Config.EnableAuth)
				assert.True(t, components.Config.EnableIdempotency)
				assert.Equal(t, 100, components.Config.RateLimit)
			},
		},
		{
			name:      "creates router with auth enabled",
			allocator: service.NewAllocatorService(),
			cfg: config.Config{
				Server: config.ServerConfig{
					RateLimit:  50,
					RateWindow: 30 * time.Second,
				},
				Auth: config.AuthConfig{
					Enabled: true,
					APIKeys: map[string]bool{"test-key": true},
				},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components)
				assert.True(t, components.Config.EnableAuth)
				assert.Equal(t, map[string]bool{"test-key": true}, components.Config.APIKeys)
			},
		},
		{
			name:      "creates router with database components",
			allocator: service.NewAllocatorService(),
			dbComponents: &DatabaseComponents{
				ProfilesRepo:           new(mocks.MockProfilesRepositoryInterface),
				AllocationsRepo:        new(mocks.MockAllocationsRepositoryInterface),
				LoggingService:         new(mocks.MockLoggingService),
				ProfilesCircuitBreaker: nil,
				LogsCircuitBreaker:     nil,
			},
			cfg: config.Config{
				Server: config.ServerConfig{
					RateLimit:  10,
					RateWindow: time.Second,
				},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components)
				assert.NotNil(t, components.Config.ProfileService)
				assert.NotNil(t, components.Config.AllocationRunService)
				assert.NotNil(t, components.Config.LoggingService)
			},
		},
		{
			name:      "creates router with circuit breakers registered",
			allocator: service.NewAllocatorService(),
			dbComponents: &DatabaseComponents{
				ProfilesRepo:           new(mocks.MockProfilesRepositoryInterface),
				LoggingService:         new(mocks.MockLoggingService),
				ProfilesCircuitBreaker: nil, // Using nil since circuit breaker is tested in integration tests
				LogsCircuitBreaker:     nil,
			},
			cfg: config.Config{
				Server: config.ServerConfig{
					RateLimit:  10,
					RateWindow: time.Second,
				},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components)
				assert.NotNil(t, components.HealthHandler)
			},
		},
		{
			name:         "creates router with nil dbComponents",
			allocator:    service.NewAllocatorService(),
			dbComponents: nil,
			cfg: config.Config{
				Server: config.ServerConfig{
					RateLimit:  10,
					RateWindow: time.Second,
				},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components)
				assert.Nil(t, components.Config.ProfileService)
				assert.Nil(t, components.Config.AllocationRunService)
				assert.Nil(t, components.Config.LoggingService)
				assert.Nil(t, components.Config.AuthService)
			},
		},
		{
			name:      "creates router with auth service when user repo exists",
			allocator: service.NewAllocatorService(),
			dbComponents: &DatabaseComponents{
				UserRepo:     new(mocks.MockUserRepositoryInterface),
				TokenRepo:    new(mocks.MockTokenRepositoryInterface),
				ProfilesRepo: new(mocks.MockProfilesRepositoryInterface),
			},
			cfg: config.Config{
				Server: config.ServerConfig{
					RateLimit:  10,
					RateWindow: time.Second,
				},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components)
				assert.NotNil(t, components.Config.AuthService)
			},
		},
		{
			name:      "creates router without auth service when user repo is nil",
			allocator: service.NewAllocatorService(),
			dbComponents: &DatabaseComponents{
				UserRepo:     nil,
				ProfilesRepo: new(mocks.MockProfilesRepositoryInterface),
			},
			cfg: config.Config{
				Server: config.ServerConfig{
					RateLimit:  10,
					RateWindow: time.Second,
				},
			},
			validate: func(t *testing.T, components *RouterComponents) {
				assert.NotNil(t, components)
				assert.Nil(t, components.Config.AuthService)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components := InitializeRouter(tt.allocator, tt.dbComponents, tt.cfg)
			if tt.validate != nil {
				tt.validate(t, components)
			}
		})
	}
}
