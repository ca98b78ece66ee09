//go:build !integration

package app

import (
	"testing"
	"time"

	"github.com/guttosm/allocation-service/config"
	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestInitializeServices(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.CacheConfig
		allocCfg config.AllocationConfig
		validate func(*testing.T, *ServiceComponents)
	}{
		{
			name: "creates service with default config",
			cfg: config.CacheConfig{
				Size: 0,
				TTL:  0,
			},
			validate: func(t *testing.T, components *ServiceComponents) {
				assert.NotNil(t, components)
				assert.NotNil(t, components.Allocator)
			},
		},
		{
			name: "creates service with cache enabled",
			cfg: config.CacheConfig{
				Size: 1000,
				TTL:  5 * time.Minute,
			},
			validate: func(t *testing.T, components *ServiceComponents) {
				assert.NotNil(t, components)
				assert.NotNil(t, components.Allocator)
			},
		},
		{
			name: "creates service with custom pack sequence",
			allocCfg: config.AllocationConfig{
				PackSequence: []string{"Cedarhurst", "Lakewood", "Warehouse"},
			},
			validate: func(t *testing.T, components *ServiceComponents) {
				assert.NotNil(t, components)
				assert.NotNil(t, components.Allocator)
			},
		},
		{
			name: "creates service with office source override",
			allocCfg: config.AllocationConfig{
				OfficeSource: "Lakewood",
			},
			validate: func(t *testing.T, components *ServiceComponents) {
				assert.NotNil(t, components)
				assert.NotNil(t, components.Allocator)
			},
		},
		{
			name: "creates service with cache and custom sequence",
			cfg: config.CacheConfig{
				Size: 500,
				TTL:  10 * time.Minute,
			},
			allocCfg: config.AllocationConfig{
				PackSequence: []string{"Cedarhurst", "Cedarhurst", "Lakewood"},
			},
			validate: func(t *testing.T, components *ServiceComponents) {
				assert.NotNil(t, components)
				assert.NotNil(t, components.Allocator)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components := InitializeServices(tt.cfg, tt.allocCfg)
			if tt.validate != nil {
				tt.validate(t, components)
			}
		})
	}
}

func TestServiceComponents_Allocator(t *testing.T) {
	components := InitializeServices(config.CacheConfig{
		Size: 100,
		TTL:  time.Minute,
	}, config.AllocationConfig{})

	assert.NotNil(t, components.Allocator)

	// Test that the allocator works
	vec := model.SizeVector{"XS": 30, "S": 30, "M": 20, "L": 10, "XL": 10}
	result := components.Allocator.Allocate(vec, vec, service.DefaultLocations, service.AllocateOptions{})
	assert.Equal(t, 10, result.PackSize)
	assert.Equal(t, vec, result.Totals)
	assert.NotEmpty(t, result.Allocation)
}
