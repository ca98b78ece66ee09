// Package app provides service initialization.
package app

import (
	"github.com/guttosm/allocation-service/config"
	"github.com/guttosm/allocation-service/internal/service"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Allocator service.Allocator
}

// InitializeServices initializes business logic services.
func InitializeServices(cfg config.CacheConfig, allocCfg config.AllocationConfig) *ServiceComponents {
	var opts []service.AllocatorOption

	if len(allocCfg.PackSequence) > 0 {
		opts = append(opts, service.WithPackSequence(allocCfg.PackSequence))
	}

	if allocCfg.OfficeSource != "" {
		opts = append(opts, service.WithOfficeSource(allocCfg.OfficeSource))
	}

	if cfg.Size > 0 {
		opts = append(opts, service.WithCache(cfg.Size, cfg.TTL))
	}

	allocator := service.NewAllocatorService(opts...)

	return &ServiceComponents{
		Allocator: allocator,
	}
}
