package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/allocation-service/internal/domain/dto"
	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/i18n"
	"github.com/guttosm/allocation-service/internal/metrics"
	"github.com/guttosm/allocation-service/internal/middleware"
	"github.com/guttosm/allocation-service/internal/repository"
	"github.com/guttosm/allocation-service/internal/service"
)

// profileCache provides thread-safe caching of the active allocation profile.
type profileCache struct {
	profile   atomic.Value // holds *repository.AllocationProfile
	expiresAt atomic.Value // holds time.Time
	mu        sync.Mutex
	ttl       time.Duration
}

// newProfileCache creates a new profile cache with the given TTL.
func newProfileCache(ttl time.Duration) *profileCache {
	c := &profileCache{ttl: ttl}
	c.expiresAt.Store(time.Time{})
	return c
}

// get returns the cached profile if valid, or nil if cache is expired/empty.
func (c *profileCache) get() *repository.AllocationProfile {
	if exp := c.expiresAt.Load(); exp != nil {
		if expiresAt, ok := exp.(time.Time); ok && time.Now().Before(expiresAt) {
			if p := c.profile.Load(); p != nil {
				if profile, ok := p.(*repository.AllocationProfile); ok {
					return profile
				}
			}
		}
	}
	return nil
}

// set stores a profile in the cache with TTL.
func (c *profileCache) set(profile *repository.AllocationProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring lock
	if exp := c.expiresAt.Load(); exp != nil {
		if expiresAt, ok := exp.(time.Time); ok && time.Now().Before(expiresAt) {
			return // Already cached by another goroutine
		}
	}

	c.profile.Store(profile)
	c.expiresAt.Store(time.Now().Add(c.ttl))
}

// invalidate clears the cache.
func (c *profileCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiresAt.Store(time.Time{})
}

// Handler provides HTTP handlers for allocation routes.
type Handler struct {
	allocator      service.Allocator
	profileService service.ProfileService
	profileCache   *profileCache
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithProfileCacheTTL sets the TTL for active profile caching.
func WithProfileCacheTTL(ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		h.profileCache = newProfileCache(ttl)
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(allocator service.Allocator, profileService service.ProfileService, opts ...HandlerOption) *Handler {
	h := &Handler{
		allocator:      allocator,
		profileService: profileService,
		profileCache:   newProfileCache(30 * time.Second), // Default 30s cache
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// getProfile retrieves the active allocation profile from cache or database.
func (h *Handler) getProfile(ctx context.Context) *repository.AllocationProfile {
	// Check cache first
	if profile := h.profileCache.get(); profile != nil {
		return profile
	}

	// Cache miss - fetch from database
	if h.profileService == nil {
		return nil
	}

	// Use a timeout for database fetch
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	profile, err := h.profileService.GetActive(ctx)
	if err != nil || profile == nil {
		return nil
	}

	// Cache the result
	h.profileCache.set(profile)
	return profile
}

// InvalidateProfileCache invalidates the active profile cache.
// Call this when the profile is updated.
func (h *Handler) InvalidateProfileCache() {
	h.profileCache.invalidate()
}

// engineConfigFromProfile maps a stored profile onto per-run engine overrides.
func engineConfigFromProfile(profile *repository.AllocationProfile) service.EngineConfig {
	return service.EngineConfig{
		Composition:    profile.Composition,
		CompositionXXS: profile.CompositionXXS,
		PackSequence:   profile.PackSequence,
		OfficeCarve:    profile.OfficeCarve,
		OfficeSource:   profile.OfficeSource,
	}
}

// Allocate handles POST /api/allocate requests.
//
// @Summary      Allocate shipped units across locations
// @Description  Distributes a line's shipped units across the configured locations using pack-ratio distribution: office carve-out first, store shares by pack-sequence ratio, remainder and overage to the warehouse, and a hard per-size cap at the shipped quantity. Supports idempotency via Idempotency-Key header.
// @Tags         Allocations
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.AllocateRequest true "Buy/ship quantities and optional location overrides"
// @Success      200 {object} dto.SuccessResponse "Successful allocation"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      502 {object} dto.ErrorResponse "Bad gateway"
// @Failure      503 {object} dto.ErrorResponse "Service unavailable"
// @Security     BearerAuth
// @Router       /api/allocate [post]
func (h *Handler) Allocate(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if err := req.Validate(); err != nil {
		if _, ok := err.(*dto.ValidationError); ok {
			metrics.RecordAllocation(0, "validation_error")
			builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationQuantities, err)
		} else {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		}
		return
	}

	// Audit log (async)
	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "allocate", "Allocation requested", map[string]interface{}{
				"reference":      req.Reference,
				"has_locations":  len(req.Locations) > 0,
				"skip_locations": req.SkipLocations,
			})
		}
	}

	start := time.Now()
	result := h.runAllocation(c.Request.Context(), &req)
	duration := time.Since(start)

	metrics.RecordAllocation(duration, "success")
	builder.SuccessOK(result)
}

// runAllocation resolves the location set and engine configuration for one
// request, then executes the engine.
func (h *Handler) runAllocation(ctx context.Context, req *dto.AllocateRequest) model.AllocationResult {
	opts := service.AllocateOptions{SkipLocations: req.SkipLocations}
	profile := h.getProfile(ctx)

	locations := req.Locations
	if len(locations) == 0 {
		if profile != nil && len(profile.Locations) > 0 {
			locations = profile.Locations
		} else {
			locations = service.DefaultLocations
		}
	}

	if profile != nil {
		return h.allocator.AllocateWithConfig(req.Buy, req.Ship, locations, opts, engineConfigFromProfile(profile))
	}
	return h.allocator.Allocate(req.Buy, req.Ship, locations, opts)
}
