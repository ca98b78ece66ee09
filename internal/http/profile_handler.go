package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/allocation-service/internal/domain/dto"
	"github.com/guttosm/allocation-service/internal/middleware"
	"github.com/guttosm/allocation-service/internal/repository"
	"github.com/guttosm/allocation-service/internal/service"
)

// ProfileHandler provides HTTP handlers for allocation profile routes.
type ProfileHandler struct {
	profileService service.ProfileService
	allocator      service.Allocator
	// onUpdate is invoked after a successful profile change so dependent
	// caches (handler profile cache, engine result cache) drop stale state.
	onUpdate func()
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(profileService service.ProfileService, allocator service.Allocator, onUpdate func()) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		allocator:      allocator,
		onUpdate:       onUpdate,
	}
}

// GetActiveProfile handles GET /api/profile requests.
//
// @Summary      Get active allocation profile
// @Description  Returns the currently active allocation profile: pack shapes, pack sequence, location set, and office carve-out
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Success      200 {object} dto.SuccessResponse "Active allocation profile"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      404 {object} dto.ErrorResponse "No active profile found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/profile [get]
func (h *ProfileHandler) GetActiveProfile(c *gin.Context) {
	builder := NewResponseBuilder(c)

	profile, err := h.profileService.GetActive(c.Request.Context())
	if err != nil {
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	if profile == nil {
		builder.Error(http.StatusNotFound, dto.ErrCodeNotFound, nil)
		return
	}

	builder.SuccessOK(profile)
}

// UpdateProfile handles PUT /api/profile requests.
//
// @Summary      Update allocation profile
// @Description  Stores a new active allocation profile version and deactivates the previous one
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        request body dto.UpdateProfileRequest true "Allocation profile"
// @Success      200 {object} dto.SuccessResponse "Updated allocation profile"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}

	if err := req.Validate(); err != nil {
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return
	}

	profile := &repository.AllocationProfile{
		Composition:    req.Composition,
		CompositionXXS: req.CompositionXXS,
		PackSequence:   req.PackSequence,
		Locations:      req.Locations,
		OfficeCarve:    req.OfficeCarve,
		OfficeSource:   req.OfficeSource,
		CreatedBy:      req.CreatedBy,
	}

	created, err := h.profileService.Create(c.Request.Context(), profile)
	if err != nil {
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	if h.allocator != nil {
		h.allocator.InvalidateCache()
	}
	if h.onUpdate != nil {
		h.onUpdate()
	}

	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "update_profile", "Allocation profile updated", map[string]interface{}{
				"pack_sequence": req.PackSequence,
				"version":       created.Version,
			})
		}
	}

	builder.SuccessOK(created)
}

// ListProfiles handles GET /api/profile/history requests.
//
// @Summary      List allocation profile history
// @Description  Returns stored allocation profile versions, newest first
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        limit query int false "Limit number of results"
// @Success      200 {object} dto.SuccessResponse "Profile history"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/profile/history [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	profiles, err := h.profileService.List(c.Request.Context(), limit)
	if err != nil {
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	builder.SuccessOK(profiles)
}
