package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/allocation-service/internal/domain/dto"
	"github.com/guttosm/allocation-service/internal/i18n"
	"github.com/guttosm/allocation-service/internal/metrics"
	"github.com/guttosm/allocation-service/internal/middleware"
	"github.com/guttosm/allocation-service/internal/repository"
	"github.com/guttosm/allocation-service/internal/service"
)

// AllocationsHandler provides HTTP handlers for persisted allocation records:
// running and storing an allocation, receiving scans, and closeout.
type AllocationsHandler struct {
	runService     service.AllocationRunService
	profileService service.ProfileService
	profileCache   *profileCache
}

// NewAllocationsHandler creates a new AllocationsHandler instance.
func NewAllocationsHandler(runService service.AllocationRunService, profileService service.ProfileService) *AllocationsHandler {
	return &AllocationsHandler{
		runService:     runService,
		profileService: profileService,
		profileCache:   newProfileCache(30 * time.Second),
	}
}

// CreateAllocation handles POST /api/allocations requests.
//
// @Summary      Run and persist an allocation
// @Description  Runs the allocation engine for a purchase-order line and stores the result as a trackable record with an empty scanned matrix
// @Tags         Allocations
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        request body dto.AllocateRequest true "Buy/ship quantities and optional location overrides"
// @Success      201 {object} dto.SuccessResponse "Stored allocation record"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/allocations [post]
func (h *AllocationsHandler) CreateAllocation(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if err := req.Validate(); err != nil {
		metrics.RecordAllocation(0, "validation_error")
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationQuantities, err)
		return
	}

	profile := h.getProfile(c.Request.Context())

	locations := req.Locations
	if len(locations) == 0 {
		if profile != nil && len(profile.Locations) > 0 {
			locations = profile.Locations
		} else {
			locations = service.DefaultLocations
		}
	}

	var cfg *service.EngineConfig
	if profile != nil {
		engineCfg := engineConfigFromProfile(profile)
		cfg = &engineCfg
	}

	createdBy := ""
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			createdBy = id
		}
	}

	start := time.Now()
	record, err := h.runService.Run(c.Request.Context(), req.Reference, req.Buy, req.Ship, locations,
		service.AllocateOptions{SkipLocations: req.SkipLocations}, cfg, createdBy)
	if err != nil {
		metrics.RecordAllocation(time.Since(start), "error")
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}
	metrics.RecordAllocation(time.Since(start), "success")

	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "create_allocation", "Allocation record created", map[string]interface{}{
				"allocation_id": record.ID.Hex(),
				"reference":     record.Reference,
			})
		}
	}

	builder.SuccessCreated(record)
}

// getProfile retrieves the active allocation profile from cache or database.
func (h *AllocationsHandler) getProfile(ctx context.Context) *repository.AllocationProfile {
	if profile := h.profileCache.get(); profile != nil {
		return profile
	}
	if h.profileService == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	profile, err := h.profileService.GetActive(ctx)
	if err != nil || profile == nil {
		return nil
	}

	h.profileCache.set(profile)
	return profile
}

// InvalidateProfileCache invalidates the active profile cache.
func (h *AllocationsHandler) InvalidateProfileCache() {
	h.profileCache.invalidate()
}

// GetAllocation handles GET /api/allocations/:id requests.
//
// @Summary      Get an allocation record
// @Description  Returns a stored allocation record with its scanned matrix and status
// @Tags         Allocations
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        id path string true "Allocation record ID"
// @Success      200 {object} dto.SuccessResponse "Allocation record"
// @Failure      400 {object} dto.ErrorResponse "Invalid record ID"
// @Failure      404 {object} dto.ErrorResponse "Record not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/allocations/{id} [get]
func (h *AllocationsHandler) GetAllocation(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, ok := h.recordID(c, builder)
	if !ok {
		return
	}

	record, err := h.runService.Get(c.Request.Context(), id)
	if err != nil {
		h.recordError(builder, err)
		return
	}

	builder.SuccessOK(record)
}

// ListAllocations handles GET /api/allocations requests.
//
// @Summary      List allocation records
// @Description  Returns stored allocation records, newest first, optionally filtered by status
// @Tags         Allocations
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        status query string false "Filter by status (allocated, receiving, closed)"
// @Param        limit query int false "Limit number of results"
// @Param        skip query int false "Skip number of results"
// @Success      200 {object} dto.SuccessResponse "Allocation records"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/allocations [get]
func (h *AllocationsHandler) ListAllocations(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit := queryInt(c, "limit")
	skip := queryInt(c, "skip")
	status := c.Query("status")

	records, err := h.runService.List(c.Request.Context(), status, limit, skip)
	if err != nil {
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
		return
	}

	builder.SuccessOK(records)
}

// ApplyScans handles POST /api/allocations/:id/scans requests.
//
// @Summary      Apply receiving scans
// @Description  Folds signed scan deltas into the record's scanned matrix. Decrements clamp at zero; an increment past the allocated cell is rejected
// @Tags         Allocations
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        id path string true "Allocation record ID"
// @Param        request body dto.ScanRequest true "Scan deltas"
// @Success      200 {object} dto.SuccessResponse "Updated receiving status"
// @Failure      400 {object} dto.ErrorResponse "Invalid scan"
// @Failure      404 {object} dto.ErrorResponse "Record not found"
// @Failure      409 {object} dto.ErrorResponse "Record already closed"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/allocations/{id}/scans [post]
func (h *AllocationsHandler) ApplyScans(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, ok := h.recordID(c, builder)
	if !ok {
		return
	}

	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	deltas := make([]service.ScanDelta, 0, len(req.Scans))
	for _, scan := range req.Scans {
		deltas = append(deltas, service.ScanDelta{
			Location: scan.Location,
			Size:     scan.Size,
			Delta:    scan.Delta,
		})
	}

	record, status, err := h.runService.ApplyScans(c.Request.Context(), id, deltas)
	if err != nil {
		h.recordError(builder, err)
		return
	}

	metrics.RecordScanOperation("success")

	builder.SuccessOK(map[string]interface{}{
		"allocation_id": record.ID.Hex(),
		"status":        record.Status,
		"receiving":     status,
	})
}

// GetReceiving handles GET /api/allocations/:id/scans requests.
//
// @Summary      Get receiving status
// @Description  Returns the record's scanned matrix, per-size scan totals, remaining shortfalls, and whether scans match the allocation
// @Tags         Allocations
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        id path string true "Allocation record ID"
// @Success      200 {object} dto.SuccessResponse "Receiving status"
// @Failure      400 {object} dto.ErrorResponse "Invalid record ID"
// @Failure      404 {object} dto.ErrorResponse "Record not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/allocations/{id}/scans [get]
func (h *AllocationsHandler) GetReceiving(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, ok := h.recordID(c, builder)
	if !ok {
		return
	}

	status, err := h.runService.Receiving(c.Request.Context(), id)
	if err != nil {
		h.recordError(builder, err)
		return
	}

	builder.SuccessOK(status)
}

// CloseAllocation handles POST /api/allocations/:id/closeout requests.
//
// @Summary      Close an allocation record
// @Description  Marks the record closed. Refused while the scan totals do not match the allocation totals
// @Tags         Allocations
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        id path string true "Allocation record ID"
// @Success      200 {object} dto.SuccessResponse "Closed allocation record"
// @Failure      400 {object} dto.ErrorResponse "Invalid record ID"
// @Failure      404 {object} dto.ErrorResponse "Record not found"
// @Failure      409 {object} dto.ErrorResponse "Scan totals do not match allocation"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/allocations/{id}/closeout [post]
func (h *AllocationsHandler) CloseAllocation(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, ok := h.recordID(c, builder)
	if !ok {
		return
	}

	record, err := h.runService.Close(c.Request.Context(), id)
	if err != nil {
		h.recordError(builder, err)
		return
	}

	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "close_allocation", "Allocation record closed", map[string]interface{}{
				"allocation_id": record.ID.Hex(),
				"reference":     record.Reference,
			})
		}
	}

	builder.SuccessOK(record)
}

// recordID parses the :id path parameter, writing a 400 on failure.
func (h *AllocationsHandler) recordID(c *gin.Context, builder *ResponseBuilder) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

// recordError maps service errors onto HTTP statuses.
func (h *AllocationsHandler) recordError(builder *ResponseBuilder, err error) {
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		builder.Error(http.StatusNotFound, dto.ErrCodeNotFound, err)
	case errors.Is(err, service.ErrInvalidScan), errors.Is(err, service.ErrScanExceedsAllocation):
		metrics.RecordScanOperation("rejected")
		builder.Error(http.StatusBadRequest, dto.ErrCodeInvalidRequest, err)
	case errors.Is(err, service.ErrScanMismatch), errors.Is(err, repository.ErrRecordClosed):
		builder.Error(http.StatusConflict, dto.ErrCodeConflict, err)
	default:
		builder.Error(http.StatusInternalServerError, dto.ErrCodeInternal, err)
	}
}

func queryInt(c *gin.Context, name string) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return 0
}
