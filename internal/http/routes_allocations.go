package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/allocation-service/internal/service"
)

// AllocationRoutes handles allocation-related route registration.
type AllocationRoutes struct {
	handler            *Handler
	profileHandler     *ProfileHandler
	allocationsHandler *AllocationsHandler
}

// NewAllocationRoutes creates a new AllocationRoutes instance.
func NewAllocationRoutes(allocator service.Allocator, profileService service.ProfileService, runService service.AllocationRunService) *AllocationRoutes {
	handler := NewHandler(allocator, profileService)

	var profileHandler *ProfileHandler
	var allocationsHandler *AllocationsHandler
	if profileService != nil {
		profileHandler = NewProfileHandler(profileService, allocator, func() {
			handler.InvalidateProfileCache()
		})
	}
	if runService != nil {
		allocationsHandler = NewAllocationsHandler(runService, profileService)
		if profileHandler != nil {
			// Chain both profile caches onto one update hook.
			inner := profileHandler.onUpdate
			profileHandler.onUpdate = func() {
				inner()
				allocationsHandler.InvalidateProfileCache()
			}
		}
	}

	return &AllocationRoutes{
		handler:            handler,
		profileHandler:     profileHandler,
		allocationsHandler: allocationsHandler,
	}
}

// Register registers allocation routes on the given group. The same set is
// used for public and JWT-protected deployments; the group carries the auth
// middleware when enabled.
func (r *AllocationRoutes) Register(rg *gin.RouterGroup) {
	rg.POST("/allocate", r.handler.Allocate)

	if r.profileHandler != nil {
		rg.GET("/profile", r.profileHandler.GetActiveProfile)
		rg.PUT("/profile", r.profileHandler.UpdateProfile)
		rg.GET("/profile/history", r.profileHandler.ListProfiles)
	}

	if r.allocationsHandler != nil {
		rg.POST("/allocations", r.allocationsHandler.CreateAllocation)
		rg.GET("/allocations", r.allocationsHandler.ListAllocations)
		rg.GET("/allocations/:id", r.allocationsHandler.GetAllocation)
		rg.POST("/allocations/:id/scans", r.allocationsHandler.ApplyScans)
		rg.GET("/allocations/:id/scans", r.allocationsHandler.GetReceiving)
		rg.POST("/allocations/:id/closeout", r.allocationsHandler.CloseAllocation)
	}
}

// GetHandler returns the underlying allocation handler.
func (r *AllocationRoutes) GetHandler() *Handler {
	return r.handler
}
