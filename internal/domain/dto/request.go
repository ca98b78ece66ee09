// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"github.com/guttosm/allocation-service/internal/domain/model"
)

// AllocateRequest represents the JSON request body for the allocation
// endpoint. Buy and Ship are per-size unit quantities; absent sizes are
// treated as zero. Locations are optional and default to the active
// profile's configured locations.
//
// @Description Request to distribute shipped units across locations
// @Example {"buy": {"XS": 30, "S": 30, "M": 20, "L": 10, "XL": 10}, "ship": {"XS": 30, "S": 30, "M": 20, "L": 10, "XL": 10}}
type AllocateRequest struct {
	// Reference identifies the purchase-order line being allocated.
	Reference string `json:"reference,omitempty" example:"PO-1042/3"`
	// Buy is the per-size quantity bought from the vendor.
	Buy model.SizeVector `json:"buy" binding:"required"`
	// Ship is the per-size quantity actually shipped.
	Ship model.SizeVector `json:"ship" binding:"required"`
	// Locations optionally overrides the active profile's location set.
	Locations model.LocationSet `json:"locations,omitempty"`
	// SkipLocations names stores whose share is redirected to the sink.
	SkipLocations []string `json:"skip_locations,omitempty" example:"Teaneck"`
} // @name AllocateRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrNegativeQuantity is returned when a size vector carries a negative quantity.
	ErrNegativeQuantity = &ValidationError{
		Field:   "buy/ship",
		Message: "quantities must be non-negative integers",
	}
	// ErrUnknownSize is returned when a size vector names an unknown size.
	ErrUnknownSize = &ValidationError{
		Field:   "buy/ship",
		Message: "unknown size",
	}
	// ErrInvalidLocations is returned when the location override is malformed.
	ErrInvalidLocations = &ValidationError{
		Field:   "locations",
		Message: "locations must have a non-empty name and a role of store, office, or sink",
	}
)

// Validate performs custom validation on the request.
// Returns an error if validation fails, nil otherwise.
func (r *AllocateRequest) Validate() error {
	for _, vec := range []model.SizeVector{r.Buy, r.Ship} {
		for size, qty := range vec {
			if !model.ValidSize(size) {
				return ErrUnknownSize
			}
			if qty < 0 {
				return ErrNegativeQuantity
			}
		}
	}
	for _, loc := range r.Locations {
		if loc.Name == "" || !model.ValidRole(loc.Role) {
			return ErrInvalidLocations
		}
	}
	return nil
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// UpdateProfileRequest represents the JSON request body for replacing the
// active allocation profile.
type UpdateProfileRequest struct {
	// Composition is the pack shape used when the product has no XXS.
	Composition model.SizeVector `json:"composition" binding:"required"`
	// CompositionXXS is the pack shape used when the product carries XXS.
	CompositionXXS model.SizeVector `json:"composition_xxs" binding:"required"`
	// PackSequence is the ordered location-slot ratio template.
	PackSequence []string `json:"pack_sequence" binding:"required,min=1"`
	// Locations is the configured destination set with roles.
	Locations model.LocationSet `json:"locations" binding:"required,min=1"`
	// OfficeCarve is what the office takes before store allocation.
	OfficeCarve model.SizeVector `json:"office_carve,omitempty"`
	// OfficeSource names the store the office carve-out is debited from.
	OfficeSource string `json:"office_source,omitempty"`
	// CreatedBy is the identifier of who created this configuration.
	CreatedBy string `json:"created_by,omitempty"`
} // @name UpdateProfileRequest

// Validate performs custom validation on the profile request.
func (r *UpdateProfileRequest) Validate() error {
	for _, vec := range []model.SizeVector{r.Composition, r.CompositionXXS, r.OfficeCarve} {
		for size, qty := range vec {
			if !model.ValidSize(size) {
				return ErrUnknownSize
			}
			if qty < 0 {
				return ErrNegativeQuantity
			}
		}
	}
	for _, loc := range r.Locations {
		if loc.Name == "" || !model.ValidRole(loc.Role) {
			return ErrInvalidLocations
		}
	}
	return nil
}

// ScanRequest represents the JSON request body for posting receiving scans
// against a stored allocation.
type ScanRequest struct {
	// Scans is the ordered list of cell adjustments to apply.
	Scans []ScanDeltaRequest `json:"scans" binding:"required,min=1"`
} // @name ScanRequest

// ScanDeltaRequest is one signed adjustment of one scanned cell.
type ScanDeltaRequest struct {
	// Location is the destination the units were scanned at.
	Location string `json:"location" binding:"required" example:"Teaneck"`
	// Size is the garment size scanned.
	Size model.Size `json:"size" binding:"required" example:"M"`
	// Delta is the signed quantity change; negative undoes prior scans.
	Delta int `json:"delta" binding:"required" example:"1"`
} // @name ScanDeltaRequest
