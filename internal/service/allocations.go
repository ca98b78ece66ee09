package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/repository"
)

var (
	// ErrRecordNotFound is returned when an allocation record does not exist.
	ErrRecordNotFound = errors.New("allocation record not found")
	// ErrScanExceedsAllocation is returned when a scan would push a cell
	// past what was allocated to that location.
	ErrScanExceedsAllocation = errors.New("scan exceeds allocated quantity")
	// ErrScanMismatch is returned when closing a record whose scan totals do
	// not match the allocation totals.
	ErrScanMismatch = errors.New("scan totals do not match allocation")
	// ErrInvalidScan is returned for scans naming unknown locations or sizes.
	ErrInvalidScan = errors.New("invalid scan entry")
)

// ScanDelta is one receiving event: a signed adjustment of one cell of the
// scanned matrix. Decrements and undo are negative deltas.
type ScanDelta struct {
	Location string     `json:"location"`
	Size     model.Size `json:"size"`
	Delta    int        `json:"delta"`
}

// ReceivingStatus summarizes a record's scan progress against its allocation.
type ReceivingStatus struct {
	Scanned    model.AllocationMatrix `json:"scanned"`
	ScanTotals model.SizeVector       `json:"scan_totals"`
	Remaining  map[model.Size]int     `json:"remaining,omitempty"`
	Match      bool                   `json:"match"`
}

// AllocationRunService orchestrates allocation runs against the persisted
// store: run the engine with the active profile, keep the record, accumulate
// scans against it, and gate closeout on the scan-match check.
type AllocationRunService interface {
	Run(ctx context.Context, reference string, buy, ship model.SizeVector, locations model.LocationSet, opts AllocateOptions, cfg *EngineConfig, createdBy string) (*repository.AllocationRecord, error)
	Get(ctx context.Context, id primitive.ObjectID) (*repository.AllocationRecord, error)
	List(ctx context.Context, status string, limit, skip int) ([]repository.AllocationRecord, error)
	ApplyScans(ctx context.Context, id primitive.ObjectID, deltas []ScanDelta) (*repository.AllocationRecord, *ReceivingStatus, error)
	Receiving(ctx context.Context, id primitive.ObjectID) (*ReceivingStatus, error)
	Close(ctx context.Context, id primitive.ObjectID) (*repository.AllocationRecord, error)
}

// AllocationRunServiceImpl implements AllocationRunService.
type AllocationRunServiceImpl struct {
	allocator       Allocator
	allocationsRepo repository.AllocationsRepositoryInterface
}

// NewAllocationRunService creates a new allocation run service.
func NewAllocationRunService(allocator Allocator, allocationsRepo repository.AllocationsRepositoryInterface) AllocationRunService {
	return &AllocationRunServiceImpl{
		allocator:       allocator,
		allocationsRepo: allocationsRepo,
	}
}

// Run executes the engine and persists the result as a new record. A non-nil
// cfg carries the active profile's pack shapes and sequence for this run.
func (s *AllocationRunServiceImpl) Run(ctx context.Context, reference string, buy, ship model.SizeVector, locations model.LocationSet, opts AllocateOptions, cfg *EngineConfig, createdBy string) (*repository.AllocationRecord, error) {
	if s.allocationsRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}

	var result model.AllocationResult
	if cfg != nil {
		result = s.allocator.AllocateWithConfig(buy, ship, locations, opts, *cfg)
	} else {
		result = s.allocator.Allocate(buy, ship, locations, opts)
	}

	record := &repository.AllocationRecord{
		Reference:     reference,
		Buy:           buy.Sanitize(),
		Ship:          ship.Sanitize(),
		Allocation:    result.Allocation,
		Totals:        result.Totals,
		Overage:       result.Overage,
		PackSize:      result.PackSize,
		PackCounts:    result.PackCounts,
		SkipLocations: opts.SkipLocations,
		Scanned:       model.EmptyMatrix(locations.Names()),
		Status:        repository.StatusAllocated,
		CreatedBy:     createdBy,
	}

	return s.allocationsRepo.Create(ctx, record)
}

func (s *AllocationRunServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*repository.AllocationRecord, error) {
	if s.allocationsRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	record, err := s.allocationsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (s *AllocationRunServiceImpl) List(ctx context.Context, status string, limit, skip int) ([]repository.AllocationRecord, error) {
	if s.allocationsRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.allocationsRepo.List(ctx, status, limit, skip)
}

// ApplyScans folds receiving deltas into the record's scanned matrix.
// Cells are clamped at zero on decrement; an increment past the allocated
// cell is rejected so receiving can never accept more than was allocated.
func (s *AllocationRunServiceImpl) ApplyScans(ctx context.Context, id primitive.ObjectID, deltas []ScanDelta) (*repository.AllocationRecord, *ReceivingStatus, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	scanned := record.Scanned.Clone()
	if scanned == nil {
		scanned = model.EmptyMatrix(nil)
	}

	for _, d := range deltas {
		if !model.ValidSize(d.Size) {
			return nil, nil, ErrInvalidScan
		}
		if _, ok := record.Allocation[d.Location]; !ok {
			return nil, nil, ErrInvalidScan
		}

		current := scanned.Get(d.Location, d.Size)
		next := current + d.Delta
		if next < 0 {
			next = 0
		}
		if next > record.Allocation.Get(d.Location, d.Size) {
			return nil, nil, ErrScanExceedsAllocation
		}

		row, ok := scanned[d.Location]
		if !ok {
			row = make(model.SizeVector)
			scanned[d.Location] = row
		}
		row.Set(d.Size, next)
	}

	updated, err := s.allocationsRepo.UpdateScanned(ctx, id, scanned)
	if err != nil {
		return nil, nil, err
	}

	status := receivingStatus(updated)
	return updated, status, nil
}

// Receiving returns the current scan progress for a record.
func (s *AllocationRunServiceImpl) Receiving(ctx context.Context, id primitive.ObjectID) (*ReceivingStatus, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return receivingStatus(record), nil
}

// Close finalizes receiving. It refuses to close until the scanned totals
// equal the allocation totals for every size.
func (s *AllocationRunServiceImpl) Close(ctx context.Context, id primitive.ObjectID) (*repository.AllocationRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !record.Scanned.PerSizeTotals().EqualPerSize(record.Totals) {
		return nil, ErrScanMismatch
	}

	return s.allocationsRepo.Close(ctx, id)
}

func receivingStatus(record *repository.AllocationRecord) *ReceivingStatus {
	scanTotals := record.Scanned.PerSizeTotals()
	return &ReceivingStatus{
		Scanned:    record.Scanned,
		ScanTotals: scanTotals,
		Remaining:  record.Totals.DiffPerSize(scanTotals),
		Match:      scanTotals.EqualPerSize(record.Totals),
	}
}
