// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"

	"github.com/guttosm/allocation-service/internal/circuitbreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/allocation-service/internal/domain/model"
)

// ProfilesRepositoryWithCircuitBreaker wraps ProfilesRepository with circuit breaker protection.
type ProfilesRepositoryWithCircuitBreaker struct {
	repo           *ProfilesRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewProfilesRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewProfilesRepositoryWithCircuitBreaker(repo *ProfilesRepository, cb *circuitbreaker.CircuitBreaker) *ProfilesRepositoryWithCircuitBreaker {
	return &ProfilesRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// GetActive returns the active allocation profile with circuit breaker protection.
func (r *ProfilesRepositoryWithCircuitBreaker) GetActive(ctx context.Context) (*AllocationProfile, error) {
	var result *AllocationProfile
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.GetActive(ctx)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		// Circuit is open - return nil to use the built-in defaults
		return nil, nil
	}
	return result, err
}

// Create stores a new allocation profile version with circuit breaker protection.
func (r *ProfilesRepositoryWithCircuitBreaker) Create(ctx context.Context, profile *AllocationProfile) (*AllocationProfile, error) {
	var result *AllocationProfile
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Create(ctx, profile)
		return cbErr
	})
	return result, err
}

// Update updates an existing allocation profile with circuit breaker protection.
func (r *ProfilesRepositoryWithCircuitBreaker) Update(ctx context.Context, id primitive.ObjectID, profile *AllocationProfile, updatedBy string) (*AllocationProfile, error) {
	var result *AllocationProfile
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Update(ctx, id, profile, updatedBy)
		return cbErr
	})
	return result, err
}

// List returns stored allocation profiles with circuit breaker protection.
func (r *ProfilesRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]AllocationProfile, error) {
	var result []AllocationProfile
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx, limit)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *ProfilesRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// AllocationsRepositoryWithCircuitBreaker wraps AllocationsRepository with circuit breaker protection.
type AllocationsRepositoryWithCircuitBreaker struct {
	repo           *AllocationsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewAllocationsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewAllocationsRepositoryWithCircuitBreaker(repo *AllocationsRepository, cb *circuitbreaker.CircuitBreaker) *AllocationsRepositoryWithCircuitBreaker {
	return &AllocationsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a new allocation record with circuit breaker protection.
func (r *AllocationsRepositoryWithCircuitBreaker) Create(ctx context.Context, record *AllocationRecord) (*AllocationRecord, error) {
	var result *AllocationRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Create(ctx, record)
		return cbErr
	})
	return result, err
}

// FindByID retrieves an allocation record with circuit breaker protection.
func (r *AllocationsRepositoryWithCircuitBreaker) FindByID(ctx context.Context, id primitive.ObjectID) (*AllocationRecord, error) {
	var result *AllocationRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.FindByID(ctx, id)
		return cbErr
	})
	return result, err
}

// List retrieves allocation records with circuit breaker protection.
func (r *AllocationsRepositoryWithCircuitBreaker) List(ctx context.Context, status string, limit, skip int) ([]AllocationRecord, error) {
	var result []AllocationRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx, status, limit, skip)
		return cbErr
	})
	return result, err
}

// UpdateScanned replaces a record's scanned matrix with circuit breaker protection.
func (r *AllocationsRepositoryWithCircuitBreaker) UpdateScanned(ctx context.Context, id primitive.ObjectID, scanned model.AllocationMatrix) (*AllocationRecord, error) {
	var result *AllocationRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.UpdateScanned(ctx, id, scanned)
		return cbErr
	})
	return result, err
}

// Close marks an allocation record closed with circuit breaker protection.
func (r *AllocationsRepositoryWithCircuitBreaker) Close(ctx context.Context, id primitive.ObjectID) (*AllocationRecord, error) {
	var result *AllocationRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Close(ctx, id)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *AllocationsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker wraps LogsRepository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           *LogsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo *LogsRepository, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log entry with circuit breaker protection.
// If circuit is open, silently fails (logging is non-critical).
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		// Circuit is open - silently fail (logging is non-critical)
		return nil
	}
	return err
}

// CreateMany stores multiple log entries with circuit breaker protection.
// If circuit is open, silently fails (logging is non-critical).
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		// Circuit is open - silently fail (logging is non-critical)
		return nil
	}
	return err
}

// Query retrieves log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	var result []*LogEntryDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Query(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count returns the count of log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
