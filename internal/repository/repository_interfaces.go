// Package repository provides interfaces for repository operations.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/allocation-service/internal/domain/model"
)

// ProfilesRepositoryInterface defines the interface for allocation profile
// repository operations.
type ProfilesRepositoryInterface interface {
	GetActive(ctx context.Context) (*AllocationProfile, error)
	Create(ctx context.Context, profile *AllocationProfile) (*AllocationProfile, error)
	Update(ctx context.Context, id primitive.ObjectID, profile *AllocationProfile, updatedBy string) (*AllocationProfile, error)
	List(ctx context.Context, limit int) ([]AllocationProfile, error)
}

// AllocationsRepositoryInterface defines the interface for allocation record
// repository operations.
type AllocationsRepositoryInterface interface {
	Create(ctx context.Context, record *AllocationRecord) (*AllocationRecord, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*AllocationRecord, error)
	List(ctx context.Context, status string, limit, skip int) ([]AllocationRecord, error)
	UpdateScanned(ctx context.Context, id primitive.ObjectID, scanned model.AllocationMatrix) (*AllocationRecord, error)
	Close(ctx context.Context, id primitive.ObjectID) (*AllocationRecord, error)
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}
