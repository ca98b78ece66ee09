package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/allocation-service/internal/domain/model"
)

// Allocation record lifecycle states.
const (
	StatusAllocated = "allocated"
	StatusReceiving = "receiving"
	StatusClosed    = "closed"
)

// ErrRecordClosed is returned when mutating a closed allocation record.
var ErrRecordClosed = errors.New("allocation record is closed")

// AllocationRecord is a persisted allocation run for one purchase-order
// line, including the receiving (scan) state accumulated against it.
type AllocationRecord struct {
	ID            primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Reference     string                 `bson:"reference" json:"reference"`
	Buy           model.SizeVector       `bson:"buy" json:"buy"`
	Ship          model.SizeVector       `bson:"ship" json:"ship"`
	Allocation    model.AllocationMatrix `bson:"allocation" json:"allocation"`
	Totals        model.SizeVector       `bson:"totals" json:"totals"`
	Overage       model.SizeVector       `bson:"overage,omitempty" json:"overage,omitempty"`
	PackSize      int                    `bson:"pack_size" json:"pack_size"`
	PackCounts    map[string]int         `bson:"pack_counts,omitempty" json:"pack_counts,omitempty"`
	SkipLocations []string               `bson:"skip_locations,omitempty" json:"skip_locations,omitempty"`
	Scanned       model.AllocationMatrix `bson:"scanned,omitempty" json:"scanned,omitempty"`
	Status        string                 `bson:"status" json:"status"`
	CreatedAt     time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time              `bson:"updated_at" json:"updated_at"`
	CreatedBy     string                 `bson:"created_by,omitempty" json:"created_by,omitempty"`
	ClosedAt      *time.Time             `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
}

// AllocationsRepository provides methods for allocation record operations.
type AllocationsRepository struct {
	collection *mongo.Collection
}

// NewAllocationsRepository creates a new allocations repository.
func NewAllocationsRepository(db *MongoDB) *AllocationsRepository {
	return &AllocationsRepository{
		collection: db.Allocations,
	}
}

// Create stores a new allocation record.
func (r *AllocationsRepository) Create(ctx context.Context, record *AllocationRecord) (*AllocationRecord, error) {
	stored := *record
	stored.ID = primitive.NewObjectID()
	if stored.Status == "" {
		stored.Status = StatusAllocated
	}
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt

	_, err := r.collection.InsertOne(ctx, stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindByID returns the allocation record with the given id, or nil if it
// does not exist.
func (r *AllocationsRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*AllocationRecord, error) {
	var record AllocationRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns allocation records in reverse creation order, optionally
// filtered by status.
func (r *AllocationsRepository) List(ctx context.Context, status string, limit, skip int) ([]AllocationRecord, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var records []AllocationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateScanned replaces the scanned matrix on a record and moves it into
// the receiving state. Closed records are not touched.
func (r *AllocationsRepository) UpdateScanned(ctx context.Context, id primitive.ObjectID, scanned model.AllocationMatrix) (*AllocationRecord, error) {
	var updated AllocationRecord
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": StatusClosed}},
		bson.M{"$set": bson.M{
			"scanned":    scanned,
			"status":     StatusReceiving,
			"updated_at": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrRecordClosed
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Close marks a record closed. The caller is responsible for the scan-match
// gate; the status guard here only prevents double closing.
func (r *AllocationsRepository) Close(ctx context.Context, id primitive.ObjectID) (*AllocationRecord, error) {
	now := time.Now()
	var updated AllocationRecord
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": StatusClosed}},
		bson.M{"$set": bson.M{
			"status":     StatusClosed,
			"closed_at":  now,
			"updated_at": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrRecordClosed
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
