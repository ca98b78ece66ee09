// Package repository provides data access for allocation profiles.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/allocation-service/internal/domain/model"
)

// AllocationProfile is a versioned allocation configuration document: the
// pack shapes, the pack sequence, and the configured locations with roles.
type AllocationProfile struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Composition    model.SizeVector       `bson:"composition" json:"composition"`
	CompositionXXS model.SizeVector       `bson:"composition_xxs" json:"composition_xxs"`
	PackSequence   []string               `bson:"pack_sequence" json:"pack_sequence"`
	Locations      model.LocationSet      `bson:"locations" json:"locations"`
	OfficeCarve    model.SizeVector       `bson:"office_carve" json:"office_carve"`
	OfficeSource   string                 `bson:"office_source,omitempty" json:"office_source,omitempty"`
	Active         bool                   `bson:"active" json:"active"`
	Version        int                    `bson:"version" json:"version"`
	CreatedAt      time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time              `bson:"updated_at" json:"updated_at"`
	CreatedBy      string                 `bson:"created_by,omitempty" json:"created_by,omitempty"`
	Metadata       map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// ProfilesRepository provides methods for allocation profile operations.
type ProfilesRepository struct {
	collection *mongo.Collection
}

// NewProfilesRepository creates a new profiles repository.
func NewProfilesRepository(db *MongoDB) *ProfilesRepository {
	return &ProfilesRepository{
		collection: db.Profiles,
	}
}

// GetActive returns the active allocation profile.
func (r *ProfilesRepository) GetActive(ctx context.Context) (*AllocationProfile, error) {
	var profile AllocationProfile
	err := r.collection.FindOne(ctx, bson.M{"active": true}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil // No active profile found
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create deactivates any active profile and stores a new active one.
func (r *ProfilesRepository) Create(ctx context.Context, profile *AllocationProfile) (*AllocationProfile, error) {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"active": true},
		bson.M{"$set": bson.M{"active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return nil, err
	}

	stored := *profile
	stored.ID = primitive.NewObjectID()
	stored.Active = true
	stored.Version = 1
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = time.Now()
	if stored.Metadata == nil {
		stored.Metadata = make(map[string]interface{})
	}

	_, err = r.collection.InsertOne(ctx, stored)
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// Update replaces the configuration of an existing profile, bumping its
// version.
func (r *ProfilesRepository) Update(ctx context.Context, id primitive.ObjectID, profile *AllocationProfile, updatedBy string) (*AllocationProfile, error) {
	var current AllocationProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&current)
	if err != nil {
		return nil, err
	}

	setDoc := bson.M{
		"composition":     profile.Composition,
		"composition_xxs": profile.CompositionXXS,
		"pack_sequence":   profile.PackSequence,
		"locations":       profile.Locations,
		"office_carve":    profile.OfficeCarve,
		"office_source":   profile.OfficeSource,
		"updated_at":      time.Now(),
		"version":         current.Version + 1,
	}
	if updatedBy != "" {
		setDoc["updated_by"] = updatedBy
	}

	var updated AllocationProfile
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": setDoc},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// List returns profiles in reverse creation order.
func (r *ProfilesRepository) List(ctx context.Context, limit int) ([]AllocationProfile, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var profiles []AllocationProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}

	return profiles, nil
}
