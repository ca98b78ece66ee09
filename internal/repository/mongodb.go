// Package repository provides data access layer for MongoDB.
package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds MongoDB connection pool configuration.
type MongoConfig struct {
	// MaxPoolSize is the maximum number of connections in the pool.
	MaxPoolSize uint64
	// MinPoolSize is the minimum number of connections to keep in the pool.
	MinPoolSize uint64
	// MaxConnIdleTime is how long a connection can remain idle before being closed.
	MaxConnIdleTime time.Duration
	// ConnectTimeout is the timeout for establishing a connection.
	ConnectTimeout time.Duration
	// ServerSelectionTimeout is how long to wait for server selection.
	ServerSelectionTimeout time.Duration
	// SocketTimeout is the timeout for socket read/write operations.
	SocketTimeout time.Duration
	// EnableCompression enables wire protocol compression.
	EnableCompression bool
}

// DefaultMongoConfig returns production-oriented pool settings.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            50,
		MinPoolSize:            10,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		EnableCompression:      true,
	}
}

// MongoDB bundles the client with the collections the service uses.
type MongoDB struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Profiles    *mongo.Collection
	Allocations *mongo.Collection
	Logs        *mongo.Collection
	Users       *mongo.Collection
	Tokens      *mongo.Collection
}

// NewMongoDB connects with the default pool configuration.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects to MongoDB, verifies the connection with a
// ping and creates the collection indexes.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)

	if cfg.EnableCompression {
		clientOptions.SetCompressors([]string{"zstd", "snappy", "zlib"})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(databaseName)
	m := &MongoDB{
		Client:      client,
		Database:    db,
		Profiles:    db.Collection("allocation_profiles"),
		Allocations: db.Collection("allocations"),
		Logs:        db.Collection("logs"),
		Users:       db.Collection("users"),
		Tokens:      db.Collection("tokens"),
	}

	if err := m.createIndexes(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

// index is shorthand for an index model on a single collection.
func index(keys map[string]interface{}, opts *options.IndexOptions) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: opts}
}

// createIndexes sets up the lookup and uniqueness indexes. Except for the
// profiles index, failures are ignored: the index usually already exists.
func (m *MongoDB) createIndexes(ctx context.Context) error {
	if _, err := m.Profiles.Indexes().CreateOne(ctx, index(map[string]interface{}{"active": 1}, options.Index().SetUnique(false))); err != nil {
		return err
	}

	perCollection := map[*mongo.Collection][]mongo.IndexModel{
		m.Allocations: {
			index(map[string]interface{}{"status": 1}, options.Index().SetUnique(false)),
			index(map[string]interface{}{"reference": 1}, options.Index().SetUnique(false)),
		},
		// The logs TTL index is managed separately by SetLogsTTL.
		m.Logs: {
			index(map[string]interface{}{"request_id": 1}, options.Index().SetUnique(false)),
		},
		m.Users: {
			index(map[string]interface{}{"email": 1}, options.Index().SetUnique(true)),
		},
		m.Tokens: {
			index(map[string]interface{}{"token": 1}, options.Index().SetUnique(true)),
			index(map[string]interface{}{"user_id": 1, "type": 1}, options.Index().SetUnique(false)),
			// Expired tokens are removed by Mongo itself.
			index(map[string]interface{}{"expires_at": 1}, options.Index().SetExpireAfterSeconds(0)),
		},
	}

	for coll, models := range perCollection {
		for _, model := range models {
			_, _ = coll.Indexes().CreateOne(ctx, model)
		}
	}

	return nil
}

// SetLogsTTL replaces the TTL index on the logs collection so entries age
// out after ttlDays.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttlDays int) error {
	// Drop the old index first: TTL options cannot be changed in place.
	_, _ = m.Logs.Indexes().DropOne(ctx, "timestamp_1")

	ttlSeconds := int32(ttlDays * 24 * 60 * 60)
	_, err := m.Logs.Indexes().CreateOne(ctx, index(map[string]interface{}{"timestamp": 1}, options.Index().SetExpireAfterSeconds(ttlSeconds)))
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return nil
	}
	return err
}

// Close closes the MongoDB connection.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck verifies the MongoDB connection is healthy.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
