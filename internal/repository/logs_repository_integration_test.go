//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/allocation-service/internal/circuitbreaker"
)

func TestLogsRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	t.Cleanup(func() {
		require.NoError(t, db.Close(ctx))
	})

	require.NoError(t, db.SetLogsTTL(ctx, 30))

	repo := NewLogsRepository(db)

	// Seed one request log plus a small batch across levels; the query
	// subtests below read these back.
	requestLog := &LogEntryDocument{
		ID:         primitive.NewObjectID(),
		Timestamp:  time.Now(),
		Level:      "info",
		Message:    "allocation run accepted",
		RequestID:  "req-alloc-1",
		Method:     "POST",
		Path:       "/api/allocate",
		StatusCode: 200,
		Duration:   42,
		IP:         "10.0.0.7",
		UserAgent:  "pos-bridge/1.4",
	}

	t.Run("create", func(t *testing.T) {
		err := repo.Create(ctx, requestLog)
		assert.NoError(t, err)
		assert.False(t, requestLog.ID.IsZero())
	})

	t.Run("create many", func(t *testing.T) {
		batch := []*LogEntryDocument{
			{Level: "info", Message: "pack sequence resolved", RequestID: "req-alloc-2"},
			{Level: "error", Message: "buy and ship totals do not match", RequestID: "req-alloc-3"},
			{Level: "warn", Message: "profile missing, using defaults", RequestID: "req-alloc-4"},
		}
		assert.NoError(t, repo.CreateMany(ctx, batch))
	})

	t.Run("query by request id", func(t *testing.T) {
		entries, err := repo.Query(ctx, LogQueryOptions{RequestID: "req-alloc-1"})
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, "req-alloc-1", entries[0].RequestID)
	})

	t.Run("query by level", func(t *testing.T) {
		entries, err := repo.Query(ctx, LogQueryOptions{Level: "error"})
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, "error", entries[0].Level)
	})

	t.Run("count all", func(t *testing.T) {
		count, err := repo.Count(ctx, LogQueryOptions{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(4))
	})

	t.Run("count by level", func(t *testing.T) {
		count, err := repo.Count(ctx, LogQueryOptions{Level: "info"})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(1))
	})
}

func TestLogsRepositoryWithCircuitBreaker_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	t.Cleanup(func() {
		require.NoError(t, db.Close(ctx))
	})

	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	guarded := NewLogsRepositoryWithCircuitBreaker(NewLogsRepository(db), cb)

	t.Run("writes pass through a healthy breaker", func(t *testing.T) {
		err := guarded.Create(ctx, &LogEntryDocument{
			Level:   "info",
			Message: "allocation run accepted",
		})
		assert.NoError(t, err)
	})

	t.Run("breaker stays closed after success", func(t *testing.T) {
		stats := cb.GetStats()
		assert.Equal(t, "closed", stats.State)
		assert.True(t, stats.IsHealthy)
	})
}
