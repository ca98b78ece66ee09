//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/allocation-service/internal/circuitbreaker"
	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/repository"
	"github.com/guttosm/allocation-service/internal/testutil"
)

// loggingMongo spins up a container-backed MongoDB and tears it down with
// the test.
func loggingMongo(t *testing.T, ctx context.Context) *repository.MongoDB {
	t.Helper()

	container, err := testutil.SetupMongoDB(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Cleanup(ctx))
	})

	db, err := repository.NewMongoDB(container.URI, "test_allocation_service")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close(ctx)
	})
	return db
}

func TestLoggingService_Integration(t *testing.T) {
	ctx := context.Background()
	db := loggingMongo(t, ctx)

	require.NoError(t, db.SetLogsTTL(ctx, 30))

	svc := NewLoggingService(repository.NewLogsRepository(db))

	t.Run("create single log", func(t *testing.T) {
		entry := &model.LogEntry{
			Level:     "info",
			Message:   "allocation run accepted",
			RequestID: "req-alloc-1",
			Method:    "POST",
			Path:      "/api/allocate",
		}

		err := svc.CreateLog(ctx, entry)
		assert.NoError(t, err)
		assert.False(t, entry.ID.IsZero())
	})

	t.Run("create batch", func(t *testing.T) {
		entries := []*model.LogEntry{
			{Level: "info", Message: "pack sequence resolved", RequestID: "req-alloc-2"},
			{Level: "error", Message: "buy and ship totals do not match", RequestID: "req-alloc-3"},
		}

		assert.NoError(t, svc.CreateLogs(ctx, entries))
	})

	t.Run("query by request id", func(t *testing.T) {
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{RequestID: "req-alloc-1"})
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, "req-alloc-1", entries[0].RequestID)
	})

	t.Run("query by level", func(t *testing.T) {
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{Level: "error"})
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, "error", entries[0].Level)
	})

	t.Run("count all", func(t *testing.T) {
		count, err := svc.CountLogs(ctx, model.LogQueryOptions{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(3))
	})

	t.Run("count by level", func(t *testing.T) {
		count, err := svc.CountLogs(ctx, model.LogQueryOptions{Level: "info"})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(2))
	})

	t.Run("query inside a time window", func(t *testing.T) {
		start := time.Now().Add(-time.Hour)
		end := time.Now().Add(time.Hour)

		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{
			StartTime: &start,
			EndTime:   &end,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, entries)
	})
}

func TestLoggingServiceWithCircuitBreaker_Integration(t *testing.T) {
	ctx := context.Background()
	db := loggingMongo(t, ctx)

	guarded := repository.NewLogsRepositoryWithCircuitBreaker(
		repository.NewLogsRepository(db),
		circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: 2,
			SuccessThreshold: 1,
			Timeout:          100 * time.Millisecond,
			Name:             "test-logs",
		}),
	)
	svc := NewLoggingService(guarded)

	err := svc.CreateLog(ctx, &model.LogEntry{
		Level:   "info",
		Message: "allocation run accepted",
	})
	assert.NoError(t, err)
}
