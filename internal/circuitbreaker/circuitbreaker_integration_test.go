//go:build integration

package circuitbreaker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/allocation-service/internal/circuitbreaker"
	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/repository"
	"github.com/guttosm/allocation-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breaker(name string, failures int, timeout time.Duration) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: failures,
		SuccessThreshold: 1,
		Timeout:          timeout,
		Name:             name,
	})
}

func TestCircuitBreakerWithMongoDB_Integration(t *testing.T) {
	ctx := context.Background()

	mongoContainer, err := testutil.SetupMongoDB(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, mongoContainer.Cleanup(ctx))
	}()

	openDB := func(t *testing.T) *repository.MongoDB {
		t.Helper()
		db, err := repository.NewMongoDB(mongoContainer.URI, "test_allocation_service")
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close(ctx) })
		return db
	}

	t.Run("profiles repository behind a healthy breaker", func(t *testing.T) {
		db := openDB(t)
		cb := breaker("test-profiles", 2, 100*time.Millisecond)
		profiles := repository.NewProfilesRepositoryWithCircuitBreaker(repository.NewProfilesRepository(db), cb)

		_, err := profiles.Create(ctx, &repository.AllocationProfile{
			Composition:  model.SizeVector{"M": 2},
			PackSequence: []string{"Cedarhurst"},
			CreatedBy:    "planner",
		})
		require.NoError(t, err)

		active, err := profiles.GetActive(ctx)
		require.NoError(t, err)
		assert.NotNil(t, active)

		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
		assert.True(t, cb.GetStats().IsHealthy)
	})

	t.Run("logs repository behind a healthy breaker", func(t *testing.T) {
		db := openDB(t)
		cb := breaker("test-logs", 2, 100*time.Millisecond)
		logs := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), cb)

		err := logs.Create(ctx, &repository.LogEntryDocument{
			Level:   "info",
			Message: "allocation run accepted",
		})
		assert.NoError(t, err)

		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
		assert.True(t, cb.GetStats().IsHealthy)
	})

	t.Run("repeated failures open the breaker", func(t *testing.T) {
		cb := breaker("test-failures", 2, 100*time.Millisecond)

		boom := errors.New("mongo write failed")
		for i := 0; i < 2; i++ {
			assert.Error(t, cb.Execute(ctx, func() error { return boom }))
		}

		assert.Equal(t, circuitbreaker.StateOpen, cb.State())
		assert.True(t, cb.IsOpen())

		// The wrapped call is skipped entirely while open.
		err := cb.Execute(ctx, func() error { return nil })
		assert.Equal(t, circuitbreaker.ErrCircuitOpen, err)
	})

	t.Run("breaker closes again after the timeout", func(t *testing.T) {
		cb := breaker("test-recovery", 1, 50*time.Millisecond)

		_ = cb.Execute(ctx, func() error { return errors.New("mongo write failed") })
		assert.Equal(t, circuitbreaker.StateOpen, cb.State())

		time.Sleep(60 * time.Millisecond)

		// First call after the timeout probes in half-open; success closes it.
		assert.NoError(t, cb.Execute(ctx, func() error { return nil }))
		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	})
}
