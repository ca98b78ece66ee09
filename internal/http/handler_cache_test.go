package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/allocation-service/internal/repository"
)

func testProfile(version int) *repository.AllocationProfile {
	return &repository.AllocationProfile{
		Version:      version,
		PackSequence: []string{"Cedarhurst", "Lakewood"},
		Active:       true,
	}
}

func TestProfileCache_NewProfileCache(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{
			name: "create cache with 30s TTL",
			ttl:  30 * time.Second,
		},
		{
			name: "create cache with 1 minute TTL",
			ttl:  time.Minute,
		},
		{
			name: "create cache with zero TTL",
			ttl:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newProfileCache(tt.ttl)

			assert.NotNil(t, cache)
			assert.Equal(t, tt.ttl, cache.ttl)

			// Should return nil initially
			assert.Nil(t, cache.get())
		})
	}
}

func TestProfileCache_SetAndGet(t *testing.T) {
	tests := []struct {
		name     string
		ttl      time.Duration
		profile  *repository.AllocationProfile
		wantGet  bool
		waitTime time.Duration
	}{
		{
			name:    "set and get immediately",
			ttl:     time.Second,
			profile: testProfile(1),
			wantGet: true,
		},
		{
			name:     "get after expiration",
			ttl:      50 * time.Millisecond,
			profile:  testProfile(2),
			wantGet:  false,
			waitTime: 100 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newProfileCache(tt.ttl)

			cache.set(tt.profile)

			if tt.waitTime > 0 {
				time.Sleep(tt.waitTime)
			}

			result := cache.get()

			if tt.wantGet {
				assert.Equal(t, tt.profile, result)
			} else {
				assert.Nil(t, result)
			}
		})
	}
}

func TestProfileCache_Invalidate(t *testing.T) {
	cache := newProfileCache(time.Minute)

	profile := testProfile(1)
	cache.set(profile)

	// Should be cached
	assert.Equal(t, profile, cache.get())

	// Invalidate
	cache.invalidate()

	// Should be nil now
	assert.Nil(t, cache.get())
}

func TestProfileCache_SetDoesNotOverwriteValid(t *testing.T) {
	cache := newProfileCache(time.Minute)

	// Set first profile
	first := testProfile(1)
	cache.set(first)

	// Try to set a different profile (should not overwrite since cache is still valid)
	second := testProfile(2)
	cache.set(second)

	// Should still have the first profile
	result := cache.get()
	assert.Equal(t, first, result)
}

func TestProfileCache_SetAfterExpiration(t *testing.T) {
	cache := newProfileCache(50 * time.Millisecond)

	// Set first profile
	first := testProfile(1)
	cache.set(first)

	// Wait for expiration
	time.Sleep(100 * time.Millisecond)

	// Set new profile
	second := testProfile(2)
	cache.set(second)

	// Should have the second profile
	result := cache.get()
	assert.Equal(t, second, result)
}

func TestWithProfileCacheTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{
			name: "1 minute TTL",
			ttl:  time.Minute,
		},
		{
			name: "5 seconds TTL",
			ttl:  5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(nil, nil, WithProfileCacheTTL(tt.ttl))

			assert.NotNil(t, handler)
			assert.NotNil(t, handler.profileCache)
			assert.Equal(t, tt.ttl, handler.profileCache.ttl)
		})
	}
}

func TestHandler_InvalidateProfileCache(t *testing.T) {
	handler := NewHandler(nil, nil)

	// Set a profile in cache
	handler.profileCache.set(testProfile(1))

	// Verify cache is set
	assert.NotNil(t, handler.profileCache.get())

	// Invalidate
	handler.InvalidateProfileCache()

	// Verify cache is cleared
	assert.Nil(t, handler.profileCache.get())
}

func TestProfileCache_ConcurrentAccess(t *testing.T) {
	cache := newProfileCache(time.Minute)
	done := make(chan bool)

	// Concurrent sets
	go func() {
		for i := 0; i < 100; i++ {
			cache.set(testProfile(i))
		}
		done <- true
	}()

	// Concurrent gets
	go func() {
		for i := 0; i < 100; i++ {
			cache.get()
		}
		done <- true
	}()

	// Concurrent invalidates
	go func() {
		for i := 0; i < 100; i++ {
			cache.invalidate()
		}
		done <- true
	}()

	// Wait for all goroutines
	for i := 0; i < 3; i++ {
		<-done
	}

	// Should not panic - just verify it completes
	assert.True(t, true)
}
