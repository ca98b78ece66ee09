//go:build integration
// +build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// One Mongo container is shared by every test in a package; individual
// tests isolate themselves through unique database names instead of
// container-per-test.
var shared struct {
	sync.RWMutex
	once      sync.Once
	container *MongoDBContainer
	err       error
}

// GetSharedMongoDB starts the package-wide MongoDB container on first use
// and returns it. Pair with CleanupSharedMongoDB in TestMain.
func GetSharedMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	shared.once.Do(func() {
		shared.Lock()
		defer shared.Unlock()
		shared.container, shared.err = SetupMongoDB(ctx)
	})

	shared.RLock()
	defer shared.RUnlock()
	return shared.container, shared.err
}

// CleanupSharedMongoDB terminates the shared container. Call after m.Run().
func CleanupSharedMongoDB(ctx context.Context) error {
	shared.Lock()
	defer shared.Unlock()

	if shared.container == nil {
		return nil
	}
	return shared.container.Cleanup(ctx)
}

// SetupTestMainWithMongoDB starts the shared container, runs the package's
// tests, and tears the container down. Usage:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
//	}
func SetupTestMainWithMongoDB(ctx context.Context, m *testing.M) int {
	if _, err := GetSharedMongoDB(ctx); err != nil {
		panic(err)
	}

	code := m.Run()

	if err := CleanupSharedMongoDB(ctx); err != nil {
		// Docker will reap the container if this fails, so just warn.
		fmt.Fprintf(os.Stderr, "Warning: failed to cleanup shared MongoDB container: %v\n", err)
	}

	return code
}

// GetSharedContainerURI returns the shared container's connection URI.
// Panics if GetSharedMongoDB has not been called yet.
func GetSharedContainerURI() string {
	shared.RLock()
	defer shared.RUnlock()

	if shared.container == nil {
		panic("shared MongoDB container not initialized - call GetSharedMongoDB first")
	}
	return shared.container.URI
}

// SanitizeDBName turns a test name into a valid, unique MongoDB database
// name: path separators become underscores, the result is truncated to 50
// characters, and a timestamp suffix keeps parallel runs apart.
func SanitizeDBName(testName string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(testName)
	if len(name) > 50 {
		name = name[:50]
	}
	return fmt.Sprintf("%s_%d", name, time.Now().UnixNano()%1000000)
}
