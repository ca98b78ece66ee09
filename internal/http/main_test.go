//go:build integration

package http

import (
	"context"
	"os"
	"testing"

	"github.com/guttosm/allocation-service/internal/testutil"
)

// TestMain boots one MongoDB container shared by the package's
// integration tests; each test isolates itself with its own database.
func TestMain(m *testing.M) {
	os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
}

func getSharedContainerURI() string {
	return testutil.GetSharedContainerURI()
}

// sanitizeDBNameForHTTP makes a test name usable as a database name.
func sanitizeDBNameForHTTP(testName string) string {
	return testutil.SanitizeDBName(testName)
}
