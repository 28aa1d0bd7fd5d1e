// Package testing provides test helpers shared across qrep packages.
package testing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/aristath/qrep/internal/database"
)

// NewTestDB creates a migrated SQLite database in the test's temporary
// directory and closes it when the test finishes.
//
// The "cache" name gets the cache profile and the representations schema.
// Any other name gets the standard profile and no schema.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	profile := database.ProfileStandard
	if name == "cache" {
		profile = database.ProfileCache
	}

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), fmt.Sprintf("%s.db", name)),
		Profile: profile,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}
	return db
}
