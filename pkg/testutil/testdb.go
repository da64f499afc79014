package testutil

import (
	"fmt"
	"testing"

	"github.com/arnavshah/planner-api-go/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewTestDB creates a private in-memory SQLite database with the schema
// migrated. The database is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.InitDB("", dsn)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
