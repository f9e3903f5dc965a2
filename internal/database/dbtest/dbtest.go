// Package dbtest opens throwaway SQLite databases for tests. Only _test.go
// files import it, so the sqlite driver stays out of the server binary.
package dbtest

import (
	"testing"

	"calmspot/internal/database"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens a private in-memory SQLite database with the schema migrated
// and reference data seeded. No admin account is created.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// Keep one connection so the shared in-memory database outlives idle closes.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(db, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}
