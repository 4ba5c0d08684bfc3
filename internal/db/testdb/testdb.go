// Package testdb opens throwaway SQLite databases for tests.
package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"teamdesk/internal/db"
	"teamdesk/internal/model"
)

// New returns an in-memory database with every model migrated.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(sqlite.Open(":memory:"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := gdb.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// Connector returns New wrapped as a db.Connector.
func Connector(t testing.TB) *db.Static {
	t.Helper()
	return db.NewStatic(New(t))
}
