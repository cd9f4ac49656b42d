// Package dbtest opens throwaway SQLite databases for store and HTTP tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"recipe-api/internal/core/database"
)

// Open returns a migrated database backed by a file in t.TempDir().
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// FailDeletes makes every DELETE against table fail with err from now on.
// The failure happens inside any surrounding transaction.
func FailDeletes(t testing.TB, db *gorm.DB, table string, err error) {
	t.Helper()
	name := "dbtest:fail_delete_" + table
	if regErr := db.Callback().Delete().Before("gorm:delete").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(err)
		}
	}); regErr != nil {
		t.Fatalf("register callback: %v", regErr)
	}
}
