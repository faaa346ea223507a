// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"garrison/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// OpenDB opens an empty sqlite database in a per-test temporary directory.
// The schema is not created.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.Database.URL = "sqlite:///" + filepath.Join(t.TempDir(), "test.db")
	db, err := cfg.OpenGormDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
