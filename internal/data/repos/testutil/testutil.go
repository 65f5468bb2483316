// Package testutil opens a throwaway sqlite database for repository and
// service tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/ironvale/inventory-backend/internal/data/db"
	"github.com/ironvale/inventory-backend/internal/data/repos"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// OpenDB creates a migrated sqlite database under t.TempDir. The file is
// removed with the temp dir when the test finishes.
func OpenDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)

	svc, err := db.New(filepath.Join(t.TempDir(), "inventory_test.db"), log)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	return svc.DB(), log
}

// OpenRepos is OpenDB plus the repo bundle.
func OpenRepos(t *testing.T) (*gorm.DB, *repos.Repos, *logger.Logger) {
	t.Helper()
	conn, log := OpenDB(t)
	return conn, repos.New(conn, log), log
}
