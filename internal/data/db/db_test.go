package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

func TestSQLiteOpenAndMigrate(t *testing.T) {
	svc, err := NewDatabaseService(logger.Nop(), Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	if err := AutoMigrateAll(svc.DB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	entry := &journal.Entry{ID: uuid.New(), UserID: uuid.New(), Content: "hello", WordCount: 1, CreatedAt: time.Now().UTC()}
	if err := svc.DB().Create(entry).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	var got journal.Entry
	if err := svc.DB().First(&got, "id = ?", entry.ID).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.Content != "hello" || got.UserID != entry.UserID {
		t.Fatalf("unexpected row %+v", got)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := NewDatabaseService(logger.Nop(), Config{Driver: "mysql"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestConfigFromEnvBuildsDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_NAME", "journal")
	cfg := ConfigFromEnv(logger.Nop())
	if cfg.DSN != "postgres://postgres:@db:5432/journal?sslmode=disable" {
		t.Fatalf("unexpected dsn %q", cfg.DSN)
	}
}
