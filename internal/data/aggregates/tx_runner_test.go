package aggregates

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
)

type txRow struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func openTxDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tx.db")), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&txRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGormTxRunnerCommitsAndRollsBack(t *testing.T) {
	db := openTxDB(t)
	runner := NewGormTxRunner(db)
	ctx := context.Background()

	err := runner.InTx(ctx, func(dbc dbctx.Context) error {
		if dbc.Tx == nil {
			t.Fatalf("expected a transaction handle")
		}
		return dbc.Tx.Create(&txRow{ID: 1, Name: "kept"}).Error
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	boom := errors.New("boom")
	err = runner.InTx(ctx, func(dbc dbctx.Context) error {
		if err := dbc.Tx.Create(&txRow{ID: 2, Name: "dropped"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected body error, got %v", err)
	}

	var n int64
	if err := db.Model(&txRow{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only the committed row, got %d", n)
	}
}

func TestGormTxRunnerNilDB(t *testing.T) {
	err := NewGormTxRunner(nil).InTx(context.Background(), func(dbctx.Context) error { return nil })
	if !errors.Is(err, errNilDB) {
		t.Fatalf("expected nil db error, got %v", err)
	}
}
