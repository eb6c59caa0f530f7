package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
)

func SeedJournalEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, content string, at time.Time) *journal.Entry {
	tb.Helper()
	e := &journal.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		WordCount: len(content),
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed journal entry: %v", err)
	}
	return e
}

func SeedTodo(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string, due *time.Time) *journal.Todo {
	tb.Helper()
	t := &journal.Todo{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Priority: journal.DefaultPriority,
		DueDate:  due,
		Source:   journal.SourceManual,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed todo: %v", err)
	}
	return t
}
