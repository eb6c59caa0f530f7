package journal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type MoodRepo interface {
	Create(dbc dbctx.Context, row *domain.Mood) error
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*domain.Mood, error)
	Latest(dbc dbctx.Context, userID uuid.UUID) (*domain.Mood, error)
}

type moodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMoodRepo(db *gorm.DB, baseLog *logger.Logger) MoodRepo {
	return &moodRepo{db: db, log: baseLog.With("repo", "MoodRepo")}
}

func (r *moodRepo) Create(dbc dbctx.Context, row *domain.Mood) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.RecordedAt.IsZero() {
		row.RecordedAt = time.Now().UTC()
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *moodRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*domain.Mood, error) {
	var out []*domain.Mood
	if userID == uuid.Nil {
		return out, nil
	}
	q := dbc.DB(r.db).Where("user_id = ? AND recorded_at >= ?", userID, since).Order("recorded_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *moodRepo) Latest(dbc dbctx.Context, userID uuid.UUID) (*domain.Mood, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row domain.Mood
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Order("recorded_at DESC").Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
