package journal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type MediaRepo interface {
	Create(dbc dbctx.Context, row *domain.Media) error
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*domain.Media, error)
}

type mediaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMediaRepo(db *gorm.DB, baseLog *logger.Logger) MediaRepo {
	return &mediaRepo{db: db, log: baseLog.With("repo", "MediaRepo")}
}

func (r *mediaRepo) Create(dbc dbctx.Context, row *domain.Media) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = domain.DefaultMediaState
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *mediaRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*domain.Media, error) {
	var out []*domain.Media
	if userID == uuid.Nil {
		return out, nil
	}
	q := dbc.DB(r.db).Where("user_id = ? AND created_at >= ?", userID, since).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
