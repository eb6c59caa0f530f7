package journal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type JournalEntryRepo interface {
	Create(dbc dbctx.Context, row *domain.Entry) error
	GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*domain.Entry, error)
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*domain.Entry, error)
	MarkExtracted(dbc dbctx.Context, userID, id uuid.UUID, at time.Time, confidence *float64) error
}

type journalEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJournalEntryRepo(db *gorm.DB, baseLog *logger.Logger) JournalEntryRepo {
	return &journalEntryRepo{db: db, log: baseLog.With("repo", "JournalEntryRepo")}
}

func (r *journalEntryRepo) Create(dbc dbctx.Context, row *domain.Entry) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(row).Error
}

// GetByID returns nil, nil when the entry is missing or belongs to someone else.
func (r *journalEntryRepo) GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*domain.Entry, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row domain.Entry
	if err := dbc.DB(r.db).Where("user_id = ? AND id = ?", userID, id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *journalEntryRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*domain.Entry, error) {
	var out []*domain.Entry
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

func (r *journalEntryRepo) MarkExtracted(dbc dbctx.Context, userID, id uuid.UUID, at time.Time, confidence *float64) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Model(&domain.Entry{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(map[string]interface{}{
			"extracted_at":          at,
			"extraction_confidence": confidence,
			"updated_at":            time.Now().UTC(),
		}).Error
}
