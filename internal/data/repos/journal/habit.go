package journal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type HabitRepo interface {
	Create(dbc dbctx.Context, row *domain.Habit) error
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*domain.Habit, error)
}

type habitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHabitRepo(db *gorm.DB, baseLog *logger.Logger) HabitRepo {
	return &habitRepo{db: db, log: baseLog.With("repo", "HabitRepo")}
}

func (r *habitRepo) Create(dbc dbctx.Context, row *domain.Habit) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Frequency == "" {
		row.Frequency = domain.DefaultFrequency
	}
	if row.LoggedOn.IsZero() {
		row.LoggedOn = time.Now().UTC()
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *habitRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*domain.Habit, error) {
	var out []*domain.Habit
	if userID == uuid.Nil {
		return out, nil
	}
	q := dbc.DB(r.db).Where("user_id = ? AND logged_on >= ?", userID, since).Order("logged_on DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
