package journal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type TodoRepo interface {
	Create(dbc dbctx.Context, row *domain.Todo) error
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*domain.Todo, error)
	// ListOpen returns incomplete todos, soonest due first, undated last.
	ListOpen(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*domain.Todo, error)
	CountOpen(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	// UpdateOne applies patch and returns the updated row, or nil when it does not exist.
	UpdateOne(dbc dbctx.Context, userID, id uuid.UUID, patch domain.TodoPatch) (*domain.Todo, error)
}

type todoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTodoRepo(db *gorm.DB, baseLog *logger.Logger) TodoRepo {
	return &todoRepo{db: db, log: baseLog.With("repo", "TodoRepo")}
}

func (r *todoRepo) Create(dbc dbctx.Context, row *domain.Todo) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Priority == "" {
		row.Priority = domain.DefaultPriority
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *todoRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*domain.Todo, error) {
	var out []*domain.Todo
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

func (r *todoRepo) ListOpen(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*domain.Todo, error) {
	var out []*domain.Todo
	if userID == uuid.Nil {
		return out, nil
	}
	q := dbc.DB(r.db).
		Where("user_id = ? AND completed = ?", userID, false).
		Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END").
		Order("due_date ASC").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *todoRepo) CountOpen(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if userID == uuid.Nil {
		return 0, nil
	}
	err := dbc.DB(r.db).Model(&domain.Todo{}).Where("user_id = ? AND completed = ?", userID, false).Count(&n).Error
	return n, err
}

func (r *todoRepo) UpdateOne(dbc dbctx.Context, userID, id uuid.UUID, patch domain.TodoPatch) (*domain.Todo, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	now := time.Now().UTC()
	updates := map[string]interface{}{"updated_at": now}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
		if *patch.Completed {
			updates["completed_at"] = now
		} else {
			updates["completed_at"] = nil
		}
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}

	t := dbc.DB(r.db)
	res := t.Model(&domain.Todo{}).Where("user_id = ? AND id = ?", userID, id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	var row domain.Todo
	if err := t.Where("user_id = ? AND id = ?", userID, id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
