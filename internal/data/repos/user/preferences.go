package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/lifelog-backend/internal/domain/user"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type UserPreferencesRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.UserPreferences, error)
	// GetForUpdate reads the row under a row lock; callers must pass a transaction.
	GetForUpdate(dbc dbctx.Context, userID uuid.UUID) (*domain.UserPreferences, error)
	// Create inserts row unless one already exists for the user.
	Create(dbc dbctx.Context, row *domain.UserPreferences) error
	Save(dbc dbctx.Context, row *domain.UserPreferences) error
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
	ListAutoAdjustUserIDs(dbc dbctx.Context) ([]uuid.UUID, error)
}

type userPreferencesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserPreferencesRepo(db *gorm.DB, baseLog *logger.Logger) UserPreferencesRepo {
	return &userPreferencesRepo{db: db, log: baseLog.With("repo", "UserPreferencesRepo")}
}

func (r *userPreferencesRepo) find(t *gorm.DB, userID uuid.UUID) (*domain.UserPreferences, error) {
	var row domain.UserPreferences
	if err := t.Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userPreferencesRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	return r.find(dbc.DB(r.db), userID)
}

func (r *userPreferencesRepo) GetForUpdate(dbc dbctx.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	t := dbc.DB(r.db)
	if t.Dialector.Name() == "postgres" {
		t = t.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.find(t, userID)
}

func (r *userPreferencesRepo) Create(dbc dbctx.Context, row *domain.UserPreferences) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.LastUpdated.IsZero() {
		row.LastUpdated = time.Now().UTC()
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *userPreferencesRepo) Save(dbc dbctx.Context, row *domain.UserPreferences) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Save(row).Error
}

func (r *userPreferencesRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Where("user_id = ?", userID).Delete(&domain.UserPreferences{}).Error
}

func (r *userPreferencesRepo) ListAutoAdjustUserIDs(dbc dbctx.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).Model(&domain.UserPreferences{}).
		Where("auto_adjust_threshold = ?", true).
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
