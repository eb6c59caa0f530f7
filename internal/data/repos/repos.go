package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/lifelog-backend/internal/data/repos/journal"
	"github.com/yungbote/lifelog-backend/internal/data/repos/user"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type JournalEntryRepo = journal.JournalEntryRepo
type MoodRepo = journal.MoodRepo
type TodoRepo = journal.TodoRepo
type MediaRepo = journal.MediaRepo
type HabitRepo = journal.HabitRepo

type UserPreferencesRepo = user.UserPreferencesRepo

func NewJournalEntryRepo(db *gorm.DB, baseLog *logger.Logger) JournalEntryRepo {
	return journal.NewJournalEntryRepo(db, baseLog)
}
func NewMoodRepo(db *gorm.DB, baseLog *logger.Logger) MoodRepo { return journal.NewMoodRepo(db, baseLog) }
func NewTodoRepo(db *gorm.DB, baseLog *logger.Logger) TodoRepo { return journal.NewTodoRepo(db, baseLog) }
func NewMediaRepo(db *gorm.DB, baseLog *logger.Logger) MediaRepo {
	return journal.NewMediaRepo(db, baseLog)
}
func NewHabitRepo(db *gorm.DB, baseLog *logger.Logger) HabitRepo {
	return journal.NewHabitRepo(db, baseLog)
}

func NewUserPreferencesRepo(db *gorm.DB, baseLog *logger.Logger) UserPreferencesRepo {
	return user.NewUserPreferencesRepo(db, baseLog)
}
