package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lifelog-backend/internal/data/repos"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type Repos struct {
	JournalEntry    repos.JournalEntryRepo
	Mood            repos.MoodRepo
	Todo            repos.TodoRepo
	Media           repos.MediaRepo
	Habit           repos.HabitRepo
	UserPreferences repos.UserPreferencesRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		JournalEntry:    repos.NewJournalEntryRepo(db, log),
		Mood:            repos.NewMoodRepo(db, log),
		Todo:            repos.NewTodoRepo(db, log),
		Media:           repos.NewMediaRepo(db, log),
		Habit:           repos.NewHabitRepo(db, log),
		UserPreferences: repos.NewUserPreferencesRepo(db, log),
	}
}
