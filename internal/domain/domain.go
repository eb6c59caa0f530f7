package domain

import (
	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/domain/user"
)

type JournalEntry = journal.Entry
type Mood = journal.Mood
type Todo = journal.Todo
type TodoPatch = journal.TodoPatch
type Media = journal.Media
type Habit = journal.Habit

type ItemType = journal.ItemType
type SuggestionType = journal.SuggestionType
type MoodValue = journal.MoodValue

type UserPreferences = user.UserPreferences
type AcceptancePattern = user.AcceptancePattern
type AcceptancePatterns = user.AcceptancePatterns

// Models lists every table the service migrates.
func Models() []any {
	return []any{
		&journal.Entry{},
		&journal.Mood{},
		&journal.Todo{},
		&journal.Media{},
		&journal.Habit{},
		&user.UserPreferences{},
	}
}
