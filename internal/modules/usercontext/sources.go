package usercontext

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/data/repos"
	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
)

// Sources are the read-only collaborators the aggregator fans out to.
type Sources interface {
	Moods(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*journal.Mood, error)
	LatestMood(ctx context.Context, userID uuid.UUID) (*journal.Mood, error)
	OpenTodos(ctx context.Context, userID uuid.UUID, limit int) ([]*journal.Todo, error)
	CountOpenTodos(ctx context.Context, userID uuid.UUID) (int64, error)
	Media(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*journal.Media, error)
	Habits(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*journal.Habit, error)
	Journals(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*journal.Entry, error)
	Filters(ctx context.Context, userID uuid.UUID) (preferences.Filters, error)
}

type repoSources struct {
	entries repos.JournalEntryRepo
	moods   repos.MoodRepo
	todos   repos.TodoRepo
	media   repos.MediaRepo
	habits  repos.HabitRepo
	prefs   *preferences.Engine
}

func NewRepoSources(
	entries repos.JournalEntryRepo,
	moods repos.MoodRepo,
	todos repos.TodoRepo,
	media repos.MediaRepo,
	habits repos.HabitRepo,
	prefs *preferences.Engine,
) Sources {
	return &repoSources{entries: entries, moods: moods, todos: todos, media: media, habits: habits, prefs: prefs}
}

func (s *repoSources) Moods(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*journal.Mood, error) {
	return s.moods.ListSince(dbctx.Context{Ctx: ctx}, userID, since, limit)
}

func (s *repoSources) LatestMood(ctx context.Context, userID uuid.UUID) (*journal.Mood, error) {
	return s.moods.Latest(dbctx.Context{Ctx: ctx}, userID)
}

func (s *repoSources) OpenTodos(ctx context.Context, userID uuid.UUID, limit int) ([]*journal.Todo, error) {
	return s.todos.ListOpen(dbctx.Context{Ctx: ctx}, userID, limit)
}

func (s *repoSources) CountOpenTodos(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.todos.CountOpen(dbctx.Context{Ctx: ctx}, userID)
}

func (s *repoSources) Media(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*journal.Media, error) {
	return s.media.ListSince(dbctx.Context{Ctx: ctx}, userID, since, limit)
}

func (s *repoSources) Habits(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*journal.Habit, error) {
	return s.habits.ListSince(dbctx.Context{Ctx: ctx}, userID, since, limit)
}

func (s *repoSources) Journals(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*journal.Entry, error) {
	return s.entries.ListSince(dbctx.Context{Ctx: ctx}, userID, since, limit)
}

func (s *repoSources) Filters(ctx context.Context, userID uuid.UUID) (preferences.Filters, error) {
	return s.prefs.GetFilters(ctx, userID)
}
