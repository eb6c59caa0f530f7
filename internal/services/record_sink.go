package services

import (
	"context"

	"github.com/yungbote/lifelog-backend/internal/data/repos"
	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/modules/extraction"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
)

// repoSink persists gate output through the per-kind repos. Each record is
// its own write so one failure cannot roll back its siblings.
type repoSink struct {
	moods  repos.MoodRepo
	todos  repos.TodoRepo
	media  repos.MediaRepo
	habits repos.HabitRepo
}

func NewRecordSink(moods repos.MoodRepo, todos repos.TodoRepo, media repos.MediaRepo, habits repos.HabitRepo) extraction.Sink {
	return &repoSink{moods: moods, todos: todos, media: media, habits: habits}
}

func (s *repoSink) CreateMood(ctx context.Context, rec *journal.Mood) error {
	return s.moods.Create(dbctx.Context{Ctx: ctx}, rec)
}

func (s *repoSink) CreateTodo(ctx context.Context, rec *journal.Todo) error {
	return s.todos.Create(dbctx.Context{Ctx: ctx}, rec)
}

func (s *repoSink) CreateMedia(ctx context.Context, rec *journal.Media) error {
	return s.media.Create(dbctx.Context{Ctx: ctx}, rec)
}

func (s *repoSink) CreateHabit(ctx context.Context, rec *journal.Habit) error {
	return s.habits.Create(dbctx.Context{Ctx: ctx}, rec)
}
