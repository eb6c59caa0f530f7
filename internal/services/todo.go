package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/data/repos"
	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/modules/usercontext"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/lifelog-backend/internal/pkg/errors"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type TodoService interface {
	Update(ctx context.Context, id uuid.UUID, patch journal.TodoPatch) (*journal.Todo, error)
}

type todoService struct {
	log     *logger.Logger
	todos   repos.TodoRepo
	context *usercontext.Aggregator
}

func NewTodoService(log *logger.Logger, todos repos.TodoRepo, agg *usercontext.Aggregator) TodoService {
	return &todoService{log: log.With("service", "TodoService"), todos: todos, context: agg}
}

func (s *todoService) Update(ctx context.Context, id uuid.UUID, patch journal.TodoPatch) (*journal.Todo, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, mapErr("invalid_todo_patch", fmt.Errorf("%w: patch must set completed, priority or dueDate", pkgerrors.ErrInvalidArgument))
	}
	if patch.Priority != nil {
		p := strings.ToLower(strings.TrimSpace(*patch.Priority))
		if !journal.OneOf(p, journal.TodoPriorities) {
			return nil, mapErr("invalid_todo_patch", fmt.Errorf("%w: priority must be one of %s", pkgerrors.ErrInvalidArgument, strings.Join(journal.TodoPriorities, ", ")))
		}
		patch.Priority = &p
	}
	row, err := s.todos.UpdateOne(dbctx.Context{Ctx: ctx}, userID, id, patch)
	if err != nil {
		return nil, mapErr("update_todo_failed", err)
	}
	if row == nil {
		return nil, mapErr("todo_not_found", fmt.Errorf("%w: todo %s", pkgerrors.ErrNotFound, id))
	}
	s.context.Invalidate(ctx, userID)
	return row, nil
}
