package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/data/repos"
	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/modules/usercontext"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/lifelog-backend/internal/pkg/errors"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

const maxJournalChars = 20000

type JournalService interface {
	Create(ctx context.Context, content string) (*journal.Entry, error)
	List(ctx context.Context, days int) ([]*journal.Entry, error)
	Get(ctx context.Context, id uuid.UUID) (*journal.Entry, error)
}

type journalService struct {
	log     *logger.Logger
	entries repos.JournalEntryRepo
	context *usercontext.Aggregator
	limit   int
}

func NewJournalService(log *logger.Logger, entries repos.JournalEntryRepo, agg *usercontext.Aggregator, listLimit int) JournalService {
	if listLimit <= 0 {
		listLimit = 50
	}
	return &journalService{
		log:     log.With("service", "JournalService"),
		entries: entries,
		context: agg,
		limit:   listLimit,
	}
}

func (s *journalService) Create(ctx context.Context, content string) (*journal.Entry, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, mapErr("invalid_journal", fmt.Errorf("%w: content is required", pkgerrors.ErrInvalidArgument))
	}
	if n := len([]rune(content)); n > maxJournalChars {
		return nil, mapErr("invalid_journal", fmt.Errorf("%w: content exceeds %d characters", pkgerrors.ErrInvalidArgument, maxJournalChars))
	}
	now := time.Now().UTC()
	entry := &journal.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   content,
		WordCount: len(strings.Fields(content)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.entries.Create(dbctx.Context{Ctx: ctx}, entry); err != nil {
		s.log.Error("create journal entry failed", "user_id", userID.String(), "error", err)
		return nil, mapErr("create_journal_failed", err)
	}
	s.context.Invalidate(ctx, userID)
	return entry, nil
}

func (s *journalService) List(ctx context.Context, days int) ([]*journal.Entry, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	days = s.context.ClampDays(days)
	since := time.Now().UTC().AddDate(0, 0, -days)
	out, err := s.entries.ListSince(dbctx.Context{Ctx: ctx}, userID, since, s.limit)
	if err != nil {
		return nil, mapErr("list_journal_failed", err)
	}
	return out, nil
}

// Get returns the caller's entry; someone else's id is indistinguishable from a missing one.
func (s *journalService) Get(ctx context.Context, id uuid.UUID) (*journal.Entry, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := s.entries.GetByID(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return nil, mapErr("load_journal_failed", err)
	}
	if entry == nil {
		return nil, mapErr("journal_not_found", fmt.Errorf("%w: journal %s", pkgerrors.ErrNotFound, id))
	}
	return entry, nil
}
