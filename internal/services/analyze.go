package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/data/repos"
	"github.com/yungbote/lifelog-backend/internal/modules/extraction"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/modules/usercontext"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/lifelog-backend/internal/pkg/errors"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

var errNoProvider = errors.New("no extraction provider configured")

// AnalyzeResult is an uncommitted extraction. The client reviews it and posts
// what it keeps to /journal/actions.
type AnalyzeResult struct {
	JournalID  uuid.UUID                `json:"journalId"`
	Raw        extraction.RawExtraction `json:"raw"`
	Preview    extraction.BatchOutcome  `json:"preview"`
	Filters    preferences.Filters      `json:"filters"`
	ContextDays int                     `json:"contextDays"`
}

type AnalyzeService interface {
	Analyze(ctx context.Context, journalID uuid.UUID) (*AnalyzeResult, error)
}

type analyzeService struct {
	log       *logger.Logger
	entries   repos.JournalEntryRepo
	prefs     *preferences.Engine
	context   *usercontext.Aggregator
	validator *extraction.Validator
	provider  extraction.Provider
}

// NewAnalyzeService accepts a nil provider; Analyze then answers 503.
func NewAnalyzeService(
	log *logger.Logger,
	entries repos.JournalEntryRepo,
	prefs *preferences.Engine,
	agg *usercontext.Aggregator,
	validator *extraction.Validator,
	provider extraction.Provider,
) AnalyzeService {
	return &analyzeService{
		log:       log.With("service", "AnalyzeService"),
		entries:   entries,
		prefs:     prefs,
		context:   agg,
		validator: validator,
		provider:  provider,
	}
}

func (s *analyzeService) Analyze(ctx context.Context, journalID uuid.UUID) (*AnalyzeResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, mapErr("extraction_unavailable", fmt.Errorf("%w: %v", pkgerrors.ErrUnavailable, errNoProvider))
	}
	entry, err := s.entries.GetByID(dbctx.Context{Ctx: ctx}, userID, journalID)
	if err != nil {
		return nil, mapErr("load_journal_failed", err)
	}
	if entry == nil {
		return nil, mapErr("journal_not_found", fmt.Errorf("%w: journal %s", pkgerrors.ErrNotFound, journalID))
	}

	bundle := s.context.GetUserContext(ctx, userID, 0)
	filters := bundle.Preferences
	hints := extraction.Hints{
		ContextSummary:  bundle.Summary(),
		SuggestionTypes: filters.Types,
		PromptStyle:     filters.PromptStyle,
		Topics:          filters.TopicsOfInterest,
	}
	raw, err := s.provider.Extract(ctx, entry.Content, hints)
	if err != nil {
		s.log.Warn("extraction provider failed", "journal_id", journalID.String(), "error", err)
		return nil, mapErr("extraction_failed", fmt.Errorf("%w: %v", pkgerrors.ErrUnavailable, err))
	}
	return &AnalyzeResult{
		JournalID:  journalID,
		Raw:        raw,
		Preview:    s.validator.Validate(raw),
		Filters:    filters,
		ContextDays: bundle.Days,
	}, nil
}
