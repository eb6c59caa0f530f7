package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/data/repos"
	"github.com/yungbote/lifelog-backend/internal/modules/extraction"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/modules/usercontext"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/lifelog-backend/internal/pkg/errors"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

// ActionsRequest is the body of POST /journal/actions: one raw extraction
// for an existing journal entry.
type ActionsRequest struct {
	JournalID       string            `json:"journalId"`
	Mood            any               `json:"mood,omitempty"`
	Todos           []any             `json:"todos,omitempty"`
	Media           []any             `json:"media,omitempty"`
	Habits          []any             `json:"habits,omitempty"`
	Confidence      *float64          `json:"confidence,omitempty"`
	UserPreferences *RequestOverrides `json:"userPreferences,omitempty"`
}

// RequestOverrides may only tighten the stored preferences for one call.
type RequestOverrides struct {
	ConfidenceThreshold *float64 `json:"confidenceThreshold,omitempty"`
}

func (r ActionsRequest) Raw() extraction.RawExtraction {
	return extraction.RawExtraction{
		Mood:       r.Mood,
		Todos:      r.Todos,
		Media:      r.Media,
		Habits:     r.Habits,
		Confidence: r.Confidence,
	}
}

type JournalActionsService interface {
	Commit(ctx context.Context, req ActionsRequest) (extraction.CommitResult, error)
}

type journalActionsService struct {
	log     *logger.Logger
	entries repos.JournalEntryRepo
	prefs   *preferences.Engine
	gate    *extraction.Gate
	context *usercontext.Aggregator
}

func NewJournalActionsService(
	log *logger.Logger,
	entries repos.JournalEntryRepo,
	prefs *preferences.Engine,
	gate *extraction.Gate,
	agg *usercontext.Aggregator,
) JournalActionsService {
	return &journalActionsService{
		log:     log.With("service", "JournalActionsService"),
		entries: entries,
		prefs:   prefs,
		gate:    gate,
		context: agg,
	}
}

// effectiveThreshold applies a per-request override, which can raise but never lower the stored value.
func effectiveThreshold(stored float64, o *RequestOverrides) (float64, error) {
	if o == nil || o.ConfidenceThreshold == nil {
		return stored, nil
	}
	v := *o.ConfidenceThreshold
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, fmt.Errorf("%w: userPreferences.confidenceThreshold must be within [0,1]", pkgerrors.ErrInvalidArgument)
	}
	return math.Max(stored, v), nil
}

func (s *journalActionsService) Commit(ctx context.Context, req ActionsRequest) (extraction.CommitResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return extraction.CommitResult{}, err
	}
	journalID, err := uuid.Parse(strings.TrimSpace(req.JournalID))
	if err != nil {
		return extraction.CommitResult{}, mapErr("invalid_journal_id", fmt.Errorf("%w: journalId must be a uuid", pkgerrors.ErrInvalidArgument))
	}
	entry, err := s.entries.GetByID(dbctx.Context{Ctx: ctx}, userID, journalID)
	if err != nil {
		return extraction.CommitResult{}, mapErr("load_journal_failed", err)
	}
	if entry == nil {
		return extraction.CommitResult{}, mapErr("journal_not_found", fmt.Errorf("%w: journal %s", pkgerrors.ErrNotFound, journalID))
	}

	// Read fresh per request; a stale threshold would gate against outdated learning.
	filters, err := s.prefs.GetFilters(ctx, userID)
	if err != nil {
		s.log.Warn("preferences unavailable, gating with defaults", "user_id", userID.String(), "error", err)
		filters = s.prefs.DefaultFilters()
	}
	threshold, err := effectiveThreshold(filters.ConfidenceThreshold, req.UserPreferences)
	if err != nil {
		return extraction.CommitResult{}, mapErr("invalid_threshold", err)
	}

	now := time.Now().UTC()
	batch := s.gate.Validator().Validate(req.Raw())
	result := s.gate.Commit(ctx, userID, batch, extraction.CommitOptions{
		Threshold: threshold,
		JournalID: &journalID,
		Allowed:   extraction.AllowedKinds(filters.Types),
		Now:       now,
	})

	if err := s.entries.MarkExtracted(dbctx.Context{Ctx: ctx}, userID, journalID, now, batch.BatchConfidence); err != nil {
		s.log.Warn("mark journal extracted failed", "journal_id", journalID.String(), "error", err)
	}
	if result.SavedItems.Len() > 0 {
		s.context.Invalidate(ctx, userID)
	}
	s.log.Info("journal actions committed",
		"user_id", userID.String(),
		"journal_id", journalID.String(),
		"saved", result.SavedItems.Len(),
		"errors", len(result.Errors),
		"partial_success", result.PartialSuccess,
	)
	return result, nil
}
