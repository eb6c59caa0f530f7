package extraction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/observability"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
	"github.com/yungbote/lifelog-backend/internal/pkg/pointers"
)

// ReasonBelowThreshold is the fixed reason text for confidence rejections.
const ReasonBelowThreshold = "confidence <threshold"

type Category string

const (
	CategoryValidation  Category = "validation"
	CategoryConfidence  Category = "confidence"
	CategoryPersistence Category = "persistence"
	CategoryDisabled    Category = "disabled"
)

// Sink persists committed records. Implementations must be keyed by the record's UserID.
type Sink interface {
	CreateMood(ctx context.Context, m *journal.Mood) error
	CreateTodo(ctx context.Context, t *journal.Todo) error
	CreateMedia(ctx context.Context, m *journal.Media) error
	CreateHabit(ctx context.Context, h *journal.Habit) error
}

type CommitError struct {
	Type       journal.ItemType `json:"type"`
	Reason     string           `json:"reason"`
	Category   Category         `json:"category"`
	Label      string           `json:"label,omitempty"`
	Confidence *float64         `json:"confidence,omitempty"`
}

type SavedItems struct {
	Mood   *journal.Mood    `json:"mood,omitempty"`
	Todos  []*journal.Todo  `json:"todos"`
	Media  []*journal.Media `json:"media"`
	Habits []*journal.Habit `json:"habits"`
}

func (s SavedItems) Len() int {
	n := len(s.Todos) + len(s.Media) + len(s.Habits)
	if s.Mood != nil {
		n++
	}
	return n
}

type CommitResult struct {
	SavedItems     SavedItems    `json:"savedItems"`
	Errors         []CommitError `json:"errors"`
	PartialSuccess bool          `json:"partialSuccess"`
	Threshold      float64       `json:"threshold"`
}

// CommitOptions tunes one gate invocation.
type CommitOptions struct {
	Threshold float64
	JournalID *uuid.UUID
	// Allowed restricts which kinds may be committed; nil allows all.
	Allowed map[journal.ItemType]bool
	Now     time.Time
}

// itemResult is the per-item Result; exactly one of saved and err is set.
type itemResult struct {
	kind  journal.ItemType
	saved any
	err   *CommitError
}

type Gate struct {
	log       *logger.Logger
	validator *Validator
	sink      Sink
}

func NewGate(log *logger.Logger, validator *Validator, sink Sink) *Gate {
	return &Gate{log: log.With("component", "ConfidenceGate"), validator: validator, sink: sink}
}

func (g *Gate) Validator() *Validator { return g.validator }

// CommitRaw validates raw and then commits it.
func (g *Gate) CommitRaw(ctx context.Context, userID uuid.UUID, raw RawExtraction, opts CommitOptions) CommitResult {
	return g.Commit(ctx, userID, g.validator.Validate(raw), opts)
}

// Commit persists every normalized item at or above the threshold. Per-item
// failures are folded into the result and never abort the batch.
func (g *Gate) Commit(ctx context.Context, userID uuid.UUID, batch BatchOutcome, opts CommitOptions) CommitResult {
	ctx, span := otel.Tracer("lifelog/extraction").Start(ctx, "gate.commit")
	defer span.End()

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	prov := Provenance{UserID: userID, JournalID: opts.JournalID, At: now}

	results := make([]itemResult, 0, batch.Normalized.Len()+len(batch.ItemErrors))
	for _, ie := range batch.ItemErrors {
		results = append(results, itemResult{kind: ie.Type, err: &CommitError{
			Type:     ie.Type,
			Reason:   ie.Message(),
			Category: CategoryValidation,
		}})
	}

	if m := batch.Normalized.Mood; m != nil {
		results = append(results, g.commitOne(ctx, *m, m.Value, opts, func() (any, error) {
			rec := m.Record(prov)
			return rec, g.sink.CreateMood(ctx, rec)
		}))
	}
	for _, t := range batch.Normalized.Todos {
		t := t
		results = append(results, g.commitOne(ctx, t, t.Title, opts, func() (any, error) {
			rec := t.Record(prov)
			return rec, g.sink.CreateTodo(ctx, rec)
		}))
	}
	for _, m := range batch.Normalized.Media {
		m := m
		results = append(results, g.commitOne(ctx, m, m.Title, opts, func() (any, error) {
			rec := m.Record(prov)
			return rec, g.sink.CreateMedia(ctx, rec)
		}))
	}
	for _, h := range batch.Normalized.Habits {
		h := h
		results = append(results, g.commitOne(ctx, h, h.Name, opts, func() (any, error) {
			rec := h.Record(prov)
			return rec, g.sink.CreateHabit(ctx, rec)
		}))
	}

	out := fold(results)
	out.Threshold = opts.Threshold

	span.SetAttributes(
		attribute.Float64("gate.threshold", opts.Threshold),
		attribute.Int("gate.saved", out.SavedItems.Len()),
		attribute.Int("gate.errors", len(out.Errors)),
		attribute.Bool("gate.partial_success", out.PartialSuccess),
	)
	metrics := observability.Current()
	for _, r := range results {
		if r.err != nil {
			metrics.ObserveGateItem(string(r.kind), string(r.err.Category))
		} else {
			metrics.ObserveGateItem(string(r.kind), "saved")
		}
	}
	metrics.ObserveGateCommit(out.SavedItems.Len(), len(out.Errors))
	for _, e := range out.Errors {
		if e.Category == CategoryPersistence {
			span.SetStatus(codes.Error, "one or more items failed to persist")
			break
		}
	}
	g.log.Debug("gate committed batch",
		"user_id", userID.String(),
		"threshold", opts.Threshold,
		"saved", out.SavedItems.Len(),
		"errors", len(out.Errors),
	)
	return out
}

func (g *Gate) commitOne(ctx context.Context, c Candidate, label string, opts CommitOptions, persist func() (any, error)) itemResult {
	kind := c.Kind()
	conf := c.Score()
	reject := func(cat Category, reason string) itemResult {
		return itemResult{kind: kind, err: &CommitError{
			Type:       kind,
			Reason:     reason,
			Category:   cat,
			Label:      label,
			Confidence: pointers.Ptr(conf),
		}}
	}

	if opts.Allowed != nil && !opts.Allowed[kind] {
		return reject(CategoryDisabled, fmt.Sprintf("%s suggestions are disabled", kind))
	}
	if conf < opts.Threshold {
		return reject(CategoryConfidence, ReasonBelowThreshold)
	}
	rec, err := persist()
	if err != nil {
		g.log.Warn("persist candidate failed", "type", string(kind), "error", err)
		reason := fmt.Sprintf("failed to save %s", kind)
		if ctx.Err() != nil {
			reason += ": request cancelled"
		}
		return reject(CategoryPersistence, reason)
	}
	return itemResult{kind: kind, saved: rec}
}

// fold aggregates per-item results into a CommitResult. It is pure.
func fold(results []itemResult) CommitResult {
	out := CommitResult{
		SavedItems: SavedItems{
			Todos:  []*journal.Todo{},
			Media:  []*journal.Media{},
			Habits: []*journal.Habit{},
		},
		Errors: []CommitError{},
	}
	for _, r := range results {
		if r.err != nil {
			out.Errors = append(out.Errors, *r.err)
			continue
		}
		switch rec := r.saved.(type) {
		case *journal.Mood:
			out.SavedItems.Mood = rec
		case *journal.Todo:
			out.SavedItems.Todos = append(out.SavedItems.Todos, rec)
		case *journal.Media:
			out.SavedItems.Media = append(out.SavedItems.Media, rec)
		case *journal.Habit:
			out.SavedItems.Habits = append(out.SavedItems.Habits, rec)
		}
	}
	out.PartialSuccess = out.SavedItems.Len() > 0 && len(out.Errors) > 0
	return out
}

// AllowedKinds maps a suggestion-type allow-list onto committable kinds.
func AllowedKinds(types []string) map[journal.ItemType]bool {
	allowed := make(map[journal.ItemType]bool, len(types))
	for _, t := range types {
		if it, ok := journal.ParseItemType(t); ok {
			allowed[it] = true
		}
	}
	return allowed
}
