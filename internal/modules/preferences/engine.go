package preferences

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/domain/user"
	"github.com/yungbote/lifelog-backend/internal/observability"
	"github.com/yungbote/lifelog-backend/internal/pipelinecfg"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

// Filters is what the extraction side needs to know about a user.
type Filters struct {
	Types               []string                `json:"types"`
	ConfidenceThreshold float64                 `json:"confidenceThreshold"`
	PromptStyle         string                  `json:"promptStyle"`
	TopicsOfInterest    []string                `json:"topicsOfInterest"`
	AcceptancePatterns  user.AcceptancePatterns `json:"acceptancePatterns"`
}

type Engine struct {
	log   *logger.Logger
	store Store
	cfg   pipelinecfg.Config
	now   func() time.Time
}

func NewEngine(log *logger.Logger, store Store, cfg pipelinecfg.Config) *Engine {
	return &Engine{
		log:   log.With("service", "PreferenceEngine"),
		store: store,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Defaults builds a fresh row for userID.
func (e *Engine) Defaults(userID uuid.UUID) *user.UserPreferences {
	types := make([]string, 0, len(journal.AllSuggestionTypes))
	for _, t := range journal.AllSuggestionTypes {
		types = append(types, string(t))
	}
	now := e.now()
	p := &user.UserPreferences{
		ID:                     uuid.New(),
		UserID:                 userID,
		SuggestionTypes:        datatypes.JSONSlice[string](types),
		ConfidenceThreshold:    e.cfg.Threshold.Default,
		PromptStyle:            DefaultPromptStyle,
		TopicsOfInterest:       datatypes.JSONSlice[string]{},
		AutoAdjustThreshold:    true,
		MinConfidenceThreshold: e.cfg.Threshold.Min,
		MaxConfidenceThreshold: e.cfg.Threshold.Max,
		Version:                1,
		LastUpdated:            now,
	}
	p.SetPatterns(user.AcceptancePatterns{})
	return p
}

func (e *Engine) seed(userID uuid.UUID) func() *user.UserPreferences {
	return func() *user.UserPreferences { return e.Defaults(userID) }
}

func (e *Engine) Get(ctx context.Context, userID uuid.UUID) (*user.UserPreferences, error) {
	p, err := e.store.Get(ctx, userID, e.seed(userID))
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return p, nil
}

func FiltersOf(p *user.UserPreferences) Filters {
	return Filters{
		Types:               append([]string{}, p.SuggestionTypes...),
		ConfidenceThreshold: p.ConfidenceThreshold,
		PromptStyle:         p.PromptStyle,
		TopicsOfInterest:    append([]string{}, p.TopicsOfInterest...),
		AcceptancePatterns:  p.Patterns(),
	}
}

func (e *Engine) GetFilters(ctx context.Context, userID uuid.UUID) (Filters, error) {
	p, err := e.Get(ctx, userID)
	if err != nil {
		return Filters{}, err
	}
	return FiltersOf(p), nil
}

// DefaultFilters is what callers fall back to when the store cannot be read.
func (e *Engine) DefaultFilters() Filters {
	return FiltersOf(e.Defaults(uuid.Nil))
}

// RecordOutcome folds one accept/reject decision into the user's counters.
func (e *Engine) RecordOutcome(ctx context.Context, userID uuid.UUID, o Outcome) error {
	if err := o.Validate(); err != nil {
		return err
	}
	_, err := e.store.Mutate(ctx, userID, e.seed(userID), func(p *user.UserPreferences) (bool, error) {
		applyOutcome(p, o, e.now())
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	observability.Current().IncSuggestionOutcome(string(o.ItemType), string(o.Action))
	return nil
}

// AutoAdjust runs one bounded threshold step from the aggregate acceptance rate.
func (e *Engine) AutoAdjust(ctx context.Context, userID uuid.UUID) (Adjustment, error) {
	var adj Adjustment
	_, err := e.store.Mutate(ctx, userID, e.seed(userID), func(p *user.UserPreferences) (bool, error) {
		adj = adjust(p, e.cfg.AutoAdjust, e.now())
		return adj.Applied, nil
	})
	if err != nil {
		return Adjustment{}, fmt.Errorf("auto-adjust: %w", err)
	}
	observability.Current().IncThresholdAdjustment(adj.Reason)
	if adj.Applied {
		e.log.Info("confidence threshold auto-adjusted",
			"user_id", userID.String(),
			"from", adj.From,
			"to", adj.To,
			"acceptance_rate", adj.AcceptanceRate,
			"interactions", adj.Interactions,
		)
	}
	return adj, nil
}

func (e *Engine) Update(ctx context.Context, userID uuid.UUID, patch Patch) (*user.UserPreferences, error) {
	return e.store.Mutate(ctx, userID, e.seed(userID), func(p *user.UserPreferences) (bool, error) {
		return applyPatch(p, patch, e.now())
	})
}

// Reset discards everything learned and recreates defaults at version 1.
func (e *Engine) Reset(ctx context.Context, userID uuid.UUID) (*user.UserPreferences, error) {
	p, err := e.store.Replace(ctx, e.Defaults(userID))
	if err != nil {
		return nil, fmt.Errorf("reset preferences: %w", err)
	}
	return p, nil
}

// RecalibrateAll runs AutoAdjust for every user that has it enabled.
// Per-user failures are logged and counted, not returned.
func (e *Engine) RecalibrateAll(ctx context.Context) (adjusted, failed int, err error) {
	ids, err := e.store.ListAutoAdjustUserIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list users: %w", err)
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return adjusted, failed, ctx.Err()
		}
		adj, aerr := e.AutoAdjust(ctx, id)
		if aerr != nil {
			failed++
			e.log.Warn("recalibrate user failed", "user_id", id.String(), "error", aerr)
			continue
		}
		if adj.Applied {
			adjusted++
		}
	}
	return adjusted, failed, nil
}
