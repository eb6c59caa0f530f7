package services

import (
	"context"
	"fmt"

	"github.com/yungbote/lifelog-backend/internal/clients/redis"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	pkgerrors "github.com/yungbote/lifelog-backend/internal/pkg/errors"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

const maxOutcomesPerRequest = 100

// OutcomeService accepts suggestion decisions and feeds them to the learning
// engine asynchronously through the outcome bus.
type OutcomeService interface {
	Submit(ctx context.Context, outcomes []preferences.Outcome) (int, error)
	Start(ctx context.Context) error
}

type outcomeService struct {
	log    *logger.Logger
	bus    redis.OutcomeBus
	engine *preferences.Engine
}

func NewOutcomeService(log *logger.Logger, bus redis.OutcomeBus, engine *preferences.Engine) OutcomeService {
	return &outcomeService{
		log:    log.With("service", "OutcomeService"),
		bus:    bus,
		engine: engine,
	}
}

// Submit validates the whole batch before publishing any of it.
func (s *outcomeService) Submit(ctx context.Context, outcomes []preferences.Outcome) (int, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return 0, err
	}
	if len(outcomes) == 0 {
		return 0, mapErr("invalid_outcomes", fmt.Errorf("%w: at least one outcome is required", pkgerrors.ErrInvalidArgument))
	}
	if len(outcomes) > maxOutcomesPerRequest {
		return 0, mapErr("invalid_outcomes", fmt.Errorf("%w: at most %d outcomes per request", pkgerrors.ErrInvalidArgument, maxOutcomesPerRequest))
	}
	for i, o := range outcomes {
		if err := o.Validate(); err != nil {
			return 0, mapErr("invalid_outcomes", fmt.Errorf("outcome %d: %w", i, err))
		}
	}
	for i, o := range outcomes {
		if err := s.bus.Publish(ctx, redis.OutcomeEvent{UserID: userID, Outcome: o}); err != nil {
			s.log.Error("publish outcome failed", "user_id", userID.String(), "index", i, "error", err)
			return i, mapErr("publish_outcome_failed", fmt.Errorf("%w: %v", pkgerrors.ErrUnavailable, err))
		}
	}
	return len(outcomes), nil
}

// Start subscribes the learning engine to the bus. It returns once the
// subscription is live; events are handled until ctx is done.
func (s *outcomeService) Start(ctx context.Context) error {
	return s.bus.StartForwarder(ctx, func(ev redis.OutcomeEvent) {
		s.apply(ctx, ev)
	})
}

func (s *outcomeService) apply(ctx context.Context, ev redis.OutcomeEvent) {
	if err := s.engine.RecordOutcome(ctx, ev.UserID, ev.Outcome); err != nil {
		s.log.Warn("record outcome failed", "user_id", ev.UserID.String(), "error", err)
		return
	}
	adj, err := s.engine.AutoAdjust(ctx, ev.UserID)
	if err != nil {
		s.log.Warn("auto adjust failed", "user_id", ev.UserID.String(), "error", err)
		return
	}
	if adj.Applied && adj.From != adj.To {
		s.log.Info("confidence threshold adjusted",
			"user_id", ev.UserID.String(),
			"from", adj.From,
			"to", adj.To,
			"reason", adj.Reason,
		)
	}
}
