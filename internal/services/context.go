package services

import (
	"context"

	"github.com/yungbote/lifelog-backend/internal/modules/usercontext"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type ContextService interface {
	Full(ctx context.Context, days int) (*usercontext.Bundle, error)
	Light(ctx context.Context) (*usercontext.Lightweight, error)
}

type contextService struct {
	log *logger.Logger
	agg *usercontext.Aggregator
}

func NewContextService(log *logger.Logger, agg *usercontext.Aggregator) ContextService {
	return &contextService{log: log.With("service", "ContextService"), agg: agg}
}

// Full never fails for an authenticated caller; read failures show up in
// Bundle.Degraded or as the fallback bundle.
func (s *contextService) Full(ctx context.Context, days int) (*usercontext.Bundle, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	b := s.agg.GetUserContext(ctx, userID, days)
	if b.Fallback {
		s.log.Warn("serving fallback context", "user_id", userID.String())
	}
	return &b, nil
}

func (s *contextService) Light(ctx context.Context) (*usercontext.Lightweight, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	lw := s.agg.GetLightweightContext(ctx, userID)
	return &lw, nil
}
