package services

import (
	"context"

	"github.com/yungbote/lifelog-backend/internal/domain/user"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/modules/usercontext"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

// PreferencesView is the GET /journal/preferences payload.
type PreferencesView struct {
	Preferences *user.UserPreferences `json:"preferences"`
	Stats       preferences.Stats     `json:"stats"`
}

type PreferencesService interface {
	Get(ctx context.Context) (*PreferencesView, error)
	Update(ctx context.Context, patch preferences.Patch) (*PreferencesView, error)
	Reset(ctx context.Context) (*PreferencesView, error)
}

type preferencesService struct {
	log     *logger.Logger
	engine  *preferences.Engine
	context *usercontext.Aggregator
}

func NewPreferencesService(log *logger.Logger, engine *preferences.Engine, agg *usercontext.Aggregator) PreferencesService {
	return &preferencesService{
		log:     log.With("service", "PreferencesService"),
		engine:  engine,
		context: agg,
	}
}

func view(p *user.UserPreferences) *PreferencesView {
	return &PreferencesView{Preferences: p, Stats: preferences.ComputeStats(p)}
}

func (s *preferencesService) Get(ctx context.Context) (*PreferencesView, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.engine.Get(ctx, userID)
	if err != nil {
		return nil, mapErr("load_preferences_failed", err)
	}
	return view(p), nil
}

func (s *preferencesService) Update(ctx context.Context, patch preferences.Patch) (*PreferencesView, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.engine.Update(ctx, userID, patch)
	if err != nil {
		return nil, mapErr("update_preferences_failed", err)
	}
	s.context.Invalidate(ctx, userID)
	s.log.Info("preferences updated", "user_id", userID.String(), "version", p.Version)
	return view(p), nil
}

func (s *preferencesService) Reset(ctx context.Context) (*PreferencesView, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.engine.Reset(ctx, userID)
	if err != nil {
		return nil, mapErr("reset_preferences_failed", err)
	}
	s.context.Invalidate(ctx, userID)
	s.log.Info("preferences reset", "user_id", userID.String())
	return view(p), nil
}
