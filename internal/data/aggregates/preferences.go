package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/data/repos"
	"github.com/yungbote/lifelog-backend/internal/domain/user"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

// Locker serializes work per key. Implementations: keylock.Map in-process, redis across replicas.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// PreferencesStore is the gorm-backed preferences.Store. Every write takes the
// user's lock and runs in one transaction that re-reads the row FOR UPDATE.
type PreferencesStore struct {
	log    *logger.Logger
	repo   repos.UserPreferencesRepo
	deps   BaseDeps
	locker Locker
}

// NewPreferencesStore wires the store; nil hooks disable operation metrics.
func NewPreferencesStore(log *logger.Logger, repo repos.UserPreferencesRepo, runner TxRunner, locker Locker, hooks Hooks) *PreferencesStore {
	return &PreferencesStore{
		log:    log.With("aggregate", "PreferencesStore"),
		repo:   repo,
		deps:   BaseDeps{Runner: runner, Hooks: hooks}.withDefaults(),
		locker: locker,
	}
}

var _ preferences.Store = (*PreferencesStore)(nil)

func lockKey(userID uuid.UUID) string { return "prefs:" + userID.String() }

func (s *PreferencesStore) withLock(ctx context.Context, userID uuid.UUID, fn func() error) error {
	start := time.Now()
	unlock, err := s.locker.Lock(ctx, lockKey(userID))
	if err != nil {
		return fmt.Errorf("acquire preferences lock: %w", err)
	}
	defer unlock()
	if wait := time.Since(start); wait > 250*time.Millisecond {
		s.log.Debug("preferences lock contended", "user_id", userID.String(), "wait_ms", wait.Milliseconds())
	}
	return fn()
}

// ensure returns the locked row, inserting seed first when the user has none.
func (s *PreferencesStore) ensure(dbc dbctx.Context, userID uuid.UUID, seed func() *user.UserPreferences) (*user.UserPreferences, error) {
	row, err := s.repo.GetForUpdate(dbc, userID)
	if err != nil || row != nil {
		return row, err
	}
	if err := s.repo.Create(dbc, seed()); err != nil {
		return nil, err
	}
	row, err = s.repo.GetForUpdate(dbc, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("preferences for user %s vanished after create", userID)
	}
	return row, nil
}

func (s *PreferencesStore) Get(ctx context.Context, userID uuid.UUID, seed func() *user.UserPreferences) (*user.UserPreferences, error) {
	row, err := s.repo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil || row != nil {
		return row, err
	}
	var out *user.UserPreferences
	err = s.withLock(ctx, userID, func() error {
		return executeWrite(ctx, s.deps, "preferences.ensure", func(dbc dbctx.Context) error {
			r, err := s.ensure(dbc, userID, seed)
			out = r
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PreferencesStore) Mutate(ctx context.Context, userID uuid.UUID, seed func() *user.UserPreferences, fn preferences.MutateFunc) (*user.UserPreferences, error) {
	var out *user.UserPreferences
	err := s.withLock(ctx, userID, func() error {
		return executeWrite(ctx, s.deps, "preferences.mutate", func(dbc dbctx.Context) error {
			row, err := s.ensure(dbc, userID, seed)
			if err != nil {
				return err
			}
			work := row.Clone()
			changed, err := fn(work)
			if err != nil {
				return err
			}
			if !changed {
				out = row
				return nil
			}
			if err := s.repo.Save(dbc, work); err != nil {
				return err
			}
			out = work
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PreferencesStore) Replace(ctx context.Context, fresh *user.UserPreferences) (*user.UserPreferences, error) {
	if fresh == nil || fresh.UserID == uuid.Nil {
		return nil, fmt.Errorf("replace preferences: missing user id")
	}
	err := s.withLock(ctx, fresh.UserID, func() error {
		return executeWrite(ctx, s.deps, "preferences.replace", func(dbc dbctx.Context) error {
			if err := s.repo.DeleteByUserID(dbc, fresh.UserID); err != nil {
				return err
			}
			return s.repo.Create(dbc, fresh)
		})
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *PreferencesStore) ListAutoAdjustUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.ListAutoAdjustUserIDs(dbctx.Context{Ctx: ctx})
}
