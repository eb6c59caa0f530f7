package aggregates

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/lifelog-backend/internal/domain/user"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/pipelinecfg"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	"github.com/yungbote/lifelog-backend/internal/pkg/keylock"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

// memPrefsRepo has no locking of its own; serialization must come from the store.
type memPrefsRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*user.UserPreferences
	saveErr error
}

func (r *memPrefsRepo) get(userID uuid.UUID) *user.UserPreferences {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.rows[userID]; ok {
		return p.Clone()
	}
	return nil
}

func (r *memPrefsRepo) GetByUserID(_ dbctx.Context, userID uuid.UUID) (*user.UserPreferences, error) {
	return r.get(userID), nil
}

func (r *memPrefsRepo) GetForUpdate(_ dbctx.Context, userID uuid.UUID) (*user.UserPreferences, error) {
	return r.get(userID), nil
}

func (r *memPrefsRepo) Create(_ dbctx.Context, row *user.UserPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.UserID]; !ok {
		r.rows[row.UserID] = row.Clone()
	}
	return nil
}

func (r *memPrefsRepo) Save(_ dbctx.Context, row *user.UserPreferences) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[row.UserID] = row.Clone()
	return nil
}

func (r *memPrefsRepo) DeleteByUserID(_ dbctx.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, userID)
	return nil
}

func (r *memPrefsRepo) ListAutoAdjustUserIDs(dbctx.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for id, p := range r.rows {
		if p.AutoAdjustThreshold {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func newTestStore() (*PreferencesStore, *memPrefsRepo) {
	store, repo, _ := newObservedStore()
	return store, repo
}

func newObservedStore() (*PreferencesStore, *memPrefsRepo, *testutil.HooksRecorder) {
	repo := &memPrefsRepo{rows: map[uuid.UUID]*user.UserPreferences{}}
	hooks := &testutil.HooksRecorder{}
	return NewPreferencesStore(logger.Nop(), repo, &testutil.InjectedTxRunner{}, keylock.New(), hooks), repo, hooks
}

func TestPreferencesStoreSerializesOutcomes(t *testing.T) {
	store, repo := newTestStore()
	engine := preferences.NewEngine(logger.Nop(), store, pipelinecfg.Default())
	id := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := engine.RecordOutcome(context.Background(), id, preferences.Outcome{
				ItemType: "todo", Action: preferences.ActionAccepted, Confidence: 0.9,
			}); err != nil {
				t.Errorf("RecordOutcome: %v", err)
			}
		}()
	}
	wg.Wait()

	row := repo.get(id)
	if row == nil || row.Patterns()["todo"].Accepted != 40 {
		t.Fatalf("lost updates: %+v", row)
	}
}

func TestPreferencesStoreGetCreatesOnce(t *testing.T) {
	store, repo := newTestStore()
	engine := preferences.NewEngine(logger.Nop(), store, pipelinecfg.Default())
	id := uuid.New()
	first, err := engine.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := engine.Get(context.Background(), id)
	if err != nil || second.ID != first.ID {
		t.Fatalf("expected the same row, got %v %v", first.ID, second.ID)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(repo.rows))
	}
}

func TestPreferencesStoreSaveFailureLeavesRow(t *testing.T) {
	store, repo := newTestStore()
	engine := preferences.NewEngine(logger.Nop(), store, pipelinecfg.Default())
	id := uuid.New()
	if _, err := engine.Get(context.Background(), id); err != nil {
		t.Fatalf("Get: %v", err)
	}
	repo.saveErr = errors.New("db down")
	if err := engine.RecordOutcome(context.Background(), id, preferences.Outcome{ItemType: "mood", Action: preferences.ActionRejected}); err == nil {
		t.Fatalf("expected error")
	}
	if n := len(repo.get(id).Patterns()); n != 0 {
		t.Fatalf("failed save must not change the row, got %d patterns", n)
	}
}

func TestPreferencesStoreReplace(t *testing.T) {
	store, repo := newTestStore()
	engine := preferences.NewEngine(logger.Nop(), store, pipelinecfg.Default())
	id := uuid.New()
	th := 0.8
	if _, err := engine.Update(context.Background(), id, preferences.Patch{ConfidenceThreshold: &th}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	p, err := engine.Reset(context.Background(), id)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if p.Version != 1 || repo.get(id).ConfidenceThreshold != 0.7 {
		t.Fatalf("unexpected reset row %+v", repo.get(id))
	}
}

func TestPreferencesStoreReportsInvalidPatch(t *testing.T) {
	store, _, hooks := newObservedStore()
	engine := preferences.NewEngine(logger.Nop(), store, pipelinecfg.Default())
	lo, hi := 0.9, 0.5
	_, err := engine.Update(context.Background(), uuid.New(), preferences.Patch{MinConfidenceThreshold: &lo, MaxConfidenceThreshold: &hi})
	if err == nil || CodeOf(err) != CodeInvalid {
		t.Fatalf("expected invalid code, got %v", err)
	}
	st := hooks.Statuses()
	if len(st) == 0 || st[len(st)-1] != string(CodeInvalid) {
		t.Fatalf("unexpected statuses %v", st)
	}
}
