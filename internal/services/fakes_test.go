package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/clients/redis"
	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/domain/user"
	"github.com/yungbote/lifelog-backend/internal/modules/extraction"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/modules/usercontext"
	"github.com/yungbote/lifelog-backend/internal/pipelinecfg"
	"github.com/yungbote/lifelog-backend/internal/pkg/ctxutil"
	"github.com/yungbote/lifelog-backend/internal/pkg/dbctx"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

// memDB backs every journal repo fake with one lock.
type memDB struct {
	mu       sync.Mutex
	entries  []*journal.Entry
	moods    []*journal.Mood
	todos    []*journal.Todo
	media    []*journal.Media
	habits   []*journal.Habit
	failMark bool
}

type entryRepo struct{ db *memDB }

func (r entryRepo) Create(_ dbctx.Context, row *journal.Entry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.entries = append(r.db.entries, row)
	return nil
}

func (r entryRepo) GetByID(_ dbctx.Context, userID, id uuid.UUID) (*journal.Entry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, e := range r.db.entries {
		if e.ID == id && e.UserID == userID {
			return e, nil
		}
	}
	return nil, nil
}

func (r entryRepo) ListSince(_ dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*journal.Entry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*journal.Entry
	for _, e := range r.db.entries {
		if e.UserID == userID && !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r entryRepo) MarkExtracted(_ dbctx.Context, userID, id uuid.UUID, at time.Time, conf *float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failMark {
		return errors.New("mark failed")
	}
	for _, e := range r.db.entries {
		if e.ID == id && e.UserID == userID {
			e.ExtractedAt = &at
			e.ExtractionConfidence = conf
		}
	}
	return nil
}

type moodRepo struct{ db *memDB }

func (r moodRepo) Create(_ dbctx.Context, row *journal.Mood) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.moods = append(r.db.moods, row)
	return nil
}

func (r moodRepo) ListSince(_ dbctx.Context, userID uuid.UUID, _ time.Time, _ int) ([]*journal.Mood, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*journal.Mood
	for _, m := range r.db.moods {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r moodRepo) Latest(_ dbctx.Context, userID uuid.UUID) (*journal.Mood, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := len(r.db.moods) - 1; i >= 0; i-- {
		if r.db.moods[i].UserID == userID {
			return r.db.moods[i], nil
		}
	}
	return nil, nil
}

type todoRepo struct{ db *memDB }

func (r todoRepo) Create(_ dbctx.Context, row *journal.Todo) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.db.todos = append(r.db.todos, row)
	return nil
}

func (r todoRepo) ListSince(_ dbctx.Context, userID uuid.UUID, _ time.Time, _ int) ([]*journal.Todo, error) {
	return r.open(userID, false), nil
}

func (r todoRepo) ListOpen(_ dbctx.Context, userID uuid.UUID, _ int) ([]*journal.Todo, error) {
	return r.open(userID, true), nil
}

func (r todoRepo) CountOpen(_ dbctx.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.open(userID, true))), nil
}

func (r todoRepo) open(userID uuid.UUID, onlyOpen bool) []*journal.Todo {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*journal.Todo
	for _, t := range r.db.todos {
		if t.UserID == userID && (!onlyOpen || !t.Completed) {
			out = append(out, t)
		}
	}
	return out
}

func (r todoRepo) UpdateOne(_ dbctx.Context, userID, id uuid.UUID, patch journal.TodoPatch) (*journal.Todo, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.todos {
		if t.ID != id || t.UserID != userID {
			continue
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.DueDate != nil {
			t.DueDate = patch.DueDate
		}
		return t, nil
	}
	return nil, nil
}

type mediaRepo struct{ db *memDB }

func (r mediaRepo) Create(_ dbctx.Context, row *journal.Media) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.media = append(r.db.media, row)
	return nil
}

func (r mediaRepo) ListSince(_ dbctx.Context, userID uuid.UUID, _ time.Time, _ int) ([]*journal.Media, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*journal.Media
	for _, m := range r.db.media {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type habitRepo struct{ db *memDB }

func (r habitRepo) Create(_ dbctx.Context, row *journal.Habit) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.habits = append(r.db.habits, row)
	return nil
}

func (r habitRepo) ListSince(_ dbctx.Context, userID uuid.UUID, _ time.Time, _ int) ([]*journal.Habit, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*journal.Habit
	for _, h := range r.db.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

type prefStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*user.UserPreferences
}

func (s *prefStore) load(userID uuid.UUID, seed func() *user.UserPreferences) *user.UserPreferences {
	p, ok := s.rows[userID]
	if !ok {
		p = seed()
		s.rows[userID] = p
	}
	return p
}

func (s *prefStore) Get(_ context.Context, userID uuid.UUID, seed func() *user.UserPreferences) (*user.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(userID, seed).Clone(), nil
}

func (s *prefStore) Mutate(_ context.Context, userID uuid.UUID, seed func() *user.UserPreferences, fn preferences.MutateFunc) (*user.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.load(userID, seed).Clone()
	changed, err := fn(work)
	if err != nil {
		return nil, err
	}
	if changed {
		s.rows[userID] = work
	}
	return s.rows[userID].Clone(), nil
}

func (s *prefStore) Replace(_ context.Context, fresh *user.UserPreferences) (*user.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[fresh.UserID] = fresh.Clone()
	return fresh.Clone(), nil
}

func (s *prefStore) ListAutoAdjustUserIDs(context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uuid.UUID
	for id, p := range s.rows {
		if p.AutoAdjustThreshold {
			out = append(out, id)
		}
	}
	return out, nil
}

type stubProvider struct {
	raw   extraction.RawExtraction
	err   error
	hints extraction.Hints
}

func (p *stubProvider) Extract(_ context.Context, _ string, hints extraction.Hints) (extraction.RawExtraction, error) {
	p.hints = hints
	return p.raw, p.err
}

type harness struct {
	db       *memDB
	prefs    *prefStore
	engine   *preferences.Engine
	agg      *usercontext.Aggregator
	gate     *extraction.Gate
	bus      redis.OutcomeBus
	journal  JournalService
	actions  JournalActionsService
	prefSvc  PreferencesService
	outcomes OutcomeService
	context  ContextService
	todos    TodoService
}

func newHarness() *harness {
	log := logger.Nop()
	cfg := pipelinecfg.Default()
	h := &harness{db: &memDB{}, prefs: &prefStore{rows: map[uuid.UUID]*user.UserPreferences{}}}

	entries, moods, todos := entryRepo{h.db}, moodRepo{h.db}, todoRepo{h.db}
	media, habits := mediaRepo{h.db}, habitRepo{h.db}

	h.engine = preferences.NewEngine(log, h.prefs, cfg)
	sources := usercontext.NewRepoSources(entries, moods, todos, media, habits, h.engine)
	h.agg = usercontext.NewAggregator(log, sources, redis.NopCache{}, time.Minute, cfg.Context, h.engine.DefaultFilters())
	h.gate = extraction.NewGate(log, extraction.NewValidator(extraction.NewNormalizer(cfg.ConfidenceDefaults)), NewRecordSink(moods, todos, media, habits))
	h.bus = redis.NewMemoryOutcomeBus(log, 16)

	h.journal = NewJournalService(log, entries, h.agg, 0)
	h.actions = NewJournalActionsService(log, entries, h.engine, h.gate, h.agg)
	h.prefSvc = NewPreferencesService(log, h.engine, h.agg)
	h.outcomes = NewOutcomeService(log, h.bus, h.engine)
	h.context = NewContextService(log, h.agg)
	h.todos = NewTodoService(log, todos, h.agg)
	return h
}

func (h *harness) analyzer(p extraction.Provider) AnalyzeService {
	return NewAnalyzeService(logger.Nop(), entryRepo{h.db}, h.engine, h.agg, h.gate.Validator(), p)
}

func asUser(id uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id})
}
