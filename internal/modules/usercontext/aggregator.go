package usercontext

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/observability"
	"github.com/yungbote/lifelog-backend/internal/pipelinecfg"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

// Cache holds serialized lightweight contexts.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	sliceMoods    = "moods"
	sliceTodos    = "todos"
	sliceMedia    = "media"
	sliceHabits   = "habits"
	sliceJournals = "journals"
	slicePrefs    = "preferences"
)

type Aggregator struct {
	log      *logger.Logger
	sources  Sources
	cache    Cache
	cacheTTL time.Duration
	cfg      pipelinecfg.Context
	defaults preferences.Filters
	now      func() time.Time
}

func NewAggregator(log *logger.Logger, sources Sources, cache Cache, cacheTTL time.Duration, cfg pipelinecfg.Context, defaults preferences.Filters) *Aggregator {
	return &Aggregator{
		log:      log.With("service", "ContextAggregator"),
		sources:  sources,
		cache:    cache,
		cacheTTL: cacheTTL,
		cfg:      cfg,
		defaults: defaults,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ClampDays bounds a requested window; non-positive means the default.
func (a *Aggregator) ClampDays(days int) int {
	if days <= 0 {
		return a.cfg.DefaultDays
	}
	if days > a.cfg.MaxDays {
		return a.cfg.MaxDays
	}
	return days
}

// guard runs one sub-read, turning a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// GetUserContext fans out every read concurrently. A failing read empties its
// slice; only when every read fails is the static fallback returned.
func (a *Aggregator) GetUserContext(ctx context.Context, userID uuid.UUID, days int) Bundle {
	ctx, span := otel.Tracer("lifelog/usercontext").Start(ctx, "usercontext.aggregate")
	defer span.End()

	days = a.ClampDays(days)
	now := a.now()
	since := now.AddDate(0, 0, -days)

	var (
		moods    []*journal.Mood
		todos    []*journal.Todo
		media    []*journal.Media
		habits   []*journal.Habit
		journals []*journal.Entry
		filters  preferences.Filters
	)
	reads := []struct {
		name string
		fn   func() error
	}{
		{sliceMoods, func() (err error) { moods, err = a.sources.Moods(ctx, userID, since, a.cfg.MoodLimit); return }},
		{sliceTodos, func() (err error) { todos, err = a.sources.OpenTodos(ctx, userID, a.cfg.TodoLimit); return }},
		{sliceMedia, func() (err error) { media, err = a.sources.Media(ctx, userID, since, a.cfg.MediaLimit); return }},
		{sliceHabits, func() (err error) { habits, err = a.sources.Habits(ctx, userID, since, a.cfg.HabitLimit); return }},
		{sliceJournals, func() (err error) { journals, err = a.sources.Journals(ctx, userID, since, a.cfg.JournalLimit); return }},
		{slicePrefs, func() (err error) { filters, err = a.sources.Filters(ctx, userID); return }},
	}
	errs := make([]error, len(reads))

	var g errgroup.Group
	for i, r := range reads {
		i, r := i, r
		g.Go(func() error {
			errs[i] = guard(r.fn)
			return nil
		})
	}
	_ = g.Wait()

	var degraded []string
	metrics := observability.Current()
	for i, err := range errs {
		metrics.IncContextRead(reads[i].name, err == nil)
		if err != nil {
			degraded = append(degraded, reads[i].name)
			switch reads[i].name {
			case sliceMoods:
				moods = nil
			case sliceTodos:
				todos = nil
			case sliceMedia:
				media = nil
			case sliceHabits:
				habits = nil
			case sliceJournals:
				journals = nil
			}
			a.log.Warn("context read failed", "slice", reads[i].name, "user_id", userID.String(), "error", err)
		}
	}
	span.SetAttributes(attribute.Int("usercontext.days", days), attribute.Int("usercontext.degraded", len(degraded)))

	if len(degraded) == len(reads) {
		span.SetAttributes(attribute.Bool("usercontext.fallback", true))
		return fallbackBundle(userID, days, a.defaults, now)
	}
	if errs[len(errs)-1] != nil || len(filters.Types) == 0 && filters.ConfidenceThreshold == 0 {
		filters = a.defaults
	}

	b := Bundle{
		UserID:         userID,
		Days:           days,
		GeneratedAt:    now,
		RecentMoods:    moodPoints(moods),
		UpcomingTodos:  todoItems(todos, now),
		RecentMedia:    mediaItems(media),
		HabitProgress:  habitProgress(habits),
		JournalHistory: journalSnippets(journals, a.cfg.SnippetChars),
		Preferences:    filters,
		Degraded:       degraded,
	}
	b.MoodTrend = trend(b.RecentMoods)
	return b
}

func lightKey(userID uuid.UUID) string { return "light:" + userID.String() }

// GetLightweightContext returns the latest mood, open todo count and recent
// journal keywords, served from cache when possible. Read failures degrade to zero values.
func (a *Aggregator) GetLightweightContext(ctx context.Context, userID uuid.UUID) Lightweight {
	if a.cache != nil {
		if raw, ok, err := a.cache.Get(ctx, lightKey(userID)); err == nil && ok {
			var lw Lightweight
			if json.Unmarshal(raw, &lw) == nil {
				return lw
			}
		} else if err != nil {
			a.log.Debug("light context cache read failed", "error", err)
		}
	}

	now := a.now()
	var (
		latest   *journal.Mood
		count    int64
		journals []*journal.Entry
		g        errgroup.Group
	)
	g.Go(func() error {
		if err := guard(func() (err error) { latest, err = a.sources.LatestMood(ctx, userID); return }); err != nil {
			latest = nil
			a.log.Warn("light context mood read failed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := guard(func() (err error) { count, err = a.sources.CountOpenTodos(ctx, userID); return }); err != nil {
			count = 0
			a.log.Warn("light context todo count failed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		since := now.AddDate(0, 0, -a.cfg.DefaultDays)
		if err := guard(func() (err error) {
			journals, err = a.sources.Journals(ctx, userID, since, a.cfg.LightweightJournals)
			return
		}); err != nil {
			journals = nil
			a.log.Warn("light context journal read failed", "error", err)
		}
		return nil
	})
	_ = g.Wait()

	texts := make([]string, 0, len(journals))
	for _, j := range journals {
		if j != nil {
			texts = append(texts, j.Content)
		}
	}
	lw := Lightweight{ActiveTodos: count, Keywords: Keywords(texts, a.cfg.KeywordCount), GeneratedAt: now}
	if latest != nil {
		mp := moodPoint(latest)
		lw.LatestMood = &mp
	}

	if a.cache != nil && a.cacheTTL > 0 {
		if raw, err := json.Marshal(lw); err == nil {
			if err := a.cache.Set(ctx, lightKey(userID), raw, a.cacheTTL); err != nil {
				a.log.Debug("light context cache write failed", "error", err)
			}
		}
	}
	return lw
}

// Invalidate drops cached context after the user's data changed.
func (a *Aggregator) Invalidate(ctx context.Context, userID uuid.UUID) {
	if a == nil || a.cache == nil {
		return
	}
	if err := a.cache.Delete(ctx, lightKey(userID)); err != nil {
		a.log.Debug("light context cache delete failed", "error", err)
	}
}

func moodPoint(m *journal.Mood) MoodPoint {
	return MoodPoint{
		Value:      string(m.Value),
		Label:      m.Label,
		Score:      journal.MoodScore(m.Value),
		RecordedAt: m.RecordedAt,
	}
}

func moodPoints(in []*journal.Mood) []MoodPoint {
	out := make([]MoodPoint, 0, len(in))
	for _, m := range in {
		if m != nil {
			out = append(out, moodPoint(m))
		}
	}
	return out
}

// trend compares the mean of the newer half against the older half. Input is newest first.
func trend(points []MoodPoint) MoodTrend {
	t := MoodTrend{Samples: len(points), Direction: "unknown"}
	if len(points) == 0 {
		return t
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Score
	}
	t.Average = sum / float64(len(points))
	if len(points) < 4 {
		return t
	}
	half := len(points) / 2
	mean := func(ps []MoodPoint) float64 {
		s := 0.0
		for _, p := range ps {
			s += p.Score
		}
		return s / float64(len(ps))
	}
	diff := mean(points[:half]) - mean(points[len(points)-half:])
	switch {
	case diff > 0.25:
		t.Direction = "improving"
	case diff < -0.25:
		t.Direction = "declining"
	default:
		t.Direction = "steady"
	}
	return t
}

func todoItems(in []*journal.Todo, now time.Time) []TodoItem {
	out := make([]TodoItem, 0, len(in))
	for _, t := range in {
		if t == nil {
			continue
		}
		out = append(out, TodoItem{
			ID:       t.ID,
			Title:    t.Title,
			Priority: t.Priority,
			DueDate:  t.DueDate,
			Overdue:  t.DueDate != nil && t.DueDate.Before(now),
		})
	}
	return out
}

func mediaItems(in []*journal.Media) []MediaItem {
	out := make([]MediaItem, 0, len(in))
	for _, m := range in {
		if m != nil {
			out = append(out, MediaItem{ID: m.ID, Title: m.Title, Type: m.MediaType, Status: m.Status})
		}
	}
	return out
}

// habitProgress groups logs by habit name. Input is newest first; the streak
// counts consecutive "done" logs from the newest.
func habitProgress(in []*journal.Habit) []HabitProgress {
	byName := map[string]*HabitProgress{}
	streakOpen := map[string]bool{}
	var order []string
	for _, h := range in {
		if h == nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(h.Name))
		p, ok := byName[key]
		if !ok {
			p = &HabitProgress{Name: h.Name}
			byName[key] = p
			streakOpen[key] = true
			order = append(order, key)
		}
		if h.Status == "missed" {
			p.Missed++
			streakOpen[key] = false
			continue
		}
		p.Done++
		if streakOpen[key] {
			p.Streak++
		}
	}
	out := make([]HabitProgress, 0, len(order))
	for _, k := range order {
		p := byName[k]
		if total := p.Done + p.Missed; total > 0 {
			p.CompletionRate = float64(p.Done) / float64(total)
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Done+out[i].Missed > out[j].Done+out[j].Missed })
	return out
}

func journalSnippets(in []*journal.Entry, max int) []JournalSnippet {
	out := make([]JournalSnippet, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, JournalSnippet{ID: e.ID, Snippet: snippet(e.Content, max), WordCount: e.WordCount, CreatedAt: e.CreatedAt})
		}
	}
	return out
}
