package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/modules/extraction"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
	"github.com/yungbote/lifelog-backend/internal/pkg/pointers"
	"github.com/yungbote/lifelog-backend/internal/platform/apierr"
)

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected api error with status %d, got %v", status, err)
	}
	if ae.Status != status {
		t.Fatalf("expected status %d, got %d (%v)", status, ae.Status, err)
	}
}

func TestServicesRequireAuthenticatedUser(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.journal.Create(ctx, "hello")
	wantStatus(t, err, http.StatusUnauthorized)
	_, err = h.actions.Commit(ctx, ActionsRequest{JournalID: uuid.NewString()})
	wantStatus(t, err, http.StatusUnauthorized)
	_, err = h.prefSvc.Get(ctx)
	wantStatus(t, err, http.StatusUnauthorized)
	_, err = h.context.Full(ctx, 7)
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestJournalCreateValidates(t *testing.T) {
	h := newHarness()
	ctx := asUser(uuid.New())

	_, err := h.journal.Create(ctx, "   ")
	wantStatus(t, err, http.StatusBadRequest)
	_, err = h.journal.Create(ctx, strings.Repeat("a", maxJournalChars+1))
	wantStatus(t, err, http.StatusBadRequest)

	entry, err := h.journal.Create(ctx, "  walked by the river today  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.Content != "walked by the river today" || entry.WordCount != 5 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	list, err := h.journal.List(ctx, 0)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one entry, got %d (%v)", len(list), err)
	}
}

func TestJournalGetHidesOtherUsersEntries(t *testing.T) {
	h := newHarness()
	owner := asUser(uuid.New())
	entry, err := h.journal.Create(owner, "mine")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := h.journal.Get(owner, entry.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	_, err = h.journal.Get(asUser(uuid.New()), entry.ID)
	wantStatus(t, err, http.StatusNotFound)
}

func TestCommitActionsThresholdAndStamp(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	ctx := asUser(userID)
	entry, _ := h.journal.Create(ctx, "need to call the doctor")

	res, err := h.actions.Commit(ctx, ActionsRequest{
		JournalID:  entry.ID.String(),
		Todos:      []any{map[string]any{"title": "Call doctor", "confidence": 0.85}},
		Confidence: pointers.Ptr(0.8),
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(res.SavedItems.Todos) != 1 || len(res.Errors) != 0 || res.Threshold != 0.7 {
		t.Fatalf("unexpected result %+v", res)
	}
	if id := res.SavedItems.Todos[0].JournalID; id == nil || *id != entry.ID {
		t.Fatalf("saved todo not linked to journal")
	}
	if entry.ExtractedAt == nil || entry.ExtractionConfidence == nil || *entry.ExtractionConfidence != 0.8 {
		t.Fatalf("journal not stamped: %+v", entry)
	}
}

func TestCommitActionsRequestCanOnlyRaiseThreshold(t *testing.T) {
	h := newHarness()
	ctx := asUser(uuid.New())
	entry, _ := h.journal.Create(ctx, "x")
	todos := []any{map[string]any{"title": "Call doctor", "confidence": 0.85}}

	res, err := h.actions.Commit(ctx, ActionsRequest{
		JournalID:       entry.ID.String(),
		Todos:           todos,
		UserPreferences: &RequestOverrides{ConfidenceThreshold: pointers.Ptr(0.9)},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(res.SavedItems.Todos) != 0 || res.Threshold != 0.9 {
		t.Fatalf("expected raised threshold to reject, got %+v", res)
	}

	res, err = h.actions.Commit(ctx, ActionsRequest{
		JournalID:       entry.ID.String(),
		Todos:           todos,
		UserPreferences: &RequestOverrides{ConfidenceThreshold: pointers.Ptr(0.1)},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if res.Threshold != 0.7 {
		t.Fatalf("request lowered threshold to %v", res.Threshold)
	}

	_, err = h.actions.Commit(ctx, ActionsRequest{
		JournalID:       entry.ID.String(),
		UserPreferences: &RequestOverrides{ConfidenceThreshold: pointers.Ptr(1.5)},
	})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestCommitActionsUnknownJournal(t *testing.T) {
	h := newHarness()
	ctx := asUser(uuid.New())

	_, err := h.actions.Commit(ctx, ActionsRequest{JournalID: "not-a-uuid"})
	wantStatus(t, err, http.StatusBadRequest)
	_, err = h.actions.Commit(ctx, ActionsRequest{JournalID: uuid.NewString()})
	wantStatus(t, err, http.StatusNotFound)
}

func TestCommitActionsHonoursDisabledTypes(t *testing.T) {
	h := newHarness()
	ctx := asUser(uuid.New())
	entry, _ := h.journal.Create(ctx, "x")
	if _, err := h.prefSvc.Update(ctx, preferences.Patch{SuggestionTypes: &[]string{"mood"}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	res, err := h.actions.Commit(ctx, ActionsRequest{
		JournalID: entry.ID.String(),
		Mood:      map[string]any{"value": "happy", "confidence": 0.9},
		Todos:     []any{map[string]any{"title": "Call doctor", "confidence": 0.95}},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if res.SavedItems.Mood == nil || len(res.SavedItems.Todos) != 0 {
		t.Fatalf("unexpected saved items %+v", res.SavedItems)
	}
	if len(res.Errors) != 1 || res.Errors[0].Category != extraction.CategoryDisabled || !res.PartialSuccess {
		t.Fatalf("expected disabled todo error, got %+v", res.Errors)
	}
}

func TestCommitActionsSurvivesStampFailure(t *testing.T) {
	h := newHarness()
	h.db.failMark = true
	ctx := asUser(uuid.New())
	entry, _ := h.journal.Create(ctx, "x")
	res, err := h.actions.Commit(ctx, ActionsRequest{
		JournalID: entry.ID.String(),
		Habits:    []any{map[string]any{"name": "run", "confidence": 0.9}},
	})
	if err != nil || len(res.SavedItems.Habits) != 1 {
		t.Fatalf("expected habit saved despite stamp failure, got %+v (%v)", res, err)
	}
}

func TestAnalyzeWithoutProvider(t *testing.T) {
	h := newHarness()
	ctx := asUser(uuid.New())
	entry, _ := h.journal.Create(ctx, "x")
	_, err := h.analyzer(nil).Analyze(ctx, entry.ID)
	wantStatus(t, err, http.StatusServiceUnavailable)
}

func TestAnalyzeReturnsUncommittedPreview(t *testing.T) {
	h := newHarness()
	ctx := asUser(uuid.New())
	entry, _ := h.journal.Create(ctx, "finished dune, need to call mom")
	p := &stubProvider{raw: extraction.RawExtraction{
		Todos: []any{map[string]any{"title": "Call mom", "confidence": 0.9}},
		Media: []any{map[string]any{"title": "Dune", "confidence": 0.8}},
	}}

	res, err := h.analyzer(p).Analyze(ctx, entry.ID)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Preview.Normalized.Todos) != 1 || len(res.Preview.Normalized.Media) != 1 {
		t.Fatalf("unexpected preview %+v", res.Preview)
	}
	if len(h.db.todos) != 0 || len(h.db.media) != 0 {
		t.Fatalf("analyze must not persist")
	}
	if len(p.hints.SuggestionTypes) != len(journal.AllSuggestionTypes) || p.hints.PromptStyle == "" {
		t.Fatalf("provider got no hints: %+v", p.hints)
	}
	if res.ContextDays != 7 {
		t.Fatalf("expected default window, got %d", res.ContextDays)
	}

	p.err = errors.New("rate limited")
	_, err = h.analyzer(p).Analyze(ctx, entry.ID)
	wantStatus(t, err, http.StatusServiceUnavailable)
}

func TestPreferencesLifecycle(t *testing.T) {
	h := newHarness()
	ctx := asUser(uuid.New())

	v, err := h.prefSvc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.Preferences.Version != 1 || v.Stats.Total != 0 {
		t.Fatalf("unexpected defaults %+v", v)
	}

	v, err = h.prefSvc.Update(ctx, preferences.Patch{ConfidenceThreshold: pointers.Ptr(0.8)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if v.Preferences.ConfidenceThreshold != 0.8 || v.Preferences.Version != 2 {
		t.Fatalf("unexpected update %+v", v.Preferences)
	}

	_, err = h.prefSvc.Update(ctx, preferences.Patch{PromptStyle: pointers.Ptr("shouty")})
	wantStatus(t, err, http.StatusBadRequest)

	v, err = h.prefSvc.Reset(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if v.Preferences.Version != 1 || v.Preferences.ConfidenceThreshold != 0.7 {
		t.Fatalf("unexpected reset %+v", v.Preferences)
	}
}

func TestOutcomesValidateWholeBatch(t *testing.T) {
	h := newHarness()
	ctx := asUser(uuid.New())

	_, err := h.outcomes.Submit(ctx, nil)
	wantStatus(t, err, http.StatusBadRequest)

	n, err := h.outcomes.Submit(ctx, []preferences.Outcome{
		{ItemType: journal.SuggestTodo, Action: preferences.ActionAccepted, Confidence: 0.9},
		{ItemType: "weather", Action: preferences.ActionAccepted, Confidence: 0.9},
	})
	wantStatus(t, err, http.StatusBadRequest)
	if n != 0 {
		t.Fatalf("nothing should be published on an invalid batch, got %d", n)
	}
}

func TestOutcomesFlowIntoLearning(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	ctx := asUser(userID)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := h.outcomes.Start(runCtx); err != nil {
		t.Fatalf("start: %v", err)
	}

	batch := make([]preferences.Outcome, 0, 10)
	for i := 0; i < 10; i++ {
		batch = append(batch, preferences.Outcome{ItemType: journal.SuggestTodo, Action: preferences.ActionAccepted, Confidence: 0.9})
	}
	if n, err := h.outcomes.Submit(ctx, batch); err != nil || n != 10 {
		t.Fatalf("submit: %d %v", n, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		v, err := h.prefSvc.Get(ctx)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		// the forwarder runs autoAdjust after each record, so wait for both
		if v.Stats.Accepted == 10 && v.Preferences.ConfidenceThreshold < 0.7 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("outcomes not applied: stats %+v threshold %v", v.Stats, v.Preferences.ConfidenceThreshold)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestContextReflectsCommittedItems(t *testing.T) {
	h := newHarness()
	ctx := asUser(uuid.New())
	entry, _ := h.journal.Create(ctx, "x")
	if _, err := h.actions.Commit(ctx, ActionsRequest{
		JournalID: entry.ID.String(),
		Todos:     []any{map[string]any{"title": "Call doctor", "confidence": 0.9}},
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	b, err := h.context.Full(ctx, 500)
	if err != nil {
		t.Fatalf("full: %v", err)
	}
	if b.Days != 90 || len(b.UpcomingTodos) != 1 || b.Fallback {
		t.Fatalf("unexpected bundle %+v", b)
	}
	lw, err := h.context.Light(ctx)
	if err != nil || lw.ActiveTodos != 1 {
		t.Fatalf("unexpected lightweight %+v (%v)", lw, err)
	}
}

func TestTodoUpdate(t *testing.T) {
	h := newHarness()
	userID := uuid.New()
	ctx := asUser(userID)
	todo := &journal.Todo{ID: uuid.New(), UserID: userID, Title: "Call doctor", Priority: "medium"}
	h.db.todos = append(h.db.todos, todo)

	_, err := h.todos.Update(ctx, todo.ID, journal.TodoPatch{})
	wantStatus(t, err, http.StatusBadRequest)
	_, err = h.todos.Update(ctx, todo.ID, journal.TodoPatch{Priority: pointers.Ptr("urgent")})
	wantStatus(t, err, http.StatusBadRequest)
	_, err = h.todos.Update(ctx, uuid.New(), journal.TodoPatch{Completed: pointers.Ptr(true)})
	wantStatus(t, err, http.StatusNotFound)
	_, err = h.todos.Update(asUser(uuid.New()), todo.ID, journal.TodoPatch{Completed: pointers.Ptr(true)})
	wantStatus(t, err, http.StatusNotFound)

	row, err := h.todos.Update(ctx, todo.ID, journal.TodoPatch{Completed: pointers.Ptr(true), Priority: pointers.Ptr(" HIGH ")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !row.Completed || row.Priority != "high" {
		t.Fatalf("unexpected row %+v", row)
	}
}

func TestAuthRoundTrip(t *testing.T) {
	svc := NewAuthService(logger.Nop(), "secret", time.Hour)
	userID := uuid.New()
	tok, err := svc.IssueAccessToken(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	ctx, err := svc.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got, err := requireUser(ctx); err != nil || got != userID {
		t.Fatalf("expected %s, got %s (%v)", userID, got, err)
	}

	other := NewAuthService(logger.Nop(), "other", time.Hour)
	if _, err := other.SetContextFromToken(context.Background(), tok); err == nil {
		t.Fatalf("token signed with another key must be rejected")
	}
	if _, err := svc.SetContextFromToken(context.Background(), ""); err == nil {
		t.Fatalf("empty token must be rejected")
	}
	expired := NewAuthService(logger.Nop(), "secret", -time.Minute)
	tok, _ = expired.IssueAccessToken(userID)
	if _, err := svc.SetContextFromToken(context.Background(), tok); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}
