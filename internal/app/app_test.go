package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/clients/redis"
	"github.com/yungbote/lifelog-backend/internal/pkg/keylock"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

func TestWireClientsFallsBackWithoutRedis(t *testing.T) {
	c := wireClients(logger.Nop(), Config{OutcomeBuffer: 4})
	defer c.Close()
	if c.Redis != nil {
		t.Fatalf("expected no redis client")
	}
	if _, ok := c.Locker.(*keylock.Map); !ok {
		t.Fatalf("expected in-process locker, got %T", c.Locker)
	}
	if _, ok := c.ContextCache.(redis.NopCache); !ok {
		t.Fatalf("expected nop cache, got %T", c.ContextCache)
	}
	if c.OutcomeBus == nil || c.Extractor != nil {
		t.Fatalf("unexpected clients %+v", c)
	}
	if err := c.ping(context.Background()); err != nil {
		t.Fatalf("ping without redis should be a no-op: %v", err)
	}
}

func newSQLiteApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "lifelog.db"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("LOG_MODE", "test")

	a, err := New()
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return a
}

func call(t *testing.T, a *App, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, req)
	return rec
}

func TestJournalFlowOverSQLite(t *testing.T) {
	if testing.Short() {
		t.Skip("sqlite end-to-end")
	}
	gin.SetMode(gin.TestMode)
	a := newSQLiteApp(t)
	token, err := a.Services.Auth.IssueAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	rec := call(t, a, token, http.MethodPost, "/api/journal", map[string]any{"content": "finished dune, need to call the doctor"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create journal: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Journal struct {
			ID string `json:"id"`
		} `json:"journal"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.Journal.ID == "" {
		t.Fatalf("decode journal: %v %s", err, rec.Body.String())
	}

	rec = call(t, a, token, http.MethodPost, "/api/journal/actions", map[string]any{
		"journalId": created.Journal.ID,
		"mood":      map[string]any{"value": "happy", "confidence": 0.9},
		"todos": []any{
			map[string]any{"title": "Call doctor", "confidence": 0.85},
			map[string]any{"title": "Maybe paint", "confidence": 0.3},
		},
		"media": []any{map[string]any{"title": "Dune", "type": "book", "status": "read", "confidence": 0.9}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("actions: %d %s", rec.Code, rec.Body.String())
	}
	var res struct {
		SavedItems struct {
			Mood  *json.RawMessage  `json:"mood"`
			Todos []json.RawMessage `json:"todos"`
			Media []json.RawMessage `json:"media"`
		} `json:"savedItems"`
		Errors         []json.RawMessage `json:"errors"`
		PartialSuccess bool              `json:"partialSuccess"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.SavedItems.Mood == nil || len(res.SavedItems.Todos) != 1 || len(res.SavedItems.Media) != 1 || len(res.Errors) != 1 || !res.PartialSuccess {
		t.Fatalf("unexpected commit result %s", rec.Body.String())
	}

	rec = call(t, a, token, http.MethodGet, "/api/journal/context?days=3", nil)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("Call doctor")) {
		t.Fatalf("context: %d %s", rec.Code, rec.Body.String())
	}

	rec = call(t, a, token, http.MethodPost, "/api/journal/"+created.Journal.ID+"/analyze", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("analyze without provider: %d", rec.Code)
	}

	rec = call(t, a, "", http.MethodGet, "/api/journal", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestPreferencesOverSQLite(t *testing.T) {
	if testing.Short() {
		t.Skip("sqlite end-to-end")
	}
	gin.SetMode(gin.TestMode)
	a := newSQLiteApp(t)
	token, _ := a.Services.Auth.IssueAccessToken(uuid.New())

	rec := call(t, a, token, http.MethodPut, "/api/journal/preferences", map[string]any{"confidenceThreshold": 0.8, "version": 42})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	var v struct {
		Preferences struct {
			ConfidenceThreshold float64 `json:"confidenceThreshold"`
			Version             int     `json:"version"`
		} `json:"preferences"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Preferences.ConfidenceThreshold != 0.8 || v.Preferences.Version != 2 {
		t.Fatalf("unexpected preferences %s", rec.Body.String())
	}

	rec = call(t, a, token, http.MethodDelete, "/api/journal/preferences", nil)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"version":1`)) {
		t.Fatalf("reset: %d %s", rec.Code, rec.Body.String())
	}

	adjusted, failed, err := a.RecalibrateAll(context.Background())
	if err != nil || failed != 0 || adjusted != 0 {
		t.Fatalf("recalibrate: adjusted=%d failed=%d err=%v", adjusted, failed, err)
	}
}
