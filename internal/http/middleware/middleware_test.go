package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/pkg/ctxutil"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
	"github.com/yungbote/lifelog-backend/internal/services"
)

type stubAuth struct {
	userID uuid.UUID
	err    error
}

func (s stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if s.err != nil {
		return ctx, s.err
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: token, UserID: s.userID}), nil
}

func (s stubAuth) IssueAccessToken(uuid.UUID) (string, error) { return "", nil }

func authRouter(svc services.AuthService) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	seen := new(uuid.UUID)
	r := gin.New()
	r.Use(NewAuthMiddleware(logger.Nop(), svc).RequireAuth())
	r.GET("/me", func(c *gin.Context) {
		*seen = ctxutil.UserID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r, seen
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	cases := []struct {
		name   string
		svc    services.AuthService
		header string
		want   int
	}{
		{"missing header", stubAuth{userID: userID}, "", http.StatusUnauthorized},
		{"not bearer", stubAuth{userID: userID}, "Basic abc", http.StatusUnauthorized},
		{"rejected token", stubAuth{err: errors.New("expired")}, "Bearer abc", http.StatusUnauthorized},
		{"nil user", stubAuth{}, "Bearer abc", http.StatusForbidden},
		{"ok", stubAuth{userID: userID}, "bearer abc", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, seen := authRouter(tc.svc)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == http.StatusOK && *seen != userID {
				t.Fatalf("user not attached to context")
			}
		})
	}
}

func TestRequireAuthWithRealTokens(t *testing.T) {
	svc := services.NewAuthService(logger.Nop(), "secret", time.Hour)
	userID := uuid.New()
	tok, err := svc.IssueAccessToken(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r, seen := authRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || *seen != userID {
		t.Fatalf("status=%d user=%s", rec.Code, *seen)
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var td *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) {
		td = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if td == nil || td.RequestID != "req-1" || td.TraceID == "" {
		t.Fatalf("unexpected trace data %+v", td)
	}
	if rec.Header().Get(headerRequestID) != "req-1" || rec.Header().Get(headerTraceID) != td.TraceID {
		t.Fatalf("ids not echoed: %v", rec.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, strings.Repeat("x", maxClientIDLen+1))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if _, err := uuid.Parse(td.RequestID); err != nil {
		t.Fatalf("oversized request id should be replaced, got %q", td.RequestID)
	}
}
