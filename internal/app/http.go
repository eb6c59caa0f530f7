package app

import (
	"context"

	"github.com/yungbote/lifelog-backend/internal/http"
	httpH "github.com/yungbote/lifelog-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lifelog-backend/internal/http/middleware"
	"github.com/yungbote/lifelog-backend/internal/observability"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

const serviceName = "lifelog-backend"

type Handlers struct {
	Health      *httpH.HealthHandler
	Journal     *httpH.JournalHandler
	Preferences *httpH.PreferencesHandler
	Context     *httpH.ContextHandler
	Todo        *httpH.TodoHandler
}

func wireHandlers(log *logger.Logger, s Services, checks map[string]httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(checks),
		Journal:     httpH.NewJournalHandler(s.Journal, s.JournalActions, s.Analyze),
		Preferences: httpH.NewPreferencesHandler(s.PrefsAPI, s.Outcomes),
		Context:     httpH.NewContextHandler(s.ContextAPI),
		Todo:        httpH.NewTodoHandler(s.Todos),
	}
}

func wireServer(log *logger.Logger, cfg Config, s Services, h Handlers, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:                log,
		ServiceName:        serviceName,
		AllowedOrigins:     cfg.AllowedOrigins,
		Metrics:            metrics,
		AuthMiddleware:     httpMW.NewAuthMiddleware(log, s.Auth),
		JournalHandler:     h.Journal,
		PreferencesHandler: h.Preferences,
		ContextHandler:     h.Context,
		TodoHandler:        h.Todo,
		HealthHandler:      h.Health,
	})
}

func readinessChecks(a *App) map[string]httpH.Pinger {
	return map[string]httpH.Pinger{
		"db": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": a.Clients.ping,
	}
}
