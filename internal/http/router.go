package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lifelog-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lifelog-backend/internal/http/middleware"
	"github.com/yungbote/lifelog-backend/internal/observability"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

const metricsPath = "/metrics"

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	JournalHandler     *httpH.JournalHandler
	PreferencesHandler *httpH.PreferencesHandler
	ContextHandler     *httpH.ContextHandler
	TodoHandler        *httpH.TodoHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics, metricsPath))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET(metricsPath, gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// Journal
		if cfg.JournalHandler != nil {
			api.POST("/journal", cfg.JournalHandler.Create)
			api.GET("/journal", cfg.JournalHandler.List)
			api.POST("/journal/actions", cfg.JournalHandler.Actions)
			api.GET("/journal/:id", cfg.JournalHandler.Get)
			api.POST("/journal/:id/analyze", cfg.JournalHandler.Analyze)
		}

		// Preferences + learning
		if cfg.PreferencesHandler != nil {
			api.GET("/journal/preferences", cfg.PreferencesHandler.Get)
			api.PUT("/journal/preferences", cfg.PreferencesHandler.Update)
			api.DELETE("/journal/preferences", cfg.PreferencesHandler.Reset)
			api.POST("/journal/suggestions/outcomes", cfg.PreferencesHandler.SubmitOutcomes)
		}

		// Context
		if cfg.ContextHandler != nil {
			api.GET("/journal/context", cfg.ContextHandler.Full)
			api.GET("/journal/context/light", cfg.ContextHandler.Light)
		}

		// Todos
		if cfg.TodoHandler != nil {
			api.PATCH("/todos/:id", cfg.TodoHandler.Update)
		}
	}

	return r
}
