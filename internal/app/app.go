package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/yungbote/lifelog-backend/internal/data/db"
	"github.com/yungbote/lifelog-backend/internal/http"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/observability"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics

	dbs          *db.DatabaseService
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func newLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	return logger.New(logMode)
}

// Bootstrap opens the logger, config and database. It is the part shared by
// the server and the offline commands.
func Bootstrap() (*App, error) {
	log, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	dbs, err := db.NewDatabaseService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbs.DB()); err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	return &App{
		Log:          log,
		DB:           dbs.DB(),
		Cfg:          cfg,
		Metrics:      observability.Init(log),
		dbs:          dbs,
		otelShutdown: func(context.Context) error { return nil },
	}, nil
}

func New() (*App, error) {
	a, err := Bootstrap()
	if err != nil {
		return nil, err
	}
	a.otelShutdown = observability.InitOTel(context.Background(), a.Log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})

	a.Repos = wireRepos(a.DB, a.Log)
	a.Clients = wireClients(a.Log, a.Cfg)
	a.Services = wireServices(a.DB, a.Log, a.Cfg, a.Repos, a.Clients, a.Metrics)
	handlers := wireHandlers(a.Log, a.Services, readinessChecks(a))
	a.Server = wireServer(a.Log, a.Cfg, a.Services, handlers, a.Metrics)
	return a, nil
}

// Start launches background work: the outcome forwarder and metrics collectors.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Services.Outcomes != nil {
		if err := a.Services.Outcomes.Start(ctx); err != nil {
			return fmt.Errorf("start outcome forwarder: %w", err)
		}
	}
	if a.Metrics != nil {
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Clients.Redis)
		}
		if a.Cfg.MetricsAddr != "" {
			a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		}
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx, ":"+a.Cfg.Port)
}

// PreferenceEngine returns the wired engine, building it on demand for
// commands that only ran Bootstrap.
func (a *App) PreferenceEngine() *preferences.Engine {
	if a.Services.Preferences == nil {
		a.Repos = wireRepos(a.DB, a.Log)
		a.Clients = wireClients(a.Log, a.Cfg)
		a.Services.Preferences = wireEngine(a.DB, a.Log, a.Cfg, a.Repos, a.Clients.Locker, a.Metrics)
	}
	return a.Services.Preferences
}

// RecalibrateAll runs one auto-adjust pass over every opted-in user.
func (a *App) RecalibrateAll(ctx context.Context) (adjusted, failed int, err error) {
	if a == nil {
		return 0, 0, fmt.Errorf("app not initialized")
	}
	return a.PreferenceEngine().RecalibrateAll(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.dbs != nil {
		_ = a.dbs.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
