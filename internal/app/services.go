package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lifelog-backend/internal/data/aggregates"
	"github.com/yungbote/lifelog-backend/internal/modules/extraction"
	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/modules/usercontext"
	"github.com/yungbote/lifelog-backend/internal/observability"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
	"github.com/yungbote/lifelog-backend/internal/services"
)

type Services struct {
	Preferences *preferences.Engine
	Context     *usercontext.Aggregator
	Gate        *extraction.Gate

	Auth           services.AuthService
	Journal        services.JournalService
	JournalActions services.JournalActionsService
	Analyze        services.AnalyzeService
	PrefsAPI       services.PreferencesService
	Outcomes       services.OutcomeService
	ContextAPI     services.ContextService
	Todos          services.TodoService
}

// wireEngine builds the preference engine on the transactional store. The
// recalibration command shares it.
func wireEngine(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, locker aggregates.Locker, metrics *observability.Metrics) *preferences.Engine {
	store := aggregates.NewPreferencesStore(
		log,
		r.UserPreferences,
		aggregates.NewGormTxRunner(db),
		locker,
		aggregates.NewObservabilityHooks(metrics),
	)
	return preferences.NewEngine(log, store, cfg.Pipeline)
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	engine := wireEngine(db, log, cfg, r, c.Locker, metrics)

	sources := usercontext.NewRepoSources(r.JournalEntry, r.Mood, r.Todo, r.Media, r.Habit, engine)
	agg := usercontext.NewAggregator(log, sources, c.ContextCache, cfg.ContextCacheTTL, cfg.Pipeline.Context, engine.DefaultFilters())

	validator := extraction.NewValidator(extraction.NewNormalizer(cfg.Pipeline.ConfidenceDefaults))
	sink := services.NewRecordSink(r.Mood, r.Todo, r.Media, r.Habit)
	gate := extraction.NewGate(log, validator, sink)

	return Services{
		Preferences: engine,
		Context:     agg,
		Gate:        gate,

		Auth:           services.NewAuthService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Journal:        services.NewJournalService(log, r.JournalEntry, agg, cfg.JournalListMax),
		JournalActions: services.NewJournalActionsService(log, r.JournalEntry, engine, gate, agg),
		Analyze:        services.NewAnalyzeService(log, r.JournalEntry, engine, agg, validator, c.Extractor),
		PrefsAPI:       services.NewPreferencesService(log, engine, agg),
		Outcomes:       services.NewOutcomeService(log, c.OutcomeBus, engine),
		ContextAPI:     services.NewContextService(log, agg),
		Todos:          services.NewTodoService(log, r.Todo, agg),
	}
}
