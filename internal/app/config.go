package app

import (
	"time"

	"github.com/yungbote/lifelog-backend/internal/data/db"
	"github.com/yungbote/lifelog-backend/internal/pkg/envutil"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
	"github.com/yungbote/lifelog-backend/internal/pipelinecfg"
	"github.com/yungbote/lifelog-backend/internal/platform/openai"
)

type Config struct {
	Port           string
	Environment    string
	Version        string
	AllowedOrigins string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	DB db.Config

	RedisAddr       string
	OutcomeChannel  string
	OutcomeBuffer   int
	LockTTL         time.Duration
	ContextCacheTTL time.Duration
	JournalListMax  int

	MetricsAddr string

	OpenAI   openai.Config
	Pipeline pipelinecfg.Config
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:           envutil.String("PORT", "8080", log),
		Environment:    envutil.String("APP_ENV", "development", log),
		Version:        envutil.String("APP_VERSION", "dev", log),
		AllowedOrigins: envutil.String("CORS_ALLOWED_ORIGINS", "", log),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "defaultsecret", nil),
		AccessTokenTTL: time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,

		DB: db.ConfigFromEnv(log),

		RedisAddr:       envutil.String("REDIS_ADDR", "", log),
		OutcomeChannel:  envutil.String("REDIS_OUTCOME_CHANNEL", "suggestion-outcomes", log),
		OutcomeBuffer:   envutil.Int("OUTCOME_BUFFER", 256, log),
		LockTTL:         time.Duration(envutil.Int("PREFERENCES_LOCK_TTL_SECONDS", 10, log)) * time.Second,
		ContextCacheTTL: time.Duration(envutil.Int("CONTEXT_CACHE_TTL_SECONDS", 300, log)) * time.Second,
		JournalListMax:  envutil.Int("JOURNAL_LIST_LIMIT", 50, log),

		MetricsAddr: envutil.String("METRICS_ADDR", "", log),

		OpenAI:   openai.ConfigFromEnv(log),
		Pipeline: pipelinecfg.Load(log),
	}
}
