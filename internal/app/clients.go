package app

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lifelog-backend/internal/clients/redis"
	"github.com/yungbote/lifelog-backend/internal/data/aggregates"
	"github.com/yungbote/lifelog-backend/internal/modules/extraction"
	"github.com/yungbote/lifelog-backend/internal/modules/usercontext"
	"github.com/yungbote/lifelog-backend/internal/pkg/keylock"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
	"github.com/yungbote/lifelog-backend/internal/platform/openai"
)

// Clients are the optional external collaborators. Each falls back to an
// in-process stand-in so a single replica runs with nothing but a database.
type Clients struct {
	Redis        *goredis.Client
	Locker       aggregates.Locker
	OutcomeBus   redis.OutcomeBus
	ContextCache usercontext.Cache
	Extractor    extraction.Provider
}

func wireClients(log *logger.Logger, cfg Config) Clients {
	log.Info("Wiring clients...")
	var c Clients

	if cfg.RedisAddr != "" {
		rdb, err := redis.NewClient(log, cfg.RedisAddr)
		if err != nil {
			log.Warn("redis unavailable, using in-process fallbacks", "error", err)
		} else {
			c.Redis = rdb
		}
	}

	if c.Redis != nil {
		c.Locker = redis.NewLocker(c.Redis, cfg.LockTTL)
		c.ContextCache = redis.NewContextCache(c.Redis)
		bus, err := redis.NewOutcomeBus(log, c.Redis, cfg.OutcomeChannel)
		if err != nil {
			log.Warn("redis outcome bus init failed, using in-process bus", "error", err)
		} else {
			c.OutcomeBus = bus
		}
	}
	if c.Locker == nil {
		c.Locker = keylock.New()
	}
	if c.ContextCache == nil {
		c.ContextCache = redis.NopCache{}
	}
	if c.OutcomeBus == nil {
		c.OutcomeBus = redis.NewMemoryOutcomeBus(log, cfg.OutcomeBuffer)
	}

	if cfg.OpenAI.APIKey != "" {
		client, err := openai.NewClient(log, cfg.OpenAI)
		if err != nil {
			log.Warn("openai client init failed, analyze disabled", "error", err)
		} else {
			c.Extractor = extraction.NewLLMExtractor(client)
		}
	} else {
		log.Info("OPENAI_API_KEY not set, analyze disabled")
	}
	return c
}

func (c *Clients) ping(ctx context.Context) error {
	if c == nil || c.Redis == nil {
		return nil
	}
	return c.Redis.Ping(ctx).Err()
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.OutcomeBus != nil {
		_ = c.OutcomeBus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
