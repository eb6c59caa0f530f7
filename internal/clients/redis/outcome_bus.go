package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
	"github.com/yungbote/lifelog-backend/internal/pkg/logger"
)

// OutcomeEvent is one accept/reject decision in flight to the learning engine.
type OutcomeEvent struct {
	UserID  uuid.UUID           `json:"userId"`
	Outcome preferences.Outcome `json:"outcome"`
}

type OutcomeBus interface {
	Publish(ctx context.Context, ev OutcomeEvent) error
	StartForwarder(ctx context.Context, onMsg func(ev OutcomeEvent)) error
	Close() error
}

type outcomeBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewOutcomeBus(log *logger.Logger, rdb *goredis.Client, channel string) (OutcomeBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if channel == "" {
		channel = "suggestion-outcomes"
	}
	return &outcomeBus{
		log:     log.With("service", "RedisOutcomeBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *outcomeBus) Publish(ctx context.Context, ev OutcomeEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis outcome bus not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *outcomeBus) StartForwarder(ctx context.Context, onMsg func(ev OutcomeEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis outcome bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var ev OutcomeEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad redis outcome payload", "error", err)
					continue
				}
				onMsg(ev)
			}
		}
	}()
	return nil
}

// Close leaves the shared client open; the app owns it.
func (b *outcomeBus) Close() error { return nil }

// memoryBus is the single-process OutcomeBus used when redis is not configured.
type memoryBus struct {
	log    *logger.Logger
	ch     chan OutcomeEvent
	mu     sync.Mutex
	closed bool
}

func NewMemoryOutcomeBus(log *logger.Logger, buffer int) OutcomeBus {
	if buffer <= 0 {
		buffer = 256
	}
	return &memoryBus{log: log.With("service", "MemoryOutcomeBus"), ch: make(chan OutcomeEvent, buffer)}
}

func (b *memoryBus) Publish(ctx context.Context, ev OutcomeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("outcome bus closed")
	}
	select {
	case b.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *memoryBus) StartForwarder(ctx context.Context, onMsg func(ev OutcomeEvent)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-b.ch:
				if !ok {
					return
				}
				onMsg(ev)
			}
		}
	}()
	return nil
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
	return nil
}
