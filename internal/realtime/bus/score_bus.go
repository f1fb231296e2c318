package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/services"
)

const DefaultScoreChannel = "compliance.score"

type Config struct {
	Addr    string
	Channel string
}

// ScoreBus fans score.updated events out over Redis pub/sub.
type ScoreBus interface {
	services.ScoreEventPublisher
	StartForwarder(ctx context.Context, onMsg func(ev services.ScoreUpdatedEvent)) error
	Client() goredis.UniversalClient
	Close() error
}

type scoreBus struct {
	log     *logger.Logger
	rdb     goredis.UniversalClient
	channel string
}

func NewScoreBus(log *logger.Logger, cfg Config) (ScoreBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewScoreBusWithClient(log, rdb, cfg.Channel), nil
}

// NewScoreBusWithClient wraps an existing client.
func NewScoreBusWithClient(log *logger.Logger, rdb goredis.UniversalClient, channel string) ScoreBus {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultScoreChannel
	}
	return &scoreBus{
		log:     log.With("service", "RedisScoreBus"),
		rdb:     rdb,
		channel: channel,
	}
}

func (b *scoreBus) PublishScoreUpdated(ctx context.Context, ev services.ScoreUpdatedEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis score bus not initialized")
	}
	if ev.Event == "" {
		ev.Event = services.ScoreEventUpdated
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *scoreBus) StartForwarder(ctx context.Context, onMsg func(ev services.ScoreUpdatedEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis score bus not initialized")
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
				var ev services.ScoreUpdatedEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad redis score payload", "error", err)
					continue
				}
				onMsg(ev)
			}
		}
	}()

	return nil
}

func (b *scoreBus) Client() goredis.UniversalClient {
	if b == nil {
		return nil
	}
	return b.rdb
}

func (b *scoreBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
