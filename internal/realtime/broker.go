// internal/realtime/broker.go
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/model"
)

const channelPrefix = "site_config:"

// Broker fans site config changes out to live subscribers.
type Broker interface {
	Publish(ctx context.Context, cfg model.SiteConfig) error
	// Subscribe delivers every change to key until ctx is done, then closes the channel.
	Subscribe(ctx context.Context, key string) (<-chan model.SiteConfig, error)
}

// RedisBroker carries changes over Redis pub/sub so every instance sees them.
type RedisBroker struct {
	rdb    redis.UniversalClient
	logger *slog.Logger
}

func NewRedisBroker(rdb redis.UniversalClient, logger *slog.Logger) *RedisBroker {
	return &RedisBroker{rdb: rdb, logger: logger}
}

func channel(key string) string {
	return channelPrefix + key
}

func (b *RedisBroker) Publish(ctx context.Context, cfg model.SiteConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, channel(cfg.Key), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", cfg.Key, err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, key string) (<-chan model.SiteConfig, error) {
	sub := b.rdb.Subscribe(ctx, channel(key))
	// Wait for the confirmation so no publish after this call is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", key, err)
	}

	out := make(chan model.SiteConfig)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				cfg, err := decode(msg.Payload)
				if err != nil {
					b.logger.Warn("Dropping undecodable site config event", "key", key, "error", err)
					continue
				}
				select {
				case out <- cfg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func decode(payload string) (model.SiteConfig, error) {
	var cfg model.SiteConfig
	err := json.Unmarshal([]byte(payload), &cfg)
	return cfg, err
}
