package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"cutine-backend/config"
)

// RedisBus carries changes over one redis pub/sub channel, so every process
// pointed at the same redis sees the others' writes.
type RedisBus struct {
	log     *config.Logger
	rdb     *goredis.Client
	channel string
}

func NewRedisBus(ctx context.Context, log *config.Logger, addr, channel string) (*RedisBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if channel == "" {
		channel = "cutine:slots"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBus{
		log:     log.With("service", "RedisBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *RedisBus) Publish(ctx context.Context, change Change) error {
	raw, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, key string) (<-chan Change, error) {
	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Change, subscriberBuffer)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				change, ok := decodeChange(m.Payload)
				if !ok {
					b.log.Warn("bad redis change payload", "channel", b.channel)
					continue
				}
				if change.Key != key {
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}

func decodeChange(payload string) (Change, bool) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil || change.Key == "" {
		return Change{}, false
	}
	return change, true
}
