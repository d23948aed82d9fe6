package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

// DefaultRedisChannel is the pub/sub channel used when none is configured.
const DefaultRedisChannel = "training:registrations:changed"

// RedisConfig holds connection settings for the Redis change feed.
type RedisConfig struct {
	URL          string
	Channel      string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisClient creates a client from cfg and checks that it answers PING.
// Returns nil if the URL is empty.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisFeed fans change notifications out over Redis pub/sub so several
// server instances sharing one store refresh together.
type RedisFeed struct {
	client  *redis.Client
	channel string
}

// NewRedisFeed creates a feed on channel. An empty channel uses
// DefaultRedisChannel.
func NewRedisFeed(client *redis.Client, channel string) *RedisFeed {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisFeed{client: client, channel: channel}
}

// Publish announces that the record set changed.
func (f *RedisFeed) Publish(ctx context.Context) error {
	if err := f.client.Publish(ctx, f.channel, "changed").Err(); err != nil {
		return fmt.Errorf("publish %s: %w", f.channel, err)
	}
	return nil
}

// Subscribe calls onChange for every message on the channel.
func (f *RedisFeed) Subscribe(ctx context.Context, onChange func()) (core.Subscription, error) {
	ps := f.client.Subscribe(ctx, f.channel)
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", f.channel, err)
	}

	sub := &redisSubscription{ps: ps, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		for range ps.Channel() {
			onChange()
		}
		slog.Debug("redis subscription closed", "channel", f.channel)
	}()
	return sub, nil
}

type redisSubscription struct {
	ps   *redis.PubSub
	done chan struct{}
	once sync.Once
	err  error
}

// Unsubscribe closes the pub/sub connection and waits for the delivery
// goroutine to finish.
func (s *redisSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.err = s.ps.Close()
	})
	<-s.done
	return s.err
}
