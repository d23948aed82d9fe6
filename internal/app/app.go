// Package app assembles the store, change feed and review options from
// configuration for the server and CLI binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/TrainingReg/internal/config"
	"github.com/JonMunkholm/TrainingReg/internal/core"
	"github.com/JonMunkholm/TrainingReg/internal/review"
	"github.com/JonMunkholm/TrainingReg/internal/store"
)

// Version is set at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

// Pinger reports backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend is the opened record store and its change feed.
type Backend struct {
	Store     core.Store
	Publisher core.Publisher // nil when the store drives its own feed
	Health    Pinger         // nil for the in-memory store
	Driver    string

	closers []func()
}

// Close releases connections in reverse order of opening.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// Open connects the store selected by cfg. With a database URL it opens a
// pgx pool and, when enabled, applies migrations; otherwise registrations
// live in memory. FEED_DRIVER=redis replaces the store's own feed with
// Redis pub/sub.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{Driver: cfg.FeedDriver()}

	var base interface {
		core.Inserter
		core.Lister
	}

	if cfg.UsesDatabase() {
		if cfg.Database.AutoMigrate {
			if err := store.MigrateUp(cfg.Database.URL, logger); err != nil {
				return nil, err
			}
		}
		pool, err := store.Connect(ctx, store.PoolConfig{
			URL:      cfg.Database.URL,
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)

		pg := store.NewPostgres(pool)
		b.Store = pg
		b.Health = pg
		base = pg
		logger.Info("using postgres store", "max_conns", cfg.Database.MaxConns)
	} else {
		mem := store.NewMemory()
		b.Store = mem
		base = mem
		logger.Warn("DATABASE_URL not set, registrations are kept in memory only")
	}

	if b.Driver == config.FeedRedis {
		client, err := store.NewRedisClient(ctx, store.RedisConfig{
			URL:          cfg.Feed.RedisURL,
			Channel:      cfg.Feed.RedisChannel,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = client.Close() })

		feed := store.NewRedisFeed(client, cfg.Feed.RedisChannel)
		b.Store = store.WithFeed(base, feed)
		b.Publisher = feed
		logger.Info("using redis change feed", "channel", cfg.Feed.RedisChannel)
	}

	return b, nil
}

// ReviewOptions builds the review pipeline options from the export settings.
func ReviewOptions(cfg *config.Config) (review.Options, error) {
	locale, err := review.LocaleFor(cfg.Export.Locale)
	if err != nil {
		return review.Options{}, fmt.Errorf("export locale: %w", err)
	}
	loc, err := time.LoadLocation(cfg.Export.Timezone)
	if err != nil {
		return review.Options{}, fmt.Errorf("export timezone: %w", err)
	}
	return review.Options{
		Locale:         locale,
		Location:       loc,
		Prefix:         cfg.Export.FilePrefix,
		ResyncInterval: cfg.Review.ResyncInterval,
	}, nil
}
