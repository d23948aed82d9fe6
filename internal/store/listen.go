package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

// listenRetryDelay is how long the listener waits before reacquiring a
// connection after losing one.
const listenRetryDelay = 2 * time.Second

// Subscribe holds one pooled connection in LISTEN mode and calls onChange for
// every notification on ChangeChannel. Lost connections are reacquired; each
// reconnect also fires onChange since notifications may have been missed.
func (p *Postgres) Subscribe(ctx context.Context, onChange func()) (core.Subscription, error) {
	conn, err := p.listen(ctx)
	if err != nil {
		return nil, err
	}

	lctx, cancel := context.WithCancel(context.Background())
	sub := &pgSubscription{cancel: cancel, done: make(chan struct{})}
	go sub.run(lctx, p, conn, onChange)
	return sub, nil
}

func (p *Postgres) listen(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ChangeChannel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", ChangeChannel, err)
	}
	return conn, nil
}

type pgSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *pgSubscription) run(ctx context.Context, p *Postgres, conn *pgxpool.Conn, onChange func()) {
	defer close(s.done)
	logger := slog.Default().With("component", "pg_listener", "channel", ChangeChannel)

	for {
		_, err := conn.Conn().WaitForNotification(ctx)
		if err == nil {
			onChange()
			continue
		}
		if ctx.Err() != nil {
			unlisten(conn)
			return
		}

		logger.Warn("notification wait failed, reconnecting", "error", err)
		// Destroy rather than return a broken connection to the pool.
		conn.Hijack().Close(context.Background())

		conn = nil
		for conn == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(listenRetryDelay):
			}
			c, err := p.listen(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Warn("listen reconnect failed", "error", err)
				}
				continue
			}
			conn = c
		}
		logger.Info("listener reconnected")
		onChange()
	}
}

func unlisten(conn *pgxpool.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := conn.Exec(ctx, "UNLISTEN *"); err != nil {
		conn.Hijack().Close(ctx)
		return
	}
	conn.Release()
}

// Unsubscribe stops the listener and waits for it to exit. Once it returns
// the callback is not invoked again.
func (s *pgSubscription) Unsubscribe() error {
	s.once.Do(s.cancel)
	<-s.done
	return nil
}
