// Package review maintains the HR team's local copy of all registrations and
// derives the searchable, sortable, paginated table and the CSV export from it.
//
// The local copy is refreshed wholesale: once at start and again on every
// change notification. Reloads are not serialised; if two overlap, whichever
// finishes last becomes the visible state.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

// Reload outcomes reported to the metrics recorder.
const (
	ReloadResultOK     = "ok"
	ReloadResultFailed = "failed"
)

// ReloadRecorder observes reload outcomes. Optional.
type ReloadRecorder interface {
	ObserveReload(result string, records int)
}

// Options configures a Pipeline.
type Options struct {
	Locale   Locale
	Location *time.Location
	Prefix   string
	Logger   *slog.Logger
	Metrics  ReloadRecorder
	Now      func() time.Time

	// ResyncInterval reloads periodically in case a notification was lost.
	// 0 disables it.
	ResyncInterval time.Duration
}

// Pipeline owns the local registration list.
type Pipeline struct {
	source  core.Lister
	opts    Options
	logger  *slog.Logger
	metrics ReloadRecorder
	now     func() time.Time

	mu       sync.RWMutex
	records  []core.Registration
	loadedAt time.Time

	listenerMu sync.Mutex
	listeners  map[chan struct{}]struct{}
}

// NewPipeline creates a Pipeline reading from source. The list starts empty
// until the first Reload.
func NewPipeline(source core.Lister, opts Options) *Pipeline {
	if len(opts.Locale.Headers) == 0 {
		opts.Locale = English
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source:    source,
		opts:      opts,
		logger:    logger.With("component", "review"),
		metrics:   opts.Metrics,
		now:       now,
		records:   []core.Registration{},
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Reload reads the full set from the store and replaces the local list.
// On failure the previous list is kept and the error is logged and returned
// wrapped in core.ErrLoadFailed.
func (p *Pipeline) Reload(ctx context.Context) error {
	start := time.Now()

	records, err := p.source.List(ctx)
	if err != nil {
		p.observe(ReloadResultFailed, p.Len())
		p.logger.Error("reload registrations failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("%w: %w", core.ErrLoadFailed, err)
	}
	if records == nil {
		records = []core.Registration{}
	}

	p.mu.Lock()
	p.records = records
	p.loadedAt = p.now()
	p.mu.Unlock()

	p.observe(ReloadResultOK, len(records))
	p.logger.Debug("registrations reloaded",
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	p.notify()
	return nil
}

// Watch subscribes to feed, reloads once, and then reloads on every
// notification and every ResyncInterval until ctx is cancelled, then
// unsubscribes. Subscribing first
// means a change made during the initial load is not missed. A failed load
// is logged and does not stop the watch. Watch returns an error only when
// the subscription cannot be established.
func (p *Pipeline) Watch(ctx context.Context, feed core.Feed) error {
	var wg sync.WaitGroup
	sub, err := feed.Subscribe(ctx, func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Reload(ctx)
		}()
	})
	if err != nil {
		return fmt.Errorf("subscribe to registration changes: %w", err)
	}
	p.logger.Info("watching registration changes", "resync_interval", p.opts.ResyncInterval)

	_ = p.Reload(ctx)

	var resync <-chan time.Time
	if p.opts.ResyncInterval > 0 {
		ticker := time.NewTicker(p.opts.ResyncInterval)
		defer ticker.Stop()
		resync = ticker.C
	}
	for done := false; !done; {
		select {
		case <-ctx.Done():
			done = true
		case <-resync:
			p.logger.Debug("periodic resync")
			_ = p.Reload(ctx)
		}
	}

	if err := sub.Unsubscribe(); err != nil {
		p.logger.Warn("unsubscribe failed", "error", err)
	}
	wg.Wait()
	p.logger.Info("stopped watching registration changes")
	return nil
}

// Snapshot returns the current local list in store order. The slice is
// shared and must not be modified.
func (p *Pipeline) Snapshot() []core.Registration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.records
}

// Len returns the number of records in the local list.
func (p *Pipeline) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}

// LoadedAt returns the time of the last successful reload, or the zero time.
func (p *Pipeline) LoadedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadedAt
}

// Derive returns the derived view of the current local list for v.
func (p *Pipeline) Derive(v View) Result {
	return Derive(p.Snapshot(), v, p.opts.Locale.Tag)
}

// Export renders the whole local list, ignoring any view state.
func (p *Pipeline) Export() (Document, error) {
	return Export(p.Snapshot(), p.now(), ExportOptions{
		Locale:   p.opts.Locale,
		Location: p.opts.Location,
		Prefix:   p.opts.Prefix,
	})
}

// Changes returns a channel that receives a value after every successful
// reload, and a function that releases it. Notifications are coalesced:
// a slow reader sees at most one pending value.
func (p *Pipeline) Changes() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	p.listenerMu.Lock()
	p.listeners[ch] = struct{}{}
	p.listenerMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.listenerMu.Lock()
			delete(p.listeners, ch)
			p.listenerMu.Unlock()
		})
	}
}

func (p *Pipeline) notify() {
	p.listenerMu.Lock()
	defer p.listenerMu.Unlock()
	for ch := range p.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (p *Pipeline) observe(result string, records int) {
	if p.metrics != nil {
		p.metrics.ObserveReload(result, records)
	}
}
