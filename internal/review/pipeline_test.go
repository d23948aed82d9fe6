package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/TrainingReg/internal/core"
	"github.com/JonMunkholm/TrainingReg/internal/store"
)

// scriptedLister returns queued responses in order. A response with a
// non-nil gate blocks until the gate is closed.
type scriptedLister struct {
	mu        sync.Mutex
	responses []listResponse
}

type listResponse struct {
	records []core.Registration
	err     error
	gate    chan struct{}
}

func (s *scriptedLister) push(r listResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, r)
}

func (s *scriptedLister) List(ctx context.Context) ([]core.Registration, error) {
	s.mu.Lock()
	if len(s.responses) == 0 {
		s.mu.Unlock()
		return nil, errors.New("no scripted response")
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	s.mu.Unlock()

	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.records, r.err
}

type reloadRecorder struct {
	mu      sync.Mutex
	results []string
}

func (r *reloadRecorder) ObserveReload(result string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func TestPipeline_StartsEmpty(t *testing.T) {
	p := NewPipeline(&scriptedLister{}, Options{})
	assert.Equal(t, 0, p.Len())
	assert.True(t, p.LoadedAt().IsZero())
	assert.Equal(t, 0, p.Derive(NewView()).TotalPages)
}

func TestPipeline_ReloadReplacesList(t *testing.T) {
	src := &scriptedLister{}
	src.push(listResponse{records: makeRecords(3)})
	src.push(listResponse{records: makeRecords(12)})

	loaded := baseTime.Add(time.Hour)
	p := NewPipeline(src, Options{Now: func() time.Time { return loaded }})

	require.NoError(t, p.Reload(context.Background()))
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, loaded, p.LoadedAt())

	require.NoError(t, p.Reload(context.Background()))
	assert.Equal(t, 12, p.Len())
	assert.Equal(t, 2, p.Derive(NewView()).TotalPages)
}

func TestPipeline_FailedReloadKeepsStaleList(t *testing.T) {
	src := &scriptedLister{}
	src.push(listResponse{records: makeRecords(4)})
	storeErr := errors.New("connection reset by peer")
	src.push(listResponse{err: storeErr})

	rec := &reloadRecorder{}
	p := NewPipeline(src, Options{Metrics: rec})

	require.NoError(t, p.Reload(context.Background()))
	loadedAt := p.LoadedAt()

	err := p.Reload(context.Background())
	assert.ErrorIs(t, err, core.ErrLoadFailed)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, "LOAD001", core.MapError(err).Code)
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, loadedAt, p.LoadedAt())
	assert.Equal(t, []string{ReloadResultOK, ReloadResultFailed}, rec.results)
}

func TestPipeline_OverlappingReloadsLastCompletionWins(t *testing.T) {
	src := &scriptedLister{}
	slow := make(chan struct{})
	src.push(listResponse{records: makeRecords(2), gate: slow})
	src.push(listResponse{records: makeRecords(7)})

	p := NewPipeline(src, Options{})

	done := make(chan error, 1)
	go func() { done <- p.Reload(context.Background()) }()

	// Let the slow reload take its response before the fast one runs.
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return len(src.responses) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, p.Reload(context.Background()))
	assert.Equal(t, 7, p.Len())

	close(slow)
	require.NoError(t, <-done)
	assert.Equal(t, 2, p.Len())
}

func TestPipeline_ExportIgnoresView(t *testing.T) {
	src := &scriptedLister{}
	src.push(listResponse{records: makeRecords(15)})

	p := NewPipeline(src, Options{Now: func() time.Time { return baseTime }})
	require.NoError(t, p.Reload(context.Background()))

	doc, err := p.Export()
	require.NoError(t, err)
	assert.Equal(t, 15, doc.Rows)
	assert.Equal(t, "training-registrations-2024-12-01.csv", doc.Name)
}

func TestPipeline_ChangesCoalesce(t *testing.T) {
	src := &scriptedLister{}
	for range 3 {
		src.push(listResponse{records: makeRecords(1)})
	}
	p := NewPipeline(src, Options{})

	ch, release := p.Changes()
	defer release()

	for range 3 {
		require.NoError(t, p.Reload(context.Background()))
	}

	select {
	case <-ch:
	default:
		t.Fatal("expected a change notification")
	}
	select {
	case <-ch:
		t.Fatal("notifications should coalesce")
	default:
	}
}

func TestPipeline_ChangesReleaseStopsDelivery(t *testing.T) {
	src := &scriptedLister{}
	src.push(listResponse{records: makeRecords(1)})
	p := NewPipeline(src, Options{})

	ch, release := p.Changes()
	release()
	release()

	require.NoError(t, p.Reload(context.Background()))
	select {
	case <-ch:
		t.Fatal("released listener received a notification")
	default:
	}
}

func TestPipeline_WatchFollowsStore(t *testing.T) {
	mem := store.NewMemory()
	_, err := mem.Insert(context.Background(), core.NewRegistration{FullName: "Ana Souza"})
	require.NoError(t, err)

	p := NewPipeline(mem, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	watchErr := make(chan error, 1)
	go func() { watchErr <- p.Watch(ctx, mem) }()

	require.Eventually(t, func() bool { return p.Len() == 1 }, time.Second, 5*time.Millisecond)

	_, err = mem.Insert(context.Background(), core.NewRegistration{FullName: "Bruno Lima"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return p.Len() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-watchErr)
}

type failingFeed struct{}

func (failingFeed) Subscribe(context.Context, func()) (core.Subscription, error) {
	return nil, errors.New("listen failed")
}

func TestPipeline_WatchReturnsSubscribeError(t *testing.T) {
	p := NewPipeline(&scriptedLister{}, Options{})

	err := p.Watch(context.Background(), failingFeed{})
	assert.ErrorContains(t, err, "subscribe to registration changes")
	assert.Equal(t, 0, p.Len())
}

type silentFeed struct{}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() error { return nil }

func (silentFeed) Subscribe(context.Context, func()) (core.Subscription, error) {
	return noopSubscription{}, nil
}

// growingLister returns one more record on every call.
type growingLister struct {
	mu    sync.Mutex
	calls int
}

func (g *growingLister) List(context.Context) ([]core.Registration, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return makeRecords(g.calls), nil
}

func TestPipeline_WatchResyncsWithoutNotifications(t *testing.T) {
	src := &growingLister{}
	p := NewPipeline(src, Options{ResyncInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	watchErr := make(chan error, 1)
	go func() { watchErr <- p.Watch(ctx, silentFeed{}) }()

	require.Eventually(t, func() bool { return p.Len() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-watchErr)
}
