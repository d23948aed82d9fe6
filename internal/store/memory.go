package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

// Memory is an in-process store with the same contract as Postgres.
// It backs demo mode and tests.
type Memory struct {
	mu      sync.RWMutex
	records []core.Registration
	now     func() time.Time

	subMu sync.Mutex
	subs  map[string]func()
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock sets the clock used for creation timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		now:  time.Now,
		subs: make(map[string]func()),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Insert assigns an ID and creation time and notifies subscribers.
func (m *Memory) Insert(ctx context.Context, r core.NewRegistration) (core.Registration, error) {
	if err := ctx.Err(); err != nil {
		return core.Registration{}, err
	}
	rec := core.Registration{
		ID:                       uuid.NewString(),
		FullName:                 r.FullName,
		CorporateEmail:           r.CorporateEmail,
		Department:               r.Department,
		AutomationFamiliarity:    r.AutomationFamiliarity,
		ParticipationDay:         r.ParticipationDay,
		NeedsAccessibility:       r.NeedsAccessibility,
		AccessibilityDescription: r.AccessibilityDescription,
		Observations:             r.Observations,
		CreatedAt:                m.now().UTC(),
	}

	m.mu.Lock()
	m.records = append(m.records, rec)
	m.mu.Unlock()

	m.broadcast()
	return rec, nil
}

// Delete removes a record, simulating out-of-band administrative action.
func (m *Memory) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	idx := slices.IndexFunc(m.records, func(r core.Registration) bool { return r.ID == id })
	if idx >= 0 {
		m.records = slices.Delete(m.records, idx, idx+1)
	}
	m.mu.Unlock()

	if idx < 0 {
		return false, nil
	}
	m.broadcast()
	return true, nil
}

// List returns a copy of all records, newest first.
func (m *Memory) List(ctx context.Context) ([]core.Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := slices.Clone(m.records)
	m.mu.RUnlock()

	// Later inserts win ties on equal timestamps.
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b core.Registration) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if out == nil {
		out = []core.Registration{}
	}
	return out, nil
}

// Subscribe registers onChange for every insert or delete.
func (m *Memory) Subscribe(ctx context.Context, onChange func()) (core.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := uuid.NewString()

	m.subMu.Lock()
	m.subs[id] = onChange
	m.subMu.Unlock()

	return &memorySubscription{m: m, id: id}, nil
}

// Publish notifies subscribers without changing data.
func (m *Memory) Publish(ctx context.Context) error {
	m.broadcast()
	return ctx.Err()
}

func (m *Memory) broadcast() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, fn := range m.subs {
		fn()
	}
}

type memorySubscription struct {
	m    *Memory
	id   string
	once sync.Once
}

// Unsubscribe removes the callback. Once it returns the callback is not
// invoked again.
func (s *memorySubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.m.subMu.Lock()
		delete(s.m.subs, s.id)
		s.m.subMu.Unlock()
	})
	return nil
}
