package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

func newRegistration(name string) core.NewRegistration {
	return core.NewRegistration{
		FullName:              name,
		CorporateEmail:        "someone@corp.example",
		Department:            "TI",
		AutomationFamiliarity: "low",
		ParticipationDay:      "11/12",
	}
}

func stepClock(start time.Time, step time.Duration) func() time.Time {
	var n int64
	return func() time.Time {
		i := atomic.AddInt64(&n, 1) - 1
		return start.Add(time.Duration(i) * step)
	}
}

func TestMemory_InsertAssignsIDAndTime(t *testing.T) {
	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemory(WithClock(func() time.Time { return now }))

	rec, err := m.Insert(context.Background(), newRegistration("Ana Souza"))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, now, rec.CreatedAt)
	assert.Equal(t, "Ana Souza", rec.FullName)
}

func TestMemory_ListNewestFirst(t *testing.T) {
	start := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemory(WithClock(stepClock(start, time.Minute)))
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := m.Insert(ctx, newRegistration(name))
		require.NoError(t, err)
	}

	got, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "third", got[0].FullName)
	assert.Equal(t, "second", got[1].FullName)
	assert.Equal(t, "first", got[2].FullName)
}

func TestMemory_ListTiesKeepLatestInsertFirst(t *testing.T) {
	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemory(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, _ = m.Insert(ctx, newRegistration("a"))
	_, _ = m.Insert(ctx, newRegistration("b"))

	got, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", got[0].FullName)
	assert.Equal(t, "a", got[1].FullName)
}

func TestMemory_ListEmptyIsNotNil(t *testing.T) {
	got, err := NewMemory().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemory_ListReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, _ = m.Insert(ctx, newRegistration("original"))

	got, _ := m.List(ctx)
	got[0].FullName = "mutated"

	again, _ := m.List(ctx)
	assert.Equal(t, "original", again[0].FullName)
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	rec, _ := m.Insert(ctx, newRegistration("gone"))

	ok, err := m.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, _ := m.List(ctx)
	assert.Empty(t, got)
}

func TestMemory_SubscribeNotifiesUntilUnsubscribed(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var calls atomic.Int32
	sub, err := m.Subscribe(ctx, func() { calls.Add(1) })
	require.NoError(t, err)

	rec, _ := m.Insert(ctx, newRegistration("x"))
	_, _ = m.Delete(ctx, rec.ID)
	require.NoError(t, m.Publish(ctx))
	assert.Equal(t, int32(3), calls.Load())

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe())

	_, _ = m.Insert(ctx, newRegistration("y"))
	assert.Equal(t, int32(3), calls.Load())
}

func TestMemory_CancelledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Insert(ctx, newRegistration("x"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = m.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = m.Subscribe(ctx, func() {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithFeed(t *testing.T) {
	m := NewMemory()
	other := NewMemory()
	ctx := context.Background()

	var calls atomic.Int32
	c := WithFeed(m, other)
	_, err := c.Subscribe(ctx, func() { calls.Add(1) })
	require.NoError(t, err)

	_, err = c.Insert(ctx, newRegistration("x"))
	require.NoError(t, err)
	assert.Equal(t, int32(0), calls.Load(), "insert on m must not fire other's feed")

	require.NoError(t, other.Publish(ctx))
	assert.Equal(t, int32(1), calls.Load())
}

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@h:5432/db?sslmode=disable", "pgx5://u:p@h:5432/db?sslmode=disable"},
		{"postgresql://u@h/db", "pgx5://u@h/db"},
		{"pgx5://u@h/db", "pgx5://u@h/db"},
	}
	for _, tt := range tests {
		if got := migrateURL(tt.in); got != tt.want {
			t.Errorf("migrateURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
