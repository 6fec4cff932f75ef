package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripbazaar/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(max int, window time.Duration) *Limiter {
	return New(cache.NewMemoryStore(), Config{MaxRequests: max, Window: window}, zap.NewNop())
}

func TestLimiter_AllowsUpToMax(t *testing.T) {
	l := newTestLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result := l.Check(ctx, "1.2.3.4")
		assert.True(t, result.Allowed, "request %d", i+1)
		assert.Equal(t, 2-i, result.Remaining)
	}

	result := l.Check(ctx, "1.2.3.4")
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
}

func TestLimiter_IdentifiersAreIndependent(t *testing.T) {
	l := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	assert.True(t, l.Check(ctx, "a").Allowed)
	assert.False(t, l.Check(ctx, "a").Allowed)
	assert.True(t, l.Check(ctx, "b").Allowed)
}

func TestLimiter_WindowResets(t *testing.T) {
	l := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	now := time.Now()
	l.now = func() time.Time { return now }

	require.True(t, l.Check(ctx, "a").Allowed)
	require.False(t, l.Check(ctx, "a").Allowed)

	l.now = func() time.Time { return now.Add(2 * time.Minute) }
	assert.True(t, l.Check(ctx, "a").Allowed)
}

func TestLimiter_Reset(t *testing.T) {
	l := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	require.True(t, l.Check(ctx, "a").Allowed)
	require.False(t, l.Check(ctx, "a").Allowed)
	require.NoError(t, l.Reset(ctx, "a"))
	assert.True(t, l.Check(ctx, "a").Allowed)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("store down")
}
func (failingStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("store down")
}
func (failingStore) Del(context.Context, ...string) error { return errors.New("store down") }
func (failingStore) Close() error                         { return nil }

func TestLimiter_FailsOpenOnStoreErrors(t *testing.T) {
	l := New(failingStore{}, Config{MaxRequests: 1, Window: time.Minute}, zap.NewNop())

	for i := 0; i < 5; i++ {
		assert.True(t, l.Check(context.Background(), "a").Allowed)
	}
}
