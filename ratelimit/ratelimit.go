// Package ratelimit implements a fixed-window request limiter over the
// shared cache store.
package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tripbazaar/cache"

	"go.uber.org/zap"
)

type Config struct {
	MaxRequests int
	Window      time.Duration
	KeyPrefix   string
}

type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per identifier within a fixed window. Store
// failures fail open: a broken cache must not take the API down.
type Limiter struct {
	store cache.Store
	cfg   Config
	log   *zap.Logger
	now   func() time.Time
}

func New(store cache.Store, cfg Config, log *zap.Logger) *Limiter {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit"
	}
	return &Limiter{store: store, cfg: cfg, log: log, now: time.Now}
}

type windowState struct {
	Count   int   `json:"count"`
	ResetAt int64 `json:"resetAt"` // unix millis
}

// Check records one request for the identifier and reports whether it is
// allowed under the configured window.
func (l *Limiter) Check(ctx context.Context, identifier string) Result {
	key := l.cfg.KeyPrefix + ":" + identifier
	now := l.now()

	state := windowState{ResetAt: now.Add(l.cfg.Window).UnixMilli()}
	raw, err := l.store.Get(ctx, key)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal([]byte(raw), &state); jsonErr != nil {
			l.log.Warn("rate limiter state corrupt, resetting window",
				zap.String("identifier", identifier), zap.Error(jsonErr))
			state = windowState{ResetAt: now.Add(l.cfg.Window).UnixMilli()}
		}
	case errors.Is(err, cache.ErrMiss):
		// fresh window
	default:
		l.log.Warn("rate limiter store unavailable, failing open",
			zap.String("identifier", identifier), zap.Error(err))
		return Result{Allowed: true, Remaining: l.cfg.MaxRequests, ResetAt: now.Add(l.cfg.Window)}
	}

	if now.UnixMilli() > state.ResetAt {
		state.Count = 0
		state.ResetAt = now.Add(l.cfg.Window).UnixMilli()
	}

	resetAt := time.UnixMilli(state.ResetAt)
	if state.Count >= l.cfg.MaxRequests {
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}
	}

	state.Count++
	ttl := time.Until(resetAt)
	if updated, err := json.Marshal(state); err == nil {
		if err := l.store.Set(ctx, key, string(updated), ttl); err != nil {
			l.log.Warn("rate limiter state write failed",
				zap.String("identifier", identifier), zap.Error(err))
		}
	}

	return Result{
		Allowed:   true,
		Remaining: l.cfg.MaxRequests - state.Count,
		ResetAt:   resetAt,
	}
}

// Reset clears the window for an identifier.
func (l *Limiter) Reset(ctx context.Context, identifier string) error {
	return l.store.Del(ctx, l.cfg.KeyPrefix+":"+identifier)
}
