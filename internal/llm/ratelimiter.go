package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider spaces requests evenly so the backend sees at most
// rpm requests per minute.
type RateLimitedProvider struct {
	inner Provider
	gap   time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewRateLimitedProvider wraps provider with even request spacing derived
// from rpm.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	if rpm < 1 {
		rpm = 1
	}
	return &RateLimitedProvider{
		inner: provider,
		gap:   time.Minute / time.Duration(rpm),
	}
}

func (r *RateLimitedProvider) Name() string { return r.inner.Name() }

func (r *RateLimitedProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := r.reserve(ctx); err != nil {
		return nil, err
	}
	return r.inner.Complete(ctx, req)
}

// reserve claims the next send slot and sleeps until it arrives. Claiming
// before sleeping keeps concurrent callers ordered without holding the
// lock while waiting.
func (r *RateLimitedProvider) reserve(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now()
	slot := r.next
	if slot.Before(now) {
		slot = now
	}
	r.next = slot.Add(r.gap)
	r.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
