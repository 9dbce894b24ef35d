package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter spaces out requests to a target site. Wait blocks until enough
// time has passed since the previous action, or the context is cancelled.
type Limiter interface {
	Wait(ctx context.Context) error
}

// PolitenessDelay enforces a jittered pause between page visits so a scrape
// run does not hit the supplier site at machine speed.
type PolitenessDelay struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	lastAction time.Time
	mu         sync.Mutex
}

func NewPolitenessDelay(minDelay, maxDelay time.Duration) *PolitenessDelay {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &PolitenessDelay{
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

func (d *PolitenessDelay) Wait(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	elapsed := time.Since(d.lastAction)
	delay := d.pick()

	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	d.lastAction = time.Now()
	return nil
}

func (d *PolitenessDelay) pick() time.Duration {
	if d.maxDelay <= d.minDelay {
		return d.minDelay
	}
	return d.minDelay + time.Duration(rand.Int63n(int64(d.maxDelay-d.minDelay)))
}

// None is a Limiter that never waits. Used by tests and dry runs.
type None struct{}

func (None) Wait(ctx context.Context) error {
	return ctx.Err()
}
