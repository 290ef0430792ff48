package fetcher

import (
	"context"
	"math/rand"
	"time"
)

// Pacer inserts a uniform random delay before requests to the news site,
// to avoid bursty traffic. It is advisory only; a zero Pacer never waits.
type Pacer struct {
	min time.Duration
	max time.Duration
}

// NewPacer bounds the delay window. Swapped min/max or non-positive max
// disable pacing.
func NewPacer(min, max time.Duration) *Pacer {
	if max <= 0 || max < min {
		return &Pacer{}
	}
	return &Pacer{min: min, max: max}
}

// Wait sleeps for a random duration in [min, max), honoring cancellation.
func (p *Pacer) Wait(ctx context.Context) {
	if p == nil || p.max <= 0 {
		return
	}

	delay := p.min
	if span := p.max - p.min; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}
