package llm

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// ModelLimiter holds one token bucket per model name so a burst of messages
// cannot hammer a single upstream model.
type ModelLimiter struct {
	mu    sync.Mutex
	rps   rate.Limit
	burst int
	m     map[string]*rate.Limiter
}

func NewModelLimiter(rps float64, burst int) *ModelLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &ModelLimiter{rps: rate.Limit(rps), burst: burst, m: make(map[string]*rate.Limiter)}
}

func (l *ModelLimiter) get(model string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.m[model]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.m[model] = lim
	}
	return lim
}

// Wait blocks until the model's bucket allows one call or ctx is done.
func (l *ModelLimiter) Wait(ctx context.Context, model string) error {
	return l.get(model).Wait(ctx)
}
