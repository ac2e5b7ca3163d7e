package ratelimit

import (
	"context"
	"sync"
	"time"

	"pricewatch/internal/quote"
)

// MinInterval wraps a Source and enforces a minimum time between page loads,
// across both instruments. A call waits until Interval has elapsed since the
// previous one finished, or returns early if the context is canceled.
type MinInterval struct {
	S        quote.Source
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func (m *MinInterval) FetchGold(ctx context.Context) (string, error) {
	return m.do(ctx, m.S.FetchGold)
}

func (m *MinInterval) FetchStable(ctx context.Context) (string, error) {
	return m.do(ctx, m.S.FetchStable)
}

func (m *MinInterval) do(ctx context.Context, fetch func(context.Context) (string, error)) (string, error) {
	if m.Interval > 0 {
		m.mu.Lock()
		wait := time.Until(m.last.Add(m.Interval))
		m.mu.Unlock()
		if wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-t.C:
			}
		}
	}
	text, err := fetch(ctx)
	if m.Interval > 0 {
		m.mu.Lock()
		m.last = time.Now()
		m.mu.Unlock()
	}
	return text, err
}
