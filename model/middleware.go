package model

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// WithTimeout bounds every Generate call with the given timeout. Expiry is
// reported as the context error so a slow provider call cannot stall a
// request indefinitely.
func WithTimeout(m Model, timeout time.Duration) Model {
	return &timeoutModel{next: m, timeout: timeout}
}

type timeoutModel struct {
	next    Model
	timeout time.Duration
}

func (m *timeoutModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return m.next.Generate(ctx, req)
}

func (m *timeoutModel) Info() Info { return m.next.Info() }

// WithRateLimit throttles Generate calls to r events per second with the
// given burst. Waiting respects context cancellation.
func WithRateLimit(m Model, r rate.Limit, burst int) Model {
	return &rateLimitedModel{next: m, limiter: rate.NewLimiter(r, burst)}
}

type rateLimitedModel struct {
	next    Model
	limiter *rate.Limiter
}

func (m *rateLimitedModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return m.next.Generate(ctx, req)
}

func (m *rateLimitedModel) Info() Info { return m.next.Info() }

// WithBreaker wraps Generate in a circuit breaker so a failing provider is
// shed quickly instead of being hammered with doomed calls.
func WithBreaker(m Model, name string) Model {
	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{Name: name})
	return &breakerModel{next: m, cb: cb}
}

type breakerModel struct {
	next Model
	cb   *gobreaker.CircuitBreaker[*Response]
}

func (m *breakerModel) Generate(ctx context.Context, req Request) (*Response, error) {
	return m.cb.Execute(func() (*Response, error) {
		return m.next.Generate(ctx, req)
	})
}

func (m *breakerModel) Info() Info { return m.next.Info() }
