// README: Circuit breaker around flaky collaborators (text generation, weather), over sony/gobreaker.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"townguide/internal/logger"
)

// ErrOpen is returned without calling the collaborator while the circuit is open.
var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	// MaxFailures consecutive failures trip the circuit.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration
	// HalfOpenRequests are let through while probing.
	HalfOpenRequests uint32
}

func DefaultConfig() Config {
	return Config{MaxFailures: 3, Timeout: 30 * time.Second, HalfOpenRequests: 1}
}

type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

func New(name string, cfg Config, log logger.Logger) *Breaker {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn unless the circuit is open or ctx is already done.
func (b *Breaker) Execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrOpen
	}
	return out, err
}

// State is "closed", "half-open" or "open".
func (b *Breaker) State() string {
	return b.cb.State().String()
}
