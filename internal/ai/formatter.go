package ai

import (
	"context"
	"time"

	"townguide/internal/breaker"
	"townguide/internal/logger"
	"townguide/internal/metrics"
)

const DefaultTimeout = 8 * time.Second

// Formatter wraps a TextGenerator with a timeout and circuit breaker. A nil
// generator makes every call return the fallback.
type Formatter struct {
	gen     TextGenerator
	timeout time.Duration
	breaker *breaker.Breaker
	log     logger.Logger
}

func NewFormatter(gen TextGenerator, timeout time.Duration, log logger.Logger) *Formatter {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Formatter{
		gen:     gen,
		timeout: timeout,
		breaker: breaker.New("gemini", breaker.DefaultConfig(), log),
		log:     log,
	}
}

// Format never fails.
func (f *Formatter) Format(ctx context.Context, prompt, fallback string) string {
	if f.gen == nil {
		return fallback
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	out, err := f.breaker.Execute(ctx, func() (interface{}, error) {
		return f.gen.Generate(ctx, prompt)
	})
	if err != nil {
		metrics.CollaboratorFallbacks.WithLabelValues("text_generation").Inc()
		f.log.Warn("text generation unavailable, using fallback", map[string]interface{}{"error": err})
		return fallback
	}
	text, _ := out.(string)
	if text == "" {
		metrics.CollaboratorFallbacks.WithLabelValues("text_generation").Inc()
		return fallback
	}
	return text
}
