package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"townguide/internal/logger"
)

type stubGen struct {
	text  string
	err   error
	delay time.Duration
	calls int
}

func (s *stubGen) Generate(ctx context.Context, _ string) (string, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

func TestFormat_UsesModelText(t *testing.T) {
	f := NewFormatter(&stubGen{text: "Szia! Miben segíthetek?"}, time.Second, logger.NewTestLogger(t))
	assert.Equal(t, "Szia! Miben segíthetek?", f.Format(context.Background(), "p", "fallback"))
}

func TestFormat_FallbackOnError(t *testing.T) {
	f := NewFormatter(&stubGen{err: errors.New("quota")}, time.Second, logger.NewTestLogger(t))
	assert.Equal(t, "fallback", f.Format(context.Background(), "p", "fallback"))
}

func TestFormat_FallbackOnEmpty(t *testing.T) {
	f := NewFormatter(&stubGen{}, time.Second, logger.NewTestLogger(t))
	assert.Equal(t, "fallback", f.Format(context.Background(), "p", "fallback"))
}

func TestFormat_FallbackOnTimeout(t *testing.T) {
	f := NewFormatter(&stubGen{text: "late", delay: time.Second}, 20*time.Millisecond, logger.NewTestLogger(t))
	assert.Equal(t, "fallback", f.Format(context.Background(), "p", "fallback"))
}

func TestFormat_NilGenerator(t *testing.T) {
	f := NewFormatter(nil, 0, nil)
	assert.Equal(t, "fallback", f.Format(context.Background(), "p", "fallback"))
}

func TestFormat_BreakerStopsCalling(t *testing.T) {
	gen := &stubGen{err: errors.New("down")}
	f := NewFormatter(gen, time.Second, logger.NewTestLogger(t))
	for i := 0; i < 6; i++ {
		assert.Equal(t, "fallback", f.Format(context.Background(), "p", "fallback"))
	}
	assert.Equal(t, 3, gen.calls)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Hello world", cleanText("```\n**Hello** world\n```"))
}
