package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"townguide/internal/logger"
)

func TestBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	b := New("test", Config{MaxFailures: 2, Timeout: time.Minute, HalfOpenRequests: 1}, logger.NewTestLogger(t))
	boom := errors.New("boom")
	calls := 0
	fail := func() (interface{}, error) {
		calls++
		return nil, boom
	}

	for i := 0; i < 2; i++ {
		_, err := b.Execute(context.Background(), fail)
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", b.State())

	_, err := b.Execute(context.Background(), fail)
	assert.ErrorIs(t, err, ErrOpen)
	assert.Equal(t, 2, calls)
}

func TestBreaker_PassesResults(t *testing.T) {
	b := New("test", DefaultConfig(), nil)
	out, err := b.Execute(context.Background(), func() (interface{}, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, "closed", b.State())
}

func TestBreaker_CancelledContext(t *testing.T) {
	b := New("test", DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Execute(ctx, func() (interface{}, error) {
		t.Fatal("must not be called")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
