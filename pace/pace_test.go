package pace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNone_ReportsCancellation(t *testing.T) {
	require.NoError(t, None{}.Wait(context.Background(), time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, None{}.Wait(ctx, 0), context.Canceled)
}

func TestTimer_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Timer{}.Wait(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTimer_Sleeps(t *testing.T) {
	start := time.Now()
	require.NoError(t, Timer{}.Wait(context.Background(), 5*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestLimiter_ZeroDelayIsFree(t *testing.T) {
	l := NewLimiter(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(context.Background(), 0))
	}
}

func TestLimiter_DeadlineExceeded(t *testing.T) {
	l := NewLimiter(time.Hour)
	// first token is available immediately
	require.NoError(t, l.Wait(context.Background(), time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, time.Hour))
}

func TestVirtual_Accumulates(t *testing.T) {
	var v Virtual
	for i := 0; i < 4; i++ {
		require.NoError(t, v.Wait(context.Background(), 250*time.Millisecond))
	}
	assert.Equal(t, time.Second, v.Elapsed())
	assert.Equal(t, 4, v.Waits())
}

func TestForMode(t *testing.T) {
	assert.IsType(t, None{}, ForMode(ModeNone, 0))
	assert.IsType(t, Timer{}, ForMode(ModeTimer, time.Millisecond))
	assert.IsType(t, &Limiter{}, ForMode(ModeRate, time.Millisecond))
	assert.IsType(t, None{}, ForMode("bogus", 0))
}
