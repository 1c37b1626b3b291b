package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/BradenHooton/gymcrm/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestTimingDelay_Wait_OnFailure(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:    100,
		RandomDelayMs:  50,
		DelayOnSuccess: false,
	})
	startTime := time.Now()

	timing.Wait(context.Background(), false)

	elapsed := time.Since(startTime)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 400*time.Millisecond)
}

func TestTimingDelay_Wait_OnSuccess_NoDelay(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:    100,
		RandomDelayMs:  50,
		DelayOnSuccess: false,
	})
	startTime := time.Now()

	timing.Wait(context.Background(), true)

	assert.Less(t, time.Since(startTime), 50*time.Millisecond)
}

func TestTimingDelay_Wait_OnSuccess_WithDelay(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:    100,
		DelayOnSuccess: true,
	})
	startTime := time.Now()

	timing.Wait(context.Background(), true)

	assert.GreaterOrEqual(t, time.Since(startTime), 100*time.Millisecond)
}

func TestTimingDelay_WaitFrom_SubtractsElapsed(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 100})
	startTime := time.Now().Add(-80 * time.Millisecond)

	before := time.Now()
	timing.WaitFrom(context.Background(), startTime, false)

	assert.Less(t, time.Since(before), 80*time.Millisecond)
}

func TestTimingDelay_WaitFrom_RespectsCancellation(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 5000})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	startTime := time.Now()
	timing.WaitFrom(ctx, startTime, false)

	assert.Less(t, time.Since(startTime), 100*time.Millisecond)
}

func TestTimingDelay_NilIsNoop(t *testing.T) {
	var timing *auth.TimingDelay

	assert.NotPanics(t, func() {
		timing.Wait(context.Background(), false)
	})
}
