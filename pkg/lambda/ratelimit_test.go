package lambda

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterSpacesRequests(t *testing.T) {
	limiter := newRateLimiter(20*time.Millisecond, 50*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(ctx, "/instances"))
	}
	elapsed := time.Since(start)

	// First call is free; the next two each wait the full interval.
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestRateLimiterAppliesLaunchFloor(t *testing.T) {
	limiter := newRateLimiter(time.Millisecond, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, launchPath))

	start := time.Now()
	// Trailing slash normalizes to the launch path.
	require.NoError(t, limiter.Wait(ctx, launchPath+"/"))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 45*time.Millisecond)
}

func TestRateLimiterIgnoresLaunchFloorForOtherPaths(t *testing.T) {
	limiter := newRateLimiter(time.Millisecond, time.Hour)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, launchPath))

	done := make(chan error, 1)
	go func() {
		done <- limiter.Wait(ctx, "/instances")
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("non-launch request blocked behind the launch floor")
	}
}

func TestNilRateLimiterNeverBlocks(t *testing.T) {
	var limiter *rateLimiter
	assert.NoError(t, limiter.Wait(context.Background(), launchPath))
}

func TestRateLimiterWaitHonorsContextCancellation(t *testing.T) {
	limiter := newRateLimiter(time.Millisecond, time.Hour)
	require.NoError(t, limiter.Wait(context.Background(), launchPath))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, launchPath)
	assert.Error(t, err)
}
