package lambda

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultMinRequestInterval = 1 * time.Second
	defaultMinLaunchInterval  = 12 * time.Second
)

// rateLimiter spaces outbound requests so the CLI never trips the
// provider's throttling. Every request is held to a minimum interval since
// the previous one; launch calls are additionally held to a larger floor
// since the previous launch. State is scoped to one client instance.
type rateLimiter struct {
	requests *rate.Limiter
	launches *rate.Limiter
}

func newRateLimiter(minRequestInterval, minLaunchInterval time.Duration) *rateLimiter {
	if minRequestInterval <= 0 {
		minRequestInterval = defaultMinRequestInterval
	}
	if minLaunchInterval <= 0 {
		minLaunchInterval = defaultMinLaunchInterval
	}
	return &rateLimiter{
		requests: rate.NewLimiter(rate.Every(minRequestInterval), 1),
		launches: rate.NewLimiter(rate.Every(minLaunchInterval), 1),
	}
}

// Wait blocks until the request may be sent. The path is compared with its
// trailing slash stripped, so "/instance-operations/launch/" gets the
// launch floor too.
func (r *rateLimiter) Wait(ctx context.Context, path string) error {
	if r == nil {
		return nil
	}
	if err := r.requests.Wait(ctx); err != nil {
		return err
	}
	if strings.TrimSuffix(path, "/") == launchPath {
		return r.launches.Wait(ctx)
	}
	return nil
}
