// Package resilience guards an outbound transport against a failing or
// overloaded upstream.
//
//   - CircuitBreaker: fails fast once an upstream keeps failing (sony/gobreaker)
//   - RateLimiter: token bucket pacing of outbound calls (golang.org/x/time/rate)
//
// Neither component retries. A call rejected by the breaker or the limiter
// returns ErrCircuitOpen or ErrRateLimited and it is up to the caller to
// decide whether to try again.
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("billing-api"))
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 50, Burst: 10})
//
//	if err := rl.Wait(ctx); err != nil {
//	    return err
//	}
//	err := cb.Execute(func() error { return send(ctx) })
package resilience
