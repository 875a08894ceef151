// Package ratelimit throttles outgoing API requests.
//
// Two algorithms are provided. TokenBucket refills to capacity once per
// period; SlidingWindow caps the number of requests in any window and is what
// FromConfig builds for the transport:
//
//	limiter := ratelimit.NewSlidingWindow(60, time.Minute)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
