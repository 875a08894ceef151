// Package retry provides exponential backoff and retry logic for transient
// failures of idempotent requests.
//
// The transport only routes GET requests through Do; mutations and upload
// steps are sent exactly once.
//
//	policy := retry.FromConfig(cfg.Retry, log)
//	err := retry.Do(ctx, func(ctx context.Context) error {
//	    return send(ctx)
//	}, policy)
package retry
