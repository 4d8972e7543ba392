package utils

import (
	"context"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"
	"time"
)

type RetryPolicy struct {
	// Retries is the number of extra attempts after the first call.
	Retries int
	Delay   time.Duration
}

// RetryOnEventualConsistency calls fn until it succeeds, fails with anything other
// than an eventual consistency error, or the policy is exhausted. The last error is returned.
func RetryOnEventualConsistency(ctx context.Context, policy RetryPolicy, fn func(attempt int) error) error {
	var err error
	for attempt := 1; attempt <= policy.Retries+1; attempt++ {
		err = fn(attempt)
		if err == nil {
			return nil
		}
		if !exceptions.IsKind(err, constvars.ErrorKindUpstreamEventualConsistency) || attempt > policy.Retries {
			return err
		}

		timer := time.NewTimer(policy.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return exceptions.ErrServerDeadlineExceeded(ctx.Err())
		case <-timer.C:
		}
	}
	return err
}
