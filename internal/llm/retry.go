package llm

import (
	"context"
	"time"

	"github.com/openclaw/parley/internal/console"
)

// RetryPolicy retries a transient-failing operation with exponential
// backoff. Every model-call site goes through the same policy.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// InitialBackoff is the wait before the first retry; it doubles on
	// each subsequent retry.
	InitialBackoff time.Duration
	// Report, when set, surfaces retry attempts on the console.
	Report *console.Reporter
}

// DefaultRetryPolicy returns a policy with the given retry count and a one
// second initial backoff.
func DefaultRetryPolicy(maxRetries int, report *console.Reporter) RetryPolicy {
	return RetryPolicy{
		MaxRetries:     maxRetries,
		InitialBackoff: time.Second,
		Report:         report,
	}
}

// Do runs fn, retrying on error up to MaxRetries times. After exhausting
// retries the last error is returned unchanged.
func (p RetryPolicy) Do(ctx context.Context, description string, fn func() (string, error)) (string, error) {
	backoff := p.InitialBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == p.MaxRetries {
			break
		}
		if p.Report != nil {
			p.Report.Warnf("%s failed (attempt %d/%d): %v", description, attempt+1, p.MaxRetries+1, err)
			p.Report.Warnf("Retrying in %s...", backoff)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return "", lastErr
}
