package engine

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/storefront-tools/catalog-explorer/internal/bestbuy"
	"github.com/storefront-tools/catalog-explorer/internal/metrics"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// callWithRetry runs one catalog call under the bounded retry policy:
// transient failures (transport errors, 5xx, throttling) are retried with
// exponential backoff up to the attempt ceiling; rejected credentials stop
// immediately. A throttled call waits at least as long as the provider's
// Retry-After before the next attempt.
func (e *Engine) callWithRetry(
	ctx context.Context,
	fn func() (*bestbuy.Page, error),
) (*bestbuy.Page, error) {
	policy := backoff.WithMaxRetries(e.newBackOff(), uint64(e.maxAttempts-1)) //nolint:gosec // maxAttempts is a small positive config value

	var lastErr error
	for attempt := 1; ; attempt++ {
		page, err := fn()
		if err == nil {
			return page, nil
		}
		lastErr = err

		if errors.Is(err, domain.ErrAuthentication) || !bestbuy.Retryable(err) {
			return nil, err
		}

		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			return nil, lastErr
		}
		if ra := bestbuy.RetryAfter(err); ra > wait {
			wait = ra
		}

		e.log.Debug("retrying catalog call",
			"attempt", attempt,
			"wait", wait,
			"err", err,
		)
		metrics.QueryRetriesTotal.Inc()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			// Caller abort outranks the call failure so the result reads
			// as canceled, same as at a page boundary.
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (e *Engine) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.backoffBase
	b.MaxElapsedTime = 0
	return b
}
