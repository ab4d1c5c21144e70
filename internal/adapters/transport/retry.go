package transport

import (
	"context"
	"errors"
	"net/http"
	"time"
	"tinyami/internal/core/domain"

	"github.com/cenkalti/backoff/v4"
)

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	// attempts are bounded by MaxRetries
	b.MaxElapsedTime = 0
	return b
}

// classify marks err as permanent unless another attempt could succeed: a transport
// failure while the caller's context is still live, or a 5xx / 429 response.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return err
	}

	if ctx.Err() != nil {
		return backoff.Permanent(err)
	}

	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) {
		if isRetryableStatus(httpErr.StatusCode) {
			return err
		}
		return backoff.Permanent(err)
	}

	return err
}

func isRetryableStatus(status int) bool {
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}
