package download

import (
	"math"
	"time"

	"github.com/RunanywhereAI/sdks-sub010/pkg/runanywhereerrors"
)

// backoff computes the exponential backoff delay for a given attempt
// (1-indexed): retryDelay * 2^(attempt-1), per spec §4.4.
func backoff(retryDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(float64(retryDelay) * math.Pow(2, float64(attempt-1)))
}

// shouldRetry reports whether a failed attempt should be retried, given the
// task's configured retry budget and the error's classification. A budget
// of maxRetries allows maxRetries retries after the first attempt, so at
// most maxRetries+1 attempts in total.
func shouldRetry(err error, attempt, maxRetries int) bool {
	if attempt > maxRetries {
		return false
	}
	return runanywhereerrors.Retryable(err)
}
