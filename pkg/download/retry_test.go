package download

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/RunanywhereAI/sdks-sub010/pkg/runanywhereerrors"
)

func TestBackoff_DoublesPerAttempt(t *testing.T) {
	base := time.Second
	assert.Equal(t, time.Second, backoff(base, 1))
	assert.Equal(t, 2*time.Second, backoff(base, 2))
	assert.Equal(t, 4*time.Second, backoff(base, 3))
	assert.Equal(t, 8*time.Second, backoff(base, 4))
}

func TestBackoff_ClampsAttemptBelowOne(t *testing.T) {
	assert.Equal(t, time.Second, backoff(time.Second, 0))
}

func TestShouldRetry_RetryableKindWithinBudget(t *testing.T) {
	err := runanywhereerrors.New(runanywhereerrors.KindNetwork, "connection reset")
	assert.True(t, shouldRetry(err, 1, 3))
}

func TestShouldRetry_ExhaustedBudget(t *testing.T) {
	err := runanywhereerrors.New(runanywhereerrors.KindNetwork, "connection reset")
	assert.True(t, shouldRetry(err, 3, 3))
	assert.False(t, shouldRetry(err, 4, 3))
}

func TestShouldRetry_NonRetryableKind(t *testing.T) {
	err := runanywhereerrors.New(runanywhereerrors.KindChecksumMismatch, "sha256 mismatch")
	assert.False(t, shouldRetry(err, 1, 5))
}

func TestShouldRetry_HTTP5xxRetryable(t *testing.T) {
	assert.True(t, shouldRetry(runanywhereerrors.HTTP(503), 1, 3))
}

func TestShouldRetry_HTTP4xxNotRetryable(t *testing.T) {
	assert.False(t, shouldRetry(runanywhereerrors.HTTP(404), 1, 3))
}
