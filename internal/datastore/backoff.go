package datastore

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// linearBackOff waits n×unit before the (n+1)th attempt.
type linearBackOff struct {
	unit time.Duration
	n    int
}

var _ backoff.BackOff = (*linearBackOff)(nil)

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.unit
}

func (b *linearBackOff) Reset() {
	b.n = 0
}

func newRetryPolicy(attempts int, unit time.Duration) backoff.BackOff {
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithMaxRetries(&linearBackOff{unit: unit}, uint64(attempts-1))
}
