package usecase

import "time"

// Defaults used when the caller leaves a duration unset.
const (
	// DefaultTransactionTimeout bounds one allocation attempt, row locks included.
	DefaultTransactionTimeout = 10 * time.Second

	DefaultSessionTTL = 2 * time.Hour

	// IdempotencyKeyTTL is how long a replayable allocate response is kept.
	IdempotencyKeyTTL = 24 * time.Hour
)
