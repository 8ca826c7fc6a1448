package usecase

import "time"

const (
	// DefaultLockWait bounds how long one transfer attempt may wait on account
	// row locks before it is rolled back and retried.
	DefaultLockWait = 3 * time.Second

	// DefaultPageLimit and MaxPageLimit clamp list pagination.
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)
