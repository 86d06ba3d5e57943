package domain

import "time"

// LoginAttemptRecord tracks consecutive failed authentications for one identity.
type LoginAttemptRecord struct {
	Count       int
	LastFailure time.Time
}
