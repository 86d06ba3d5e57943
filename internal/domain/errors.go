package domain

import "errors"

// Store-level outcomes. Repositories return these (possibly wrapped) so use
// cases can branch without knowing the driver.
var (
	ErrNotFound   = errors.New("not_found")
	ErrEmailTaken = errors.New("email_taken")
)
