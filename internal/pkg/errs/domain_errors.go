package errs

import cr "github.com/cockroachdb/errors"

// Error categories shared by every layer. Domain sentinels carry one of these
// so handlers and callers can branch on the category alone.
var (
	ErrNotFound     = cr.New("not found")
	ErrConflict     = cr.New("conflict")
	ErrValidation   = cr.New("validation failed")
	ErrExpiredState = cr.New("expired state")

	// ErrRetryable marks transient failures (serialization conflicts after
	// exhausted retries, transaction timeouts). Safe for the client to retry.
	ErrRetryable = cr.New("retryable")
)

type categorizedError struct {
	msg      string
	category error
}

func (e *categorizedError) Error() string { return e.msg }

func (e *categorizedError) Is(target error) bool { return target == e.category }

// Category builds a sentinel that matches both itself and its category under
// errors.Is. Distinct sentinels of the same category never match each other.
func Category(msg string, category error) error {
	return &categorizedError{msg: msg, category: category}
}

func IsNotFound(err error) bool     { return cr.Is(err, ErrNotFound) }
func IsConflict(err error) bool     { return cr.Is(err, ErrConflict) }
func IsValidation(err error) bool   { return cr.Is(err, ErrValidation) }
func IsExpiredState(err error) bool { return cr.Is(err, ErrExpiredState) }
func IsRetryable(err error) bool    { return cr.Is(err, ErrRetryable) }
