package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by URLService. Callers match them with errors.Is, or
// errors.As for *StoreError.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("short code not found")
	ErrExhaustedRetries = errors.New("exhausted short code retries")
)

// StoreError reports a failure of the underlying mapping store. It is never
// retried by the service.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
