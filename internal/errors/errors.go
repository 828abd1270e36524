// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrDatabaseError = errors.New("database error")
	ErrFetchFailed   = errors.New("data fetch failed")
)

// VerificationError represents a failure while querying an external
// verification service. The pipeline treats it as a conservative rejection,
// never as a fatal error.
type VerificationError struct {
	Service string
	TokenID string
	Err     error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("verification error [%s] token %s: %v", e.Service, e.TokenID, e.Err)
	}
	return fmt.Sprintf("verification error [%s] token %s", e.Service, e.TokenID)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// NewVerificationError creates a new VerificationError.
func NewVerificationError(service, tokenID string, err error) *VerificationError {
	return &VerificationError{
		Service: service,
		TokenID: tokenID,
		Err:     err,
	}
}

// StoreError represents an error from the snapshot store.
type StoreError struct {
	Op      string
	TokenID string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s] token %s: %v", e.Op, e.TokenID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, tokenID string, err error) *StoreError {
	return &StoreError{
		Op:      op,
		TokenID: tokenID,
		Err:     err,
	}
}
