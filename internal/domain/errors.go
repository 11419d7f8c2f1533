package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind enumerates the failure categories an analysis can surface.
// The HTTP boundary maps kinds to status codes, so a bad-input failure
// is always distinguishable from an unavailable catalog or an internal
// defect.
type ErrorKind string

const (
	ErrEmptyInput         ErrorKind = "EMPTY_INPUT"
	ErrInvalidCharacters  ErrorKind = "INVALID_CHARACTERS"
	ErrAgeOutOfRange      ErrorKind = "AGE_OUT_OF_RANGE"
	ErrInvalidGender      ErrorKind = "INVALID_GENDER"
	ErrInvalidInput       ErrorKind = "INVALID_INPUT"
	ErrCatalogUnavailable ErrorKind = "CATALOG_UNAVAILABLE"
	ErrInternal           ErrorKind = "INTERNAL_ERROR"
)

// AnalysisError is the typed failure crossing the core's public
// operations. The boundary must never receive a bare error from the
// core packages.
type AnalysisError struct {
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsInput reports whether the failure was caused by caller input, as
// opposed to catalog state or an internal defect.
func (e *AnalysisError) IsInput() bool {
	switch e.Kind {
	case ErrEmptyInput, ErrInvalidCharacters, ErrAgeOutOfRange, ErrInvalidGender, ErrInvalidInput:
		return true
	default:
		return false
	}
}

// NewAnalysisError creates a timestamped AnalysisError.
func NewAnalysisError(kind ErrorKind, message, details string) *AnalysisError {
	return &AnalysisError{
		Kind:      kind,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// AsAnalysisError unwraps err into an AnalysisError if one is present
// anywhere in the chain.
func AsAnalysisError(err error) (*AnalysisError, bool) {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
