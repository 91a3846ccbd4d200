package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrStockExceeded = errors.New("quantity exceeds available stock")
	ErrInvariant     = errors.New("invariant violation")
	ErrNotFound      = errors.New("not found")
	ErrTransport     = errors.New("backend unavailable")
	ErrPartialCommit = errors.New("checkout partially committed")
)

// ValidationError reports bad input. Cause, when set, names a sub-kind such as
// ErrStockExceeded.
type ValidationError struct {
	Field string
	Msg   string
	Cause error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ValidationError) Unwrap() error        { return e.Cause }

func Invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

// PartialCommitError is returned when a checkout failed after writing and the
// writes could not all be undone. Steps lists what is still in the store.
type PartialCommitError struct {
	SaleID string
	Steps  []CheckoutStep
	Err    error
}

func (e *PartialCommitError) Error() string {
	kinds := make([]string, 0, len(e.Steps))
	for _, s := range e.Steps {
		kinds = append(kinds, string(s.Kind)+":"+s.RecordID)
	}
	return fmt.Sprintf("sale %s partially committed [%s]: %v", e.SaleID, strings.Join(kinds, ", "), e.Err)
}

func (e *PartialCommitError) Is(target error) bool { return target == ErrPartialCommit }
func (e *PartialCommitError) Unwrap() error        { return e.Err }

// Kind names the error family for API responses.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrPartialCommit):
		return "partial_commit"
	case errors.Is(err, ErrStockExceeded):
		return "stock_exceeded"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInvariant):
		return "invariant_violation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "internal"
	}
}
