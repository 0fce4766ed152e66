package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoActiveRate is returned when no rate version covers the
	// requested date for a subject.
	ErrNoActiveRate = errors.New("no active rate for subject on the requested date")

	// ErrInvalidEffectiveDate is returned when a hike is not strictly
	// forward-dated relative to the current version.
	ErrInvalidEffectiveDate = errors.New("hike effective date must be after the current version's effective date")

	// ErrFuturePeriodNotPayable is returned when a payment selects an
	// entry whose period has not started yet.
	ErrFuturePeriodNotPayable = errors.New("future periods cannot be paid through this flow")

	// ErrEntryNotFound is returned when a selected entry does not exist.
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrPayerMismatch is returned when a selected entry belongs to a
	// different payer.
	ErrPayerMismatch = errors.New("ledger entry does not belong to this payer")

	// ErrConcurrentModification is returned when an entry was changed
	// underneath an allocation; callers should retry.
	ErrConcurrentModification = errors.New("ledger entry was modified concurrently, retry the request")

	// ErrRateExists is returned when CreateRate is called for a subject
	// that already has a rate history.
	ErrRateExists = errors.New("subject already has a rate history, use a hike to change it")
)

// ValidationError marks malformed or missing input, rejected before any
// mutation takes place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// OverAllocationError is returned by the fee-collection flow when the
// submitted amount exceeds the pending total of the selected entries.
// It carries the maximum payable amount so the caller can show a
// precise rejection rather than a generic failure.
type OverAllocationError struct {
	Submitted  decimal.Decimal
	MaxPayable decimal.Decimal
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("amount %s exceeds the maximum payable %s for the selected entries",
		e.Submitted.StringFixed(2), e.MaxPayable.StringFixed(2))
}
