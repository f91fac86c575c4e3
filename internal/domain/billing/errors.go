package billing

import (
	"errors"
	"fmt"
)

var (
	ErrCartLocked      = errors.New("bill already saved; start a new bill to make changes")
	ErrSaveInProgress  = errors.New("a save is already in progress")
	ErrLineNotFound    = errors.New("line item not found")
	ErrEmptyCart       = errors.New("add at least one item before saving")
	ErrMissingCustomer = errors.New("customer name is required")
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
	ErrInvalidRate     = errors.New("rate must not be negative")
	ErrInvalidBillNo   = errors.New("bill number is not valid")
)

// ValidationError ties a rejected input to the field it came from.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// SequenceDriftError reports a bill that was stored while the next bill
// number could not be advanced. The bill exists; the counter is stale.
type SequenceDriftError struct {
	BillNo string
	Err    error
}

func (e *SequenceDriftError) Error() string {
	return fmt.Sprintf("bill %s saved but the next bill number was not advanced: %v", e.BillNo, e.Err)
}

func (e *SequenceDriftError) Unwrap() error {
	return e.Err
}

// IsSequenceDrift reports whether err carries a SequenceDriftError.
func IsSequenceDrift(err error) bool {
	var drift *SequenceDriftError
	return errors.As(err, &drift)
}
