package repository

import "errors"

var (
	// ErrDuplicateBillNo is returned when a bill id is already stored.
	ErrDuplicateBillNo = errors.New("bill number already used")
	// ErrCounterMoved is returned when the next bill number is not the
	// value the caller expected to advance from.
	ErrCounterMoved = errors.New("next bill number changed concurrently")
	// ErrVersionConflict is returned when settings were written by someone
	// else since they were read.
	ErrVersionConflict = errors.New("settings were modified since they were loaded")
)
