// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidStatus is the sentinel error wrapped by InvalidStatusError.
var ErrInvalidStatus = errors.New("invalid exit status")

type (
	// Status represents a process exit status.
	// Statuses are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	Status int

	// InvalidStatusError is returned when a Status is outside the
	// valid range (0-255).
	InvalidStatusError struct {
		Value Status
	}
)

const (
	// StatusOK reports a successful handler run.
	StatusOK Status = 0

	// StatusNoRuntime is the resolver's initial accumulator value. It
	// survives to the end of a run only when no interpreter was ever
	// invoked, by any method.
	StatusNoRuntime Status = 3
)

// Error implements the error interface.
func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid exit status %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidStatus so callers can use errors.Is for programmatic detection.
func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// IsValid returns whether the Status is in the valid range (0-255),
// and a list of validation errors if it is not.
func (s Status) IsValid() (bool, []error) {
	if s < 0 || s > 255 {
		return false, []error{&InvalidStatusError{Value: s}}
	}
	return true, nil
}

// IsSuccess returns true if the status indicates a successful handler run.
func (s Status) IsSuccess() bool { return s == StatusOK }

// String returns the decimal string representation of the Status.
func (s Status) String() string { return strconv.Itoa(int(s)) }
