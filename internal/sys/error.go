// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"strconv"
)

// IOError wraps failures to open, read or seek the inspected file.
type IOError struct {
	Op  string
	Err error
}

// Error implements the [error] interface.
func (e *IOError) Error() string {
	if e.Err == nil {
		return e.Op + ": io error"
	}

	return e.Op + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*IOError) Is(other error) bool {
	_, ok := other.(*IOError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *IOError) Unwrap() error {
	return e.Err
}

// FormatError wraps violations of the ELF format. The first violation aborts
// parsing.
type FormatError struct {
	Err error
}

// Error implements the [error] interface.
func (e *FormatError) Error() string {
	if e.Err == nil {
		return "invalid ELF"
	}

	return "invalid ELF: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*FormatError) Is(other error) bool {
	_, ok := other.(*FormatError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// UnsupportedMachineError is returned for e_machine values outside of the
// supported [Machine] set. It matches [ErrMachineNotSupported].
type UnsupportedMachineError struct {
	Value uint16
}

// Error implements the [error] interface.
func (e *UnsupportedMachineError) Error() string {
	return ErrMachineNotSupported.Error() + ": " + strconv.FormatUint(uint64(e.Value), 10)
}

// Is implements the [errors.Is] interface.
func (e *UnsupportedMachineError) Is(other error) bool {
	if other == ErrMachineNotSupported {
		return true
	}

	o, ok := other.(*UnsupportedMachineError)

	return ok && (o.Value == 0 || o.Value == e.Value)
}
