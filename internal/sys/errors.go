// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "errors"

var (
	// ErrNotELFFile is returned if the file does not have an ELF magic number.
	ErrNotELFFile = errors.New("is not an ELF file")

	// ErrInvalidClass is returned if the ELF class is neither 32 nor 64 bit.
	ErrInvalidClass = errors.New("invalid ELF class")

	// ErrInvalidEndian is returned if the ELF data encoding is neither little
	// nor big endian.
	ErrInvalidEndian = errors.New("invalid ELF data encoding")

	// ErrMachineNotSupported is returned if the machine type of an ELF file
	// is not supported.
	ErrMachineNotSupported = errors.New("machine type not supported")

	// ErrProgramHeadersOutOfBounds is returned if the program header table
	// declared in the ELF header reaches beyond the end of the file.
	ErrProgramHeadersOutOfBounds = errors.New("program header table out of bounds")

	// ErrCorruptInterpreterOffset is returned if the interpreter segment's
	// virtual address is below the load bias.
	ErrCorruptInterpreterOffset = errors.New("interpreter address below load bias")

	// ErrInvalidLoaderEncoding is returned if the interpreter path is not
	// valid UTF-8.
	ErrInvalidLoaderEncoding = errors.New("interpreter path is not valid UTF-8")

	// ErrNoInterpreter is returned if no interpreter is found in an ELF file.
	ErrNoInterpreter = errors.New("no interpreter in ELF file")

	// ErrUnsupportedCombination is returned if the class, machine and endian
	// combination of an ELF file does not map to an emulator architecture.
	ErrUnsupportedCombination = errors.New("unsupported architecture combination")
)
