// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// readInterpreter reads the interpreter path from the PT_INTERP segment, if
// any. The segment's virtual address is translated into a file offset using
// the load bias. The terminating NUL byte is dropped and the rest is returned
// as is.
func readInterpreter(
	r io.ReadSeeker,
	segs segments,
	fileSize uint64,
) (string, error) {
	if !segs.foundInterp || segs.interp.filesz == 0 {
		return "", nil
	}

	if segs.interp.vaddr < segs.loadBias {
		return "", &FormatError{
			Err: fmt.Errorf(
				"%w: 0x%x < 0x%x",
				ErrCorruptInterpreterOffset,
				segs.interp.vaddr,
				segs.loadBias,
			),
		}
	}

	offset := segs.interp.vaddr - segs.loadBias
	length := segs.interp.filesz - 1

	if offset > fileSize || length > fileSize-offset {
		return "", &IOError{Op: "read interpreter", Err: io.ErrUnexpectedEOF}
	}

	_, err := r.Seek(int64(offset), io.SeekStart)
	if err != nil {
		return "", &IOError{Op: "seek interpreter", Err: err}
	}

	path, err := readBytes(r, int(length), "read interpreter")
	if err != nil {
		return "", err
	}

	if !utf8.Valid(path) {
		return "", &FormatError{Err: ErrInvalidLoaderEncoding}
	}

	return string(path), nil
}
