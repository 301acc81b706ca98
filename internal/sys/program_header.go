// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"
	"math"

	"github.com/lunixbochs/struc"
)

// ScanMode defines how far the program header table is scanned.
type ScanMode int

const (
	// ScanUntilLoad stops at the first read-only or read-execute PT_LOAD
	// entry. A PT_INTERP entry following it is not seen.
	ScanUntilLoad ScanMode = iota

	// ScanFull scans the complete program header table. The load bias is
	// still taken from the first qualifying PT_LOAD entry.
	ScanFull
)

// String implements [fmt.Stringer].
func (m ScanMode) String() string {
	switch m {
	case ScanUntilLoad:
		return "untilLoad"
	case ScanFull:
		return "full"
	default:
		return fmt.Sprintf("ScanMode(%d)", int(m))
	}
}

// programHeader32 is a program header entry in a 32 bit ELF file.
type programHeader32 struct {
	Type   uint32
	Offset uint32
	Vaddr  uint32
	Paddr  uint32
	Filesz uint32
	Memsz  uint32
	Flags  uint32
	Align  uint32
}

// programHeader64 is a program header entry in a 64 bit ELF file. Flags
// directly follow the type, unlike in the 32 bit layout.
type programHeader64 struct {
	Type   uint32
	Flags  uint32
	Offset uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

// Full entry sizes of [programHeader32] and [programHeader64].
const (
	programHeader32Size = 32
	programHeader64Size = 56
)

func classProgramHeaderSize(class Class) uint64 {
	if class == Class32 {
		return programHeader32Size
	}

	return programHeader64Size
}

// programHeader is the class independent view of a single program header
// entry.
type programHeader struct {
	typ    elf.ProgType
	flags  elf.ProgFlag
	offset uint64
	vaddr  uint64
	filesz uint64
}

// segments is the result of a program header table scan. Each PT_INTERP
// entry seen replaces the one recorded before.
type segments struct {
	loadBias    uint64
	interp      programHeader
	foundInterp bool
}

// isLoadBias returns true if the entry is a PT_LOAD segment with permissions
// of exactly read or read and execute.
func (p programHeader) isLoadBias() bool {
	return p.typ == elf.PT_LOAD &&
		(p.flags == elf.PF_R || p.flags == elf.PF_R|elf.PF_X)
}

func scanProgramHeaders(
	r io.ReadSeeker,
	hdr header,
	fileSize uint64,
	mode ScanMode,
) (segments, error) {
	var result segments

	if hdr.phnum == 0 {
		return result, nil
	}

	tableSize := uint64(hdr.phnum) * uint64(hdr.phentsize)
	if hdr.phoff > math.MaxUint64-tableSize || hdr.phoff+tableSize > fileSize {
		return result, &FormatError{
			Err: fmt.Errorf(
				"%w: offset %d, %d entries of %d bytes, file size %d",
				ErrProgramHeadersOutOfBounds,
				hdr.phoff,
				hdr.phnum,
				hdr.phentsize,
				fileSize,
			),
		}
	}

	var foundLoad bool

	for idx := range uint64(hdr.phnum) {
		offset := hdr.phoff + idx*uint64(hdr.phentsize)

		_, err := r.Seek(int64(offset), io.SeekStart)
		if err != nil {
			return result, &IOError{Op: "seek program header", Err: err}
		}

		prog, err := readProgramHeader(r, hdr)
		if err != nil {
			return result, err
		}

		switch {
		case prog.typ == elf.PT_INTERP:
			result.interp = prog
			result.foundInterp = true
		case !foundLoad && prog.isLoadBias():
			result.loadBias = prog.vaddr
			foundLoad = true

			if mode == ScanUntilLoad {
				return result, nil
			}
		}
	}

	return result, nil
}

// readProgramHeader reads a single entry. Entries smaller than the class
// layout are zero padded, so no more than phentsize bytes are read.
func readProgramHeader(r io.Reader, hdr header) (programHeader, error) {
	order := hdr.endian.ByteOrder()
	raw := make([]byte, classProgramHeaderSize(hdr.class))
	size := min(uint64(hdr.phentsize), uint64(len(raw)))

	_, err := io.ReadFull(r, raw[:size])
	if err != nil {
		return programHeader{}, &IOError{Op: "read program header", Err: err}
	}

	entryReader := bytes.NewReader(raw)

	switch hdr.class {
	case Class32:
		var entry programHeader32

		err := struc.UnpackWithOrder(entryReader, &entry, order)
		if err != nil {
			return programHeader{}, &IOError{Op: "decode program header", Err: err}
		}

		return programHeader{
			typ:    elf.ProgType(entry.Type),
			flags:  elf.ProgFlag(entry.Flags),
			offset: uint64(entry.Offset),
			vaddr:  uint64(entry.Vaddr),
			filesz: uint64(entry.Filesz),
		}, nil
	default:
		var entry programHeader64

		err := struc.UnpackWithOrder(entryReader, &entry, order)
		if err != nil {
			return programHeader{}, &IOError{Op: "decode program header", Err: err}
		}

		return programHeader{
			typ:    elf.ProgType(entry.Type),
			flags:  elf.ProgFlag(entry.Flags),
			offset: entry.Offset,
			vaddr:  entry.Vaddr,
			filesz: entry.Filesz,
		}, nil
	}
}
