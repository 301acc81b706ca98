// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/lunixbochs/struc"
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// Class is the word size of an ELF file.
type Class uint8

// Supported ELF classes.
const (
	Class32 = Class(elf.ELFCLASS32)
	Class64 = Class(elf.ELFCLASS64)
)

// String implements [fmt.Stringer].
func (c Class) String() string {
	return elf.Class(c).String()
}

// Endian is the data encoding of an ELF file.
type Endian uint8

// Supported ELF data encodings.
const (
	LittleEndian = Endian(elf.ELFDATA2LSB)
	BigEndian    = Endian(elf.ELFDATA2MSB)
)

// String implements [fmt.Stringer].
func (e Endian) String() string {
	return elf.Data(e).String()
}

// ByteOrder returns the [binary.ByteOrder] matching the data encoding.
func (e Endian) ByteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// Machine is the target instruction set of an ELF file. Only the machines
// listed below are accepted. Any other e_machine value is rejected with an
// [UnsupportedMachineError].
type Machine uint16

// Supported machine types.
const (
	MachineX86     = Machine(elf.EM_386)
	MachineX86_64  = Machine(elf.EM_X86_64)
	MachineARM     = Machine(elf.EM_ARM)
	MachineAARCH64 = Machine(elf.EM_AARCH64)
	MachinePPC64   = Machine(elf.EM_PPC64)
	MachineS390    = Machine(elf.EM_S390)
	MachineRISCV   = Machine(elf.EM_RISCV)
)

// Machines lists all supported machine types.
var Machines = []Machine{
	MachineX86,
	MachineX86_64,
	MachineARM,
	MachineAARCH64,
	MachinePPC64,
	MachineS390,
	MachineRISCV,
}

// String implements [fmt.Stringer].
func (m Machine) String() string {
	return elf.Machine(m).String()
}

func parseMachine(value uint16) (Machine, error) {
	for _, m := range Machines {
		if Machine(value) == m {
			return m, nil
		}
	}

	return 0, &UnsupportedMachineError{Value: value}
}

// Executable describes an ELF executable as far as required for choosing and
// invoking a user mode emulator for it.
type Executable struct {
	Class   Class
	Endian  Endian
	Machine Machine

	// Interpreter is the path of the dynamic loader as found in the
	// PT_INTERP segment without the terminating NUL byte. It is empty for
	// statically linked executables.
	Interpreter string
}

// Static returns true if the executable has no interpreter.
func (e Executable) Static() bool {
	return e.Interpreter == ""
}

// Arch resolves the emulator [Arch] of the executable.
func (e Executable) Arch() (Arch, error) {
	return ResolveArch(e.Class, e.Machine, e.Endian)
}

// header is the subset of the ELF file header required for locating the
// program header table.
type header struct {
	class     Class
	endian    Endian
	machine   Machine
	phoff     uint64
	phentsize uint16
	phnum     uint16
}

// headerTail32 is the part of the 32 bit ELF header following e_machine. The
// section header fields are not used.
type headerTail32 struct {
	Version   uint32
	Entry     uint32
	Phoff     uint32
	Shoff     uint32
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// headerTail64 is the part of the 64 bit ELF header following e_machine. The
// section header fields are not used.
type headerTail64 struct {
	Version   uint32
	Entry     uint64
	Phoff     uint64
	Shoff     uint64
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// ReadExecutable reads the [Executable] description from the ELF file at the
// given path. The file is closed before returning.
func ReadExecutable(path string, mode ScanMode) (Executable, error) {
	file, err := os.Open(path)
	if err != nil {
		return Executable{}, &IOError{Op: "open", Err: err}
	}
	defer file.Close()

	return ParseExecutable(file, mode)
}

// ParseExecutable reads the [Executable] description from the given reader
// that must be positioned at the start of an ELF file.
//
// It returns an [IOError] if reading fails and a [FormatError] for any
// violation of the ELF format. A partial result is never returned.
func ParseExecutable(r io.ReadSeeker, mode ScanMode) (Executable, error) {
	hdr, err := readHeader(r)
	if err != nil {
		return Executable{}, err
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return Executable{}, &IOError{Op: "seek end", Err: err}
	}

	segments, err := scanProgramHeaders(r, hdr, uint64(size), mode)
	if err != nil {
		return Executable{}, err
	}

	interpreter, err := readInterpreter(r, segments, uint64(size))
	if err != nil {
		return Executable{}, err
	}

	return Executable{
		Class:       hdr.class,
		Endian:      hdr.endian,
		Machine:     hdr.machine,
		Interpreter: interpreter,
	}, nil
}

// readHeader decodes the ELF identification, machine type and the program
// header table location. Each field is validated before the next one is read.
func readHeader(r io.Reader) (header, error) {
	var hdr header

	magic, err := readBytes(r, len(elfMagic), "read magic")
	if err != nil {
		return hdr, err
	}

	if !bytes.Equal(magic, elfMagic) {
		return hdr, &FormatError{Err: ErrNotELFFile}
	}

	ident, err := readBytes(r, 2, "read ident")
	if err != nil {
		return hdr, err
	}

	switch Class(ident[0]) {
	case Class32, Class64:
		hdr.class = Class(ident[0])
	default:
		return hdr, &FormatError{
			Err: fmt.Errorf("%w: %d", ErrInvalidClass, ident[0]),
		}
	}

	switch Endian(ident[1]) {
	case LittleEndian, BigEndian:
		hdr.endian = Endian(ident[1])
	default:
		return hdr, &FormatError{
			Err: fmt.Errorf("%w: %d", ErrInvalidEndian, ident[1]),
		}
	}

	order := hdr.endian.ByteOrder()

	// Skip the remaining ident bytes (version, OS ABI, padding) and e_type.
	// e_machine is the last field read.
	const skipLen = elf.EI_NIDENT - 6 + 2

	buf, err := readBytes(r, skipLen+2, "read machine")
	if err != nil {
		return hdr, err
	}

	hdr.machine, err = parseMachine(order.Uint16(buf[skipLen:]))
	if err != nil {
		return hdr, &FormatError{Err: err}
	}

	switch hdr.class {
	case Class32:
		var tail headerTail32

		err := struc.UnpackWithOrder(r, &tail, order)
		if err != nil {
			return hdr, &IOError{Op: "read header", Err: err}
		}

		hdr.phoff = uint64(tail.Phoff)
		hdr.phentsize = tail.Phentsize
		hdr.phnum = tail.Phnum
	case Class64:
		var tail headerTail64

		err := struc.UnpackWithOrder(r, &tail, order)
		if err != nil {
			return hdr, &IOError{Op: "read header", Err: err}
		}

		hdr.phoff = tail.Phoff
		hdr.phentsize = tail.Phentsize
		hdr.phnum = tail.Phnum
	}

	return hdr, nil
}

func readBytes(r io.Reader, n int, op string) ([]byte, error) {
	buf := make([]byte, n)

	_, err := io.ReadFull(r, buf)
	if err != nil {
		return nil, &IOError{Op: op, Err: err}
	}

	return buf, nil
}
