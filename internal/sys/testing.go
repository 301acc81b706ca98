// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/lunixbochs/struc"
	"github.com/stretchr/testify/require"
)

// TestProg is a program header entry of a [TestELF].
type TestProg struct {
	Type   elf.ProgType
	Flags  elf.ProgFlag
	Offset uint64
	Vaddr  uint64
	Filesz uint64
}

// TestELF describes a minimal synthetic ELF file. The program header table
// directly follows the file header. Data is appended after the table at
// [TestELF.DataOffset].
type TestELF struct {
	Class   Class
	Endian  Endian
	Machine uint16
	Progs   []TestProg
	Data    []byte

	// Phentsize overrides the program header entry size. Entries are
	// truncated or zero padded to it. The class size is used if 0.
	Phentsize uint16
}

// NewDynamicTestELF returns a [TestELF] with a PT_INTERP segment for the given
// interpreter path followed by a read-execute PT_LOAD segment mapping the
// file at virtual address 0.
func NewDynamicTestELF(
	class Class,
	endian Endian,
	machine Machine,
	interpreter string,
) TestELF {
	file := TestELF{
		Class:   class,
		Endian:  endian,
		Machine: uint16(machine),
		Data:    append([]byte(interpreter), 0),
	}

	// Two program headers, set before DataOffset is calculated.
	file.Progs = make([]TestProg, 2)

	file.Progs[0] = TestProg{
		Type:   elf.PT_INTERP,
		Flags:  elf.PF_R,
		Offset: file.DataOffset(),
		Vaddr:  file.DataOffset(),
		Filesz: uint64(len(file.Data)),
	}
	file.Progs[1] = TestProg{
		Type:  elf.PT_LOAD,
		Flags: elf.PF_R | elf.PF_X,
	}

	return file
}

// NewStaticTestELF returns a [TestELF] with only a read-execute PT_LOAD
// segment.
func NewStaticTestELF(class Class, endian Endian, machine Machine) TestELF {
	return TestELF{
		Class:   class,
		Endian:  endian,
		Machine: uint16(machine),
		Progs: []TestProg{
			{Type: elf.PT_LOAD, Flags: elf.PF_R | elf.PF_X},
		},
	}
}

func (e TestELF) headerSize() uint64 {
	if e.Class == Class32 {
		return 52
	}

	return 64
}

func (e TestELF) programHeaderSize() uint64 {
	if e.Phentsize != 0 {
		return uint64(e.Phentsize)
	}

	return classProgramHeaderSize(e.Class)
}

// DataOffset returns the file offset of [TestELF.Data].
func (e TestELF) DataOffset() uint64 {
	return e.headerSize() + uint64(len(e.Progs))*e.programHeaderSize()
}

// Bytes encodes the file.
func (e TestELF) Bytes(tb testing.TB) []byte {
	tb.Helper()

	var buf bytes.Buffer

	order := e.Endian.ByteOrder()

	ident := [elf.EI_NIDENT]byte{0x7f, 'E', 'L', 'F'}
	ident[elf.EI_CLASS] = byte(e.Class)
	ident[elf.EI_DATA] = byte(e.Endian)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	buf.Write(ident[:])
	require.NoError(tb, binary.Write(&buf, order, uint16(elf.ET_EXEC)))
	require.NoError(tb, binary.Write(&buf, order, e.Machine))

	phnum := uint16(len(e.Progs))

	switch e.Class {
	case Class32:
		tail := headerTail32{
			Version:   uint32(elf.EV_CURRENT),
			Phoff:     uint32(e.headerSize()),
			Ehsize:    uint16(e.headerSize()),
			Phentsize: uint16(e.programHeaderSize()),
			Phnum:     phnum,
		}
		require.NoError(tb, struc.PackWithOrder(&buf, &tail, order))

		for _, p := range e.Progs {
			entry := &programHeader32{
				Type:   uint32(p.Type),
				Offset: uint32(p.Offset),
				Vaddr:  uint32(p.Vaddr),
				Paddr:  uint32(p.Vaddr),
				Filesz: uint32(p.Filesz),
				Memsz:  uint32(p.Filesz),
				Flags:  uint32(p.Flags),
			}
			e.writeProgramHeader(tb, &buf, entry)
		}
	default:
		tail := headerTail64{
			Version:   uint32(elf.EV_CURRENT),
			Phoff:     e.headerSize(),
			Ehsize:    uint16(e.headerSize()),
			Phentsize: uint16(e.programHeaderSize()),
			Phnum:     phnum,
		}
		require.NoError(tb, struc.PackWithOrder(&buf, &tail, order))

		for _, p := range e.Progs {
			entry := &programHeader64{
				Type:   uint32(p.Type),
				Flags:  uint32(p.Flags),
				Offset: p.Offset,
				Vaddr:  p.Vaddr,
				Paddr:  p.Vaddr,
				Filesz: p.Filesz,
				Memsz:  p.Filesz,
			}
			e.writeProgramHeader(tb, &buf, entry)
		}
	}

	buf.Write(e.Data)

	return buf.Bytes()
}

// writeProgramHeader packs the entry and writes it truncated or zero padded
// to the entry size.
func (e TestELF) writeProgramHeader(tb testing.TB, buf *bytes.Buffer, entry any) {
	tb.Helper()

	var packed bytes.Buffer

	err := struc.PackWithOrder(&packed, entry, e.Endian.ByteOrder())
	require.NoError(tb, err)

	raw := make([]byte, e.programHeaderSize())
	copy(raw, packed.Bytes())
	buf.Write(raw)
}

// WriteFile writes the encoded file into the given directory and returns its
// path.
func (e TestELF) WriteFile(tb testing.TB, dir, name string) string {
	tb.Helper()

	path := filepath.Join(dir, name)

	err := os.WriteFile(path, e.Bytes(tb), 0o600)
	require.NoError(tb, err)

	return path
}
