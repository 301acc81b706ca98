// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
)

// Arch is a user mode emulator architecture.
type Arch struct {
	// Name is the architecture name as used by QEMU for its user mode
	// emulator binaries "qemu-<name>".
	Name string

	// LibSuffix is the suffix of the library directories of the
	// architecture, like "64" for "/usr/lib64".
	LibSuffix string
}

// String implements [fmt.Stringer].
func (a Arch) String() string {
	return a.Name
}

// Supported emulator architectures.
var (
	ArchAARCH64 = Arch{"aarch64", "64"}
	ArchARM     = Arch{"arm", ""}
	ArchI386    = Arch{"i386", ""}
	ArchPPC64   = Arch{"ppc64", "64"}
	ArchPPC64LE = Arch{"ppc64le", "64"}
	ArchRISCV32 = Arch{"riscv32", ""}
	ArchRISCV64 = Arch{"riscv64", "64"}
	ArchS390    = Arch{"s390", ""}
	ArchS390X   = Arch{"s390x", "64"}
	ArchX86_64  = Arch{"x86_64", "64"}
)

type archKey struct {
	class   Class
	machine Machine
	endian  Endian
}

// archTable maps every supported combination. Architectures that work with
// either byte order have an entry for each.
var archTable = map[archKey]Arch{
	{Class64, MachineAARCH64, LittleEndian}: ArchAARCH64,
	{Class64, MachineAARCH64, BigEndian}:    ArchAARCH64,
	{Class32, MachineARM, LittleEndian}:     ArchARM,
	{Class32, MachineARM, BigEndian}:        ArchARM,
	{Class64, MachinePPC64, BigEndian}:      ArchPPC64,
	{Class64, MachinePPC64, LittleEndian}:   ArchPPC64LE,
	{Class32, MachineRISCV, LittleEndian}:   ArchRISCV32,
	{Class32, MachineRISCV, BigEndian}:      ArchRISCV32,
	{Class64, MachineRISCV, LittleEndian}:   ArchRISCV64,
	{Class64, MachineRISCV, BigEndian}:      ArchRISCV64,
	{Class32, MachineS390, LittleEndian}:    ArchS390,
	{Class32, MachineS390, BigEndian}:       ArchS390,
	{Class64, MachineS390, LittleEndian}:    ArchS390X,
	{Class64, MachineS390, BigEndian}:       ArchS390X,
	{Class32, MachineX86, LittleEndian}:     ArchI386,
	{Class32, MachineX86, BigEndian}:        ArchI386,
	{Class64, MachineX86_64, LittleEndian}:  ArchX86_64,
	{Class64, MachineX86_64, BigEndian}:     ArchX86_64,
}

// ResolveArch returns the emulator [Arch] for the given ELF attributes.
//
// It returns [ErrUnsupportedCombination] for combinations that have no
// emulator, like a 32 bit AARCH64 file.
func ResolveArch(class Class, machine Machine, endian Endian) (Arch, error) {
	arch, exists := archTable[archKey{class, machine, endian}]
	if !exists {
		return Arch{}, fmt.Errorf(
			"%w: %s %s %s",
			ErrUnsupportedCombination,
			machine,
			class,
			endian,
		)
	}

	return arch, nil
}
