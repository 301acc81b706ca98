// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package userrun runs foreign architecture ELF programs with the matching
// QEMU user mode emulator.
//
// The program file is inspected once. Its ELF class, endianness and machine
// select the emulator, its requested loader decides how the emulator is
// invoked.
package userrun
