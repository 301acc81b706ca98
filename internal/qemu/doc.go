// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu provides utilities for composing and running QEMU user mode
// emulation commands as needed by userrun. It expects the required
// "qemu-<arch>" or "qemu-<arch>-static" binary to be present on the system.
//
// Programs are run either directly by the emulator, which then resolves the
// dynamic loader on the host, or, if a sysroot is given, by running the loader
// from the sysroot explicitly with a library search path into the sysroot.
package qemu
