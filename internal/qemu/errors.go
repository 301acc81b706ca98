// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import "errors"

var (
	// ErrMissingLoaderWithSysroot is returned if a sysroot is given but the
	// executable does not request a dynamic loader.
	ErrMissingLoaderWithSysroot = errors.New("sysroot given, but executable has no loader")

	// ErrLoaderNotFoundInSysroot is returned if the loader requested by the
	// executable does not exist below the sysroot.
	ErrLoaderNotFoundInSysroot = errors.New("loader not found in sysroot")

	// ErrLoaderNotFound is returned if the loader requested by the
	// executable does not exist on the host.
	ErrLoaderNotFound = errors.New("loader not found")

	// ErrEmulatorSpawnFailed is returned if the emulator process could not be
	// started.
	ErrEmulatorSpawnFailed = errors.New("failed to spawn emulator")

	// ErrEmulatorNonZeroExitCode is returned if the emulator did not return
	// exit code 0.
	ErrEmulatorNonZeroExitCode = errors.New("exit code not 0")

	// ErrArgumentCollision is returned if two [Argument]s are considered equal.
	ErrArgumentCollision = errors.New("colliding args")
)
