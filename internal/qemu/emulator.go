// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"os"
	"path/filepath"

	"github.com/aibor/userrun/internal/sys"
	"golang.org/x/sys/unix"
)

const (
	emulatorPrefix       = "qemu-"
	staticEmulatorSuffix = "-static"
)

// EmulatorName returns the file name of the user mode emulator for the given
// architecture.
func EmulatorName(arch sys.Arch) string {
	return emulatorPrefix + arch.Name
}

// FindEmulator returns the path of the user mode emulator for the given
// architecture in dir.
//
// The statically linked variant "qemu-<arch>-static" is preferred if it is an
// executable regular file. Otherwise "qemu-<arch>" is returned without further
// checks. If it does not exist, running it fails.
func FindEmulator(dir string, arch sys.Arch) string {
	path := filepath.Join(dir, EmulatorName(arch))

	staticPath := path + staticEmulatorSuffix
	if isExecutable(staticPath) {
		return staticPath
	}

	return path
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	return unix.Access(path, unix.X_OK) == nil
}
