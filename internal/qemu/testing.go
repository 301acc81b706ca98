// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/userrun/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ArgumentValueAssertionFunc returns an [assert.ComparisonAssertionFunc] that
// can be used to assert the value of the Argument with the given name.
func ArgumentValueAssertionFunc(
	name string,
	assertion assert.ComparisonAssertionFunc,
) assert.ComparisonAssertionFunc {
	return func(t assert.TestingT, arg1, arg2 any, arg3 ...any) bool {
		args, ok := arg1.([]Argument)
		if !assert.True(t, ok, "first argument should be []Argument") {
			return false
		}

		for _, arg := range args {
			if name != arg.name {
				continue
			}

			return assertion(t, arg.value, arg2, arg3...)
		}

		return assert.Fail(t, "Argument not found")
	}
}

// EchoEmulatorScript is a shell script body for [WriteTestEmulator] that
// prints each of its arguments on a separate line and exits successfully.
const EchoEmulatorScript = `for arg in "$@"; do echo "$arg"; done`

// WriteTestEmulator writes an executable shell script with the given body as
// fake emulator for the given architecture into dir and returns its path.
// With static set, the "-static" variant is written.
func WriteTestEmulator(
	tb testing.TB,
	dir string,
	arch sys.Arch,
	static bool,
	body string,
) string {
	tb.Helper()

	name := EmulatorName(arch)
	if static {
		name += staticEmulatorSuffix
	}

	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body + "\n"

	//nolint:gosec
	err := os.WriteFile(path, []byte(content), 0o755)
	require.NoError(tb, err)

	return path
}
