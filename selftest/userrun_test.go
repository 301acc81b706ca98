// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build selftest

// Package selftest is run with userrun itself as "go test -exec" wrapper for
// a foreign GOARCH. The expected architecture is given by the environment.
package selftest

import (
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/aibor/userrun/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArch(t *testing.T) {
	expected := os.Getenv("USERRUN_SELFTEST_GOARCH")
	if expected == "" {
		t.Skip("USERRUN_SELFTEST_GOARCH not set")
	}

	assert.Equal(t, expected, runtime.GOARCH)
}

func TestArgsPassedThrough(t *testing.T) {
	require.NotEmpty(t, os.Args)

	var testFlags []string

	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "-test.") {
			testFlags = append(testFlags, arg)
		}
	}

	assert.NotEmpty(t, testFlags, "go test flags should reach the program")
}

func TestSelfExecutable(t *testing.T) {
	self, err := os.Executable()
	require.NoError(t, err)

	exe, err := sys.ReadExecutable(self, sys.ScanFull)
	require.NoError(t, err)

	arch, err := exe.Arch()
	require.NoError(t, err)

	goarchNames := map[string]string{
		"386":     "i386",
		"amd64":   "x86_64",
		"arm":     "arm",
		"arm64":   "aarch64",
		"ppc64":   "ppc64",
		"ppc64le": "ppc64le",
		"riscv64": "riscv64",
		"s390x":   "s390x",
	}

	assert.Equal(t, goarchNames[runtime.GOARCH], arch.Name)
}
