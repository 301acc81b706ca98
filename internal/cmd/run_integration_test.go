// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build integration

//go:generate env CGO_ENABLED=0 GOARCH=arm64 go build -v -trimpath -buildvcs=false -o testdata/bin/ ./testdata/cmd/...

package cmd_test

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/aibor/userrun/internal/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var EmulatorDir = "/usr/bin"

func init() {
	flag.StringVar(
		&EmulatorDir,
		"userrun.emulatorDir",
		EmulatorDir,
		"directory of the qemu-aarch64 emulator",
	)
}

func TestIntegration(t *testing.T) {
	t.Setenv("USERRUN_ARGS", "")
	t.Setenv("SYSROOT", "")

	tests := []struct {
		name             string
		bin              string
		args             []string
		programArgs      []string
		expectedExitCode int
		expectedStdOut   string
		expectedStdErr   string
	}{
		{
			name:           "return 0",
			bin:            "testdata/bin/return",
			programArgs:    []string{"0"},
			expectedStdOut: "exit code: 0",
		},
		{
			name:             "return 55",
			bin:              "testdata/bin/return",
			programArgs:      []string{"55"},
			expectedExitCode: 55,
			expectedStdOut:   "exit code: 55",
		},
		{
			name:           "output",
			bin:            "testdata/bin/output",
			programArgs:    []string{"16", "3"},
			expectedStdOut: "\x0e\x0f",
		},
		{
			name:           "strace",
			bin:            "testdata/bin/return",
			args:           []string{"-strace"},
			programArgs:    []string{"0"},
			expectedStdErr: "exit_group(0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{
				"userrun",
				"-emulatorDir", EmulatorDir,
			}
			args = append(args, tt.args...)
			bin, err := cmd.AbsoluteFilePath(tt.bin)
			require.NoError(t, err)

			args = append(args, bin)
			args = append(args, tt.programArgs...)

			var stdOut, stdErr bytes.Buffer

			exitCode := cmd.Run(t.Context(), args, cmd.IO{
				Stdout: &stdOut,
				Stderr: &stdErr,
			})
			assert.Equal(t, tt.expectedExitCode, exitCode, "exit code")

			assertBufContains(t, stdOut, tt.expectedStdOut, "stdout")
			assertBufContains(t, stdErr, tt.expectedStdErr, "stderr")
		})
	}
}

func assertBufContains(
	t *testing.T,
	buf bytes.Buffer,
	expected string,
	scope string,
) {
	t.Helper()

	actual := strings.TrimSpace(buf.String())
	if actual != "" {
		t.Log(scope+":", actual)
	}

	assert.Contains(t, actual, expected, scope)
}
