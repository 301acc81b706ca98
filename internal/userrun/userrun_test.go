// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package userrun_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aibor/userrun/internal/qemu"
	"github.com/aibor/userrun/internal/sys"
	"github.com/aibor/userrun/internal/userrun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLoader = "/lib/ld-linux-aarch64.so.1"

func writeFile(t *testing.T, path string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("loader"), 0o600))

	return path
}

func TestInspect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("dynamic", func(t *testing.T) {
		t.Parallel()

		path := sys.NewDynamicTestELF(sys.Class64, sys.BigEndian, sys.MachinePPC64, "/lib64/ld64.so.1").
			WriteFile(t, dir, "ppc64")

		exe, arch, err := userrun.Inspect(path, sys.ScanUntilLoad)
		require.NoError(t, err)

		assert.Equal(t, "/lib64/ld64.so.1", exe.Interpreter)
		assert.Equal(t, sys.ArchPPC64, arch)
	})

	t.Run("unsupported combination", func(t *testing.T) {
		t.Parallel()

		path := sys.NewStaticTestELF(sys.Class32, sys.LittleEndian, sys.MachineAARCH64).
			WriteFile(t, dir, "aarch32")

		_, _, err := userrun.Inspect(path, sys.ScanUntilLoad)
		require.ErrorIs(t, err, sys.ErrUnsupportedCombination)
	})

	t.Run("not elf", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "script")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o600))

		_, _, err := userrun.Inspect(path, sys.ScanUntilLoad)
		require.ErrorIs(t, err, sys.ErrNotELFFile)
		require.ErrorIs(t, err, &sys.FormatError{})
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, _, err := userrun.Inspect(filepath.Join(dir, "missing"), sys.ScanUntilLoad)
		require.ErrorIs(t, err, &sys.IOError{})
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	emulatorDir := t.TempDir()
	qemu.WriteTestEmulator(t, emulatorDir, sys.ArchAARCH64, false, qemu.EchoEmulatorScript)
	qemu.WriteTestEmulator(t, emulatorDir, sys.ArchARM, true, "exit 5")

	dir := t.TempDir()
	sysroot := t.TempDir()
	sysrootLoader := writeFile(t, filepath.Join(sysroot, testLoader))
	hostLoader := writeFile(t, filepath.Join(dir, "host", "ld.so"))

	static := sys.NewStaticTestELF(sys.Class64, sys.LittleEndian, sys.MachineAARCH64).
		WriteFile(t, dir, "static")
	dynamicSysroot := sys.NewDynamicTestELF(sys.Class64, sys.LittleEndian, sys.MachineAARCH64, testLoader).
		WriteFile(t, dir, "dynamic-sysroot")
	dynamicHost := sys.NewDynamicTestELF(sys.Class64, sys.LittleEndian, sys.MachineAARCH64, hostLoader).
		WriteFile(t, dir, "dynamic-host")
	arm := sys.NewStaticTestELF(sys.Class32, sys.LittleEndian, sys.MachineARM).
		WriteFile(t, dir, "arm")

	tests := []struct {
		name           string
		spec           userrun.Spec
		expectedOutput []string
		expectedErr    error
		expectedExit   int
	}{
		{
			name: "static",
			spec: userrun.Spec{
				Qemu:        qemu.CommandSpec{EmulatorDir: emulatorDir},
				Program:     static,
				ProgramArgs: []string{"-v", "a b"},
			},
			expectedOutput: []string{static, "-v", "a b"},
		},
		{
			name: "static with cpu",
			spec: userrun.Spec{
				Qemu:    qemu.CommandSpec{EmulatorDir: emulatorDir, CPU: "cortex-a53"},
				Program: static,
			},
			expectedOutput: []string{"-cpu", "cortex-a53", static},
		},
		{
			name: "host loader",
			spec: userrun.Spec{
				Qemu:        qemu.CommandSpec{EmulatorDir: emulatorDir},
				Program:     dynamicHost,
				ProgramArgs: []string{"x"},
			},
			expectedOutput: []string{dynamicHost, "x"},
		},
		{
			name: "sysroot",
			spec: userrun.Spec{
				Qemu: qemu.CommandSpec{
					EmulatorDir: emulatorDir,
					Sysroot:     sysroot,
				},
				Program:     dynamicSysroot,
				ProgramArgs: []string{"x"},
			},
			expectedOutput: []string{
				"-cpu", "max",
				sysrootLoader,
				"--library-path",
				sysroot + "/usr/lib64:" + sysroot + "/lib64",
				dynamicSysroot,
				"x",
			},
		},
		{
			name: "sysroot with static program",
			spec: userrun.Spec{
				Qemu: qemu.CommandSpec{
					EmulatorDir: emulatorDir,
					Sysroot:     sysroot,
				},
				Program: static,
			},
			expectedErr: qemu.ErrMissingLoaderWithSysroot,
		},
		{
			name: "loader missing in sysroot",
			spec: userrun.Spec{
				Qemu: qemu.CommandSpec{
					EmulatorDir: emulatorDir,
					Sysroot:     t.TempDir(),
				},
				Program: dynamicSysroot,
			},
			expectedErr: qemu.ErrLoaderNotFoundInSysroot,
		},
		{
			name: "loader missing on host",
			spec: userrun.Spec{
				Qemu:    qemu.CommandSpec{EmulatorDir: emulatorDir},
				Program: dynamicSysroot,
			},
			expectedErr: qemu.ErrLoaderNotFound,
		},
		{
			name: "exit code",
			spec: userrun.Spec{
				Qemu:    qemu.CommandSpec{EmulatorDir: emulatorDir},
				Program: arm,
			},
			expectedErr:  qemu.ErrEmulatorNonZeroExitCode,
			expectedExit: 5,
		},
		{
			name: "emulator missing",
			spec: userrun.Spec{
				Qemu:    qemu.CommandSpec{EmulatorDir: t.TempDir()},
				Program: static,
			},
			expectedErr: qemu.ErrEmulatorSpawnFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout bytes.Buffer

			err := userrun.Run(t.Context(), tt.spec, userrun.IO{Stdout: &stdout})
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)

				var cmdErr *qemu.CommandError
				if tt.expectedExit != 0 && assert.ErrorAs(t, err, &cmdErr) {
					assert.Equal(t, tt.expectedExit, cmdErr.ExitCode)
				}

				return
			}

			require.NoError(t, err)

			expected := strings.Join(tt.expectedOutput, "\n") + "\n"
			assert.Equal(t, expected, stdout.String())
		})
	}
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	program := sys.NewStaticTestELF(sys.Class64, sys.LittleEndian, sys.MachineX86_64).
		WriteFile(t, dir, "prog")

	spec := userrun.Spec{
		Qemu: qemu.CommandSpec{
			EmulatorDir: "/nonexistent",
			Strace:      true,
		},
		Program:     program,
		ProgramArgs: []string{"hello world"},
		DryRun:      true,
	}

	var stdout bytes.Buffer

	err := userrun.Run(t.Context(), spec, userrun.IO{Stdout: &stdout})
	require.NoError(t, err)

	expected := "/nonexistent/qemu-x86_64 -strace " + program + " 'hello world'\n"
	assert.Equal(t, expected, stdout.String())
}

func TestRun_ListSharedObjects(t *testing.T) {
	t.Parallel()

	emulatorDir := t.TempDir()
	qemu.WriteTestEmulator(t, emulatorDir, sys.ArchRISCV64, false, `
printf '\tlinux-vdso.so.1 (0x00007ffd4b3f2000)\n'
printf '\tlibc.so.6 => /lib/riscv64-linux-gnu/libc.so.6 (0x0000003ff7e00000)\n'
printf '\t%s (0x0000003ff7fd0000)\n' "$1"
`)

	dir := t.TempDir()
	loader := writeFile(t, filepath.Join(dir, "ld-linux-riscv64-lp64d.so.1"))
	program := sys.NewDynamicTestELF(sys.Class64, sys.LittleEndian, sys.MachineRISCV, loader).
		WriteFile(t, dir, "prog")

	spec := userrun.Spec{
		Qemu:              qemu.CommandSpec{EmulatorDir: emulatorDir},
		Program:           program,
		ListSharedObjects: true,
	}

	var stdout bytes.Buffer

	err := userrun.Run(t.Context(), spec, userrun.IO{Stdout: &stdout})
	require.NoError(t, err)

	expected := "/lib/riscv64-linux-gnu/libc.so.6\n" + loader + "\n"
	assert.Equal(t, expected, stdout.String())
}
