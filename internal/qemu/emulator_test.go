// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/userrun/internal/qemu"
	"github.com/aibor/userrun/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindEmulator(t *testing.T) {
	t.Parallel()

	t.Run("static preferred", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		qemu.WriteTestEmulator(t, dir, sys.ArchRISCV64, false, "exit 0")
		static := qemu.WriteTestEmulator(t, dir, sys.ArchRISCV64, true, "exit 0")

		assert.Equal(t, static, qemu.FindEmulator(dir, sys.ArchRISCV64))
	})

	t.Run("dynamic fallback", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		dynamic := qemu.WriteTestEmulator(t, dir, sys.ArchRISCV64, false, "exit 0")

		assert.Equal(t, dynamic, qemu.FindEmulator(dir, sys.ArchRISCV64))
	})

	t.Run("static not executable", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		static := filepath.Join(dir, "qemu-s390x-static")
		require.NoError(t, os.WriteFile(static, nil, 0o600))

		expected := filepath.Join(dir, "qemu-s390x")
		assert.Equal(t, expected, qemu.FindEmulator(dir, sys.ArchS390X))
	})

	t.Run("static is directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "qemu-arm-static"), 0o755))

		expected := filepath.Join(dir, "qemu-arm")
		assert.Equal(t, expected, qemu.FindEmulator(dir, sys.ArchARM))
	})

	t.Run("nothing present", func(t *testing.T) {
		t.Parallel()

		expected := "/nonexistent/qemu-ppc64le"
		assert.Equal(t, expected, qemu.FindEmulator("/nonexistent", sys.ArchPPC64LE))
	})
}
