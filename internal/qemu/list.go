// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aibor/userrun/internal/sys"
)

// ListSharedObjects runs the loader of the program given by spec in list mode
// and returns the paths of the shared objects it resolves, including the
// loader itself.
//
// [CommandSpec.ProgramArgs] are ignored. Errors of the emulator are written to
// stderr.
func ListSharedObjects(
	ctx context.Context,
	spec CommandSpec,
	stderr io.Writer,
) ([]string, error) {
	spec.ListSharedObjects = true

	cmd, err := NewCommand(spec)
	if err != nil {
		return nil, err
	}

	var stdout bytes.Buffer

	err = cmd.Run(ctx, nil, &stdout, stderr)
	if err != nil {
		return nil, err
	}

	paths, err := sys.ParseSharedObjects(&stdout)
	if err != nil {
		return nil, fmt.Errorf("parse loader output: %w", err)
	}

	return paths, nil
}
