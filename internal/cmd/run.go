// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aibor/userrun/internal/qemu"
	"github.com/aibor/userrun/internal/userrun"
)

const localConfigFile = ".userrun-args"

// IO provides input and output details for the command.
type IO = userrun.IO

func run(ctx context.Context, args []string, cfg IO) error {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return err
	}

	flags := newFlags(cfg.Stderr)

	err = flags.ParseArgs(args[1:])
	if err != nil {
		return err
	}

	setupLogging(cfg.Stderr, flags.debug)

	return userrun.Run(ctx, flags.spec, cfg) //nolint:wrapcheck
}

func handleRunError(err error, errOutput io.Writer) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if err == nil || errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if errors.Is(err, &ParseArgsError{}) {
		return -1
	}

	exitCode := -1

	var qemuErr *qemu.CommandError
	if errors.As(err, &qemuErr) {
		if qemuErr.ExitCode != 0 {
			exitCode = qemuErr.ExitCode
		}
	}

	// Do not print the error in case the emulator ran successfully and the
	// program returned a non-zero exit code.
	if !errors.Is(err, qemu.ErrEmulatorNonZeroExitCode) {
		fmt.Fprintf(errOutput, "Error [%s]: %v\n", name, err)
	}

	return exitCode
}

// Run is the main entry point for the CLI command. The first argument is the
// command name.
//
// It returns the exit code of the program run by the emulator. If anything
// else fails, -1 is returned.
func Run(ctx context.Context, args []string, cfg IO) int {
	err := run(ctx, args, cfg)
	return handleRunError(err, cfg.Stderr)
}
