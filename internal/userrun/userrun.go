// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package userrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aibor/userrun/internal/qemu"
	"github.com/aibor/userrun/internal/sys"
)

// Spec describes a single program run.
type Spec struct {
	// Emulator parameters. Program, interpreter and architecture dependent
	// fields are set from the program file.
	Qemu qemu.CommandSpec

	// Path of the program to run. Passed to the emulator unchanged.
	Program string

	// Arguments for the program.
	ProgramArgs []string

	// How far the program header table is scanned.
	ScanMode sys.ScanMode

	// Print the emulator command line instead of running it.
	DryRun bool

	// Print the shared objects the program's loader resolves instead of
	// running the program.
	ListSharedObjects bool
}

// IO provides input and output for the program run.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Inspect reads the program file and resolves the emulator architecture for
// it.
func Inspect(path string, mode sys.ScanMode) (sys.Executable, sys.Arch, error) {
	exe, err := sys.ReadExecutable(path, mode)
	if err != nil {
		return sys.Executable{}, sys.Arch{}, fmt.Errorf("read executable: %w", err)
	}

	slog.Debug("Read executable",
		slog.String("path", path),
		slog.String("class", exe.Class.String()),
		slog.String("endian", exe.Endian.String()),
		slog.String("machine", exe.Machine.String()),
		slog.String("interpreter", exe.Interpreter),
	)

	arch, err := exe.Arch()
	if err != nil {
		return sys.Executable{}, sys.Arch{}, fmt.Errorf("resolve arch: %w", err)
	}

	slog.Debug("Resolved architecture", slog.String("arch", arch.String()))

	return exe, arch, nil
}

// NewCommandSpec inspects the program and returns the emulator command spec
// for it with all defaults applied.
func NewCommandSpec(spec Spec) (qemu.CommandSpec, error) {
	exe, arch, err := Inspect(spec.Program, spec.ScanMode)
	if err != nil {
		return qemu.CommandSpec{}, err
	}

	cmdSpec := spec.Qemu
	cmdSpec.Program = spec.Program
	cmdSpec.ProgramArgs = spec.ProgramArgs
	cmdSpec.Interpreter = exe.Interpreter
	cmdSpec.ListSharedObjects = spec.ListSharedObjects
	cmdSpec.AddDefaultsFor(arch)

	return cmdSpec, nil
}

// Run runs the program given by spec with its emulator and waits for it to
// exit.
//
// A non-zero exit of the emulator is returned as [qemu.CommandError] that
// carries the exit code.
func Run(ctx context.Context, spec Spec, cfg IO) error {
	cmdSpec, err := NewCommandSpec(spec)
	if err != nil {
		return err
	}

	if spec.ListSharedObjects && !spec.DryRun {
		return listSharedObjects(ctx, cmdSpec, cfg)
	}

	cmd, err := qemu.NewCommand(cmdSpec)
	if err != nil {
		return fmt.Errorf("emulator command: %w", err)
	}

	if spec.DryRun {
		_, err := fmt.Fprintln(cfg.Stdout, cmd.String())
		if err != nil {
			return fmt.Errorf("print command: %w", err)
		}

		return nil
	}

	return cmd.Run(ctx, cfg.Stdin, cfg.Stdout, cfg.Stderr) //nolint:wrapcheck
}

func listSharedObjects(
	ctx context.Context,
	cmdSpec qemu.CommandSpec,
	cfg IO,
) error {
	paths, err := qemu.ListSharedObjects(ctx, cmdSpec, cfg.Stderr)
	if err != nil {
		return fmt.Errorf("list shared objects: %w", err)
	}

	for _, path := range paths {
		_, err := fmt.Fprintln(cfg.Stdout, path)
		if err != nil {
			return fmt.Errorf("print shared object: %w", err)
		}
	}

	return nil
}
