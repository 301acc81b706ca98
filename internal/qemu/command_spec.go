// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aibor/userrun/internal/sys"
)

const (
	// DefaultEmulatorDir is the directory the emulator binaries are looked up
	// in, if no explicit emulator executable is given.
	DefaultEmulatorDir = "/usr/bin"

	// DefaultSysrootCPU is the CPU model used if a sysroot is given and no
	// CPU model is set explicitly.
	DefaultSysrootCPU = "max"
)

const (
	loaderLibraryPathFlag = "--library-path"
	loaderListFlag        = "--list"
)

// CommandSpec defines the parameters for a [Command].
type CommandSpec struct {
	// Path to the qemu user mode emulator binary. If empty, it is looked up
	// in EmulatorDir by [CommandSpec.AddDefaultsFor].
	Executable string

	// Directory to look up the emulator binary in. Defaults to
	// [DefaultEmulatorDir].
	EmulatorDir string

	// Library directory suffix of the target architecture, like "64" for
	// "lib64". Set by [CommandSpec.AddDefaultsFor].
	LibSuffix string

	// CPU model to emulate. Depends on the QEMU binary used.
	CPU string

	// Root directory of a foreign architecture file system the loader and
	// the libraries are used from. The loader is run explicitly if set.
	Sysroot string

	// Absolute path of the loader as requested by the program. Empty for
	// statically linked programs.
	Interpreter string

	// Path of the program to run. Passed to the emulator unchanged.
	Program string

	// Arguments for the program. Passed to the emulator unchanged.
	ProgramArgs []string

	// Log system calls of the program.
	Strace bool

	// Do not run the program but have its loader list the shared objects it
	// resolves. Requires a dynamically linked program.
	ListSharedObjects bool

	// ExtraArgs are extra arguments that are passed to the emulator. They
	// must not interfere with the arguments set by the command itself or an
	// error will be returned by [NewCommand].
	ExtraArgs []Argument
}

// AddDefaultsFor adds architecture specific default values to the given spec
// if the fields are not set yet.
func (s *CommandSpec) AddDefaultsFor(arch sys.Arch) {
	if s.EmulatorDir == "" {
		s.EmulatorDir = DefaultEmulatorDir
	}

	if s.Executable == "" {
		s.Executable = FindEmulator(s.EmulatorDir, arch)
	}

	s.LibSuffix = arch.LibSuffix

	if s.Sysroot != "" && s.CPU == "" {
		s.CPU = DefaultSysrootCPU
	}
}

// Validate checks that the [CommandSpec] can be run. Loader paths are checked
// for existence.
func (s *CommandSpec) Validate() error {
	if s.Executable == "" {
		return &ArgumentError{"no emulator executable given"}
	}

	if s.Program == "" {
		return &ArgumentError{"no program given"}
	}

	switch {
	case s.Sysroot != "":
		if s.Interpreter == "" {
			return ErrMissingLoaderWithSysroot
		}

		err := checkFileExists(s.LoaderPath())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLoaderNotFoundInSysroot, err)
		}
	case s.Interpreter != "":
		err := checkFileExists(s.Interpreter)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLoaderNotFound, err)
		}
	case s.ListSharedObjects:
		return sys.ErrNoInterpreter
	}

	return nil
}

// LoaderPath returns the path of the loader on the host. With a sysroot, the
// requested loader path is relative to it.
func (s *CommandSpec) LoaderPath() string {
	if s.Interpreter == "" || s.Sysroot == "" {
		return s.Interpreter
	}

	return filepath.Join(s.Sysroot, s.Interpreter)
}

// LibraryPath returns the library search path for the loader within the
// sysroot. It is empty without a sysroot.
func (s *CommandSpec) LibraryPath() string {
	if s.Sysroot == "" {
		return ""
	}

	return filepath.Join(s.Sysroot, "usr", "lib"+s.LibSuffix) +
		string(filepath.ListSeparator) +
		filepath.Join(s.Sysroot, "lib"+s.LibSuffix)
}

// arguments compiles the emulator options.
func (s *CommandSpec) arguments() []Argument {
	var args []Argument

	if s.CPU != "" {
		args = append(args, UniqueArg("cpu", s.CPU))
	}

	if s.Strace {
		args = append(args, UniqueArg("strace"))
	}

	return append(args, s.ExtraArgs...)
}

// positionalArguments compiles the arguments following the emulator options.
//
// With a sysroot, the loader is run explicitly with the library search path
// pointing into the sysroot. Otherwise, the emulator runs the program and
// its loader is resolved on the host.
func (s *CommandSpec) positionalArguments() []string {
	var args []string

	switch {
	case s.Sysroot != "":
		args = append(args,
			s.LoaderPath(),
			loaderLibraryPathFlag,
			s.LibraryPath(),
		)
	case s.ListSharedObjects:
		args = append(args, s.Interpreter)
	}

	if s.ListSharedObjects {
		return append(args, loaderListFlag, s.Program)
	}

	args = append(args, s.Program)

	return append(args, s.ProgramArgs...)
}

func checkFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if info.IsDir() {
		return &ArgumentError{"is a directory: " + path}
	}

	return nil
}
