// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/aibor/userrun/internal/qemu"
	"github.com/aibor/userrun/internal/sys"
	"github.com/aibor/userrun/internal/userrun"
)

const (
	name = "userrun"

	usageMessage = `Usage of 'userrun':
    userrun [flags...] program [args...]

Using it directly:
	userrun ./hello-arm64 -flagForProgram=3

Using it with a foreign architecture root file system for loader and
libraries:
	userrun -sysroot=/srv/arm64 ./hello-arm64

Using it with go test:
	GOARCH=arm64 go test -exec userrun ./...

The sysroot can also be provided via environment variable SYSROOT. The flag
takes precedence.

All userrun flags can also be provided via environment variable USERRUN_ARGS:
	USERRUN_ARGS="-sysroot=/srv/arm64 -debug" go test -exec userrun ./...

All userrun flags can also be provided via file ./.userrun-args, with one
argument per line.
`
)

type flags struct {
	spec    userrun.Spec
	flagSet *flag.FlagSet

	version  bool
	debug    bool
	fullScan bool
}

func newFlags(output io.Writer) *flags {
	flags := &flags{
		spec: userrun.Spec{
			Qemu: qemu.CommandSpec{
				EmulatorDir: qemu.DefaultEmulatorDir,
				Sysroot:     EnvSysroot(),
			},
		},
	}

	flags.initFlagset(output)

	return flags
}

func (f *flags) ParseArgs(args []string) error {
	// Parses arguments up to the first one that is not prefixed with a "-" or
	// is "--".
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	positionalArgs := f.flagSet.Args()

	// First positional argument is supposed to be the program.
	if len(positionalArgs) < 1 {
		return f.fail("no program given", nil)
	}

	if positionalArgs[0] == "" {
		return f.fail("program path", ErrEmptyFilePath)
	}

	// The program path and all further positional arguments are passed to
	// the emulator unchanged.
	f.spec.Program = positionalArgs[0]
	f.spec.ProgramArgs = positionalArgs[1:]

	if f.fullScan {
		f.spec.ScanMode = sys.ScanFull
	}

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.StringVar(
		&f.spec.Qemu.Executable,
		"qemuBin",
		f.spec.Qemu.Executable,
		"QEMU user mode emulator to use (default depends on program arch: "+
			"qemu-*-static or qemu-* in emulatorDir)",
	)

	flagSet.Var(
		(*FilePath)(&f.spec.Qemu.EmulatorDir),
		"emulatorDir",
		"directory to look up the QEMU user mode emulator in",
	)

	flagSet.Var(
		(*OptionalFilePath)(&f.spec.Qemu.Sysroot),
		"sysroot",
		"root directory of a foreign architecture file system the loader and "+
			"libraries are used from (default $SYSROOT, empty value unsets it)",
	)

	flagSet.StringVar(
		&f.spec.Qemu.CPU,
		"cpu",
		f.spec.Qemu.CPU,
		"QEMU CPU model to use (default \"max\" with sysroot, emulator "+
			"default otherwise)",
	)

	flagSet.BoolVar(
		&f.spec.Qemu.Strace,
		"strace",
		f.spec.Qemu.Strace,
		"log system calls of the program",
	)

	flagSet.Var(
		(*EmulatorArgList)(&f.spec.Qemu.ExtraArgs),
		"qemuArg",
		"additional QEMU option as name or name=value. Flag may be used more "+
			"than once. Empty value clears the list.",
	)

	flagSet.BoolVar(
		&f.fullScan,
		"fullScan",
		f.fullScan,
		"scan the whole program header table for the loader, not only up to "+
			"the first loadable segment",
	)

	flagSet.BoolVar(
		&f.spec.ListSharedObjects,
		"list",
		f.spec.ListSharedObjects,
		"list the shared objects of the program instead of running it",
	)

	flagSet.BoolVar(
		&f.spec.DryRun,
		"dryRun",
		f.spec.DryRun,
		"print the emulator command instead of running it",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
