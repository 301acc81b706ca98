// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"
)

const signalExitCodeBase = 128

// Signals received by the process while the emulator runs that are forwarded
// to the emulator.
//
// SIGINT is caught but not forwarded. When sent by a terminal it is delivered
// to the whole foreground process group and so reaches the emulator anyway.
var forwardedSignals = []os.Signal{
	syscall.SIGTERM,
	syscall.SIGHUP,
	syscall.SIGQUIT,
	syscall.SIGUSR1,
	syscall.SIGUSR2,
}

// Command is a single emulator command line that can be run.
type Command struct {
	executable string
	args       []string
}

// NewCommand validates the given [CommandSpec] and compiles the emulator
// command line from it.
func NewCommand(spec CommandSpec) (*Command, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	args, err := BuildArgumentStrings(spec.arguments())
	if err != nil {
		return nil, err
	}

	args = append(args, spec.positionalArguments()...)

	return &Command{
		executable: spec.Executable,
		args:       args,
	}, nil
}

// Executable returns the path of the emulator binary.
func (c *Command) Executable() string {
	return c.executable
}

// Args returns the arguments passed to the emulator.
func (c *Command) Args() []string {
	return c.args
}

// String returns the command line in a form that can be pasted into a shell.
func (c *Command) String() string {
	parts := make([]string, 0, len(c.args)+1)
	parts = append(parts, shellQuote(c.executable))

	for _, arg := range c.args {
		parts = append(parts, shellQuote(arg))
	}

	return strings.Join(parts, " ")
}

// Run runs the emulator and waits for it to exit.
//
// Standard IO is connected to the given reader and writers. Termination
// signals received while the emulator runs are forwarded to it. If the
// emulator exits with a non-zero exit code, a [CommandError] wrapping
// [ErrEmulatorNonZeroExitCode] is returned that carries the exit code.
func (c *Command) Run(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
) error {
	cmd := exec.CommandContext(ctx, c.executable, c.args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	signals := make(chan os.Signal, len(forwardedSignals)+1)
	signal.Notify(signals, append(forwardedSignals, os.Interrupt)...)

	defer signal.Stop(signals)

	slog.Debug("Run emulator", slog.String("command", c.String()))

	err := cmd.Start()
	if err != nil {
		return &CommandError{
			Err: fmt.Errorf("%w: %w", ErrEmulatorSpawnFailed, err),
		}
	}

	done := make(chan struct{})

	var forwarders errgroup.Group

	forwarders.Go(func() error {
		return forwardSignals(cmd.Process, signals, done)
	})

	waitErr := cmd.Wait()

	close(done)

	err = forwarders.Wait()
	if err != nil {
		slog.Warn("Signal forwarding failed", slog.Any("error", err))
	}

	return exitError(waitErr)
}

// forwardSignals sends all signals received on the channel to the process
// until done is closed.
func forwardSignals(
	process *os.Process,
	signals <-chan os.Signal,
	done <-chan struct{},
) error {
	for {
		select {
		case <-done:
			return nil
		case sig := <-signals:
			if sig == os.Interrupt {
				continue
			}

			slog.Debug("Forward signal", slog.String("signal", sig.String()))

			err := process.Signal(sig)
			if err != nil && !errors.Is(err, os.ErrProcessDone) {
				return fmt.Errorf("forward %s: %w", sig, err)
			}
		}
	}
}

// exitError translates the result of [exec.Cmd.Wait] into a [CommandError].
func exitError(waitErr error) error {
	if waitErr == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return &CommandError{Err: waitErr}
	}

	return &CommandError{
		Err:      ErrEmulatorNonZeroExitCode,
		ExitCode: exitCode(exitErr.ProcessState),
	}
}

// exitCode returns the exit code of the exited process. For processes
// terminated by a signal it is 128 plus the signal number, as shells report
// it.
func exitCode(state *os.ProcessState) int {
	status, ok := state.Sys().(syscall.WaitStatus)
	if ok && status.Signaled() {
		return signalExitCodeBase + int(status.Signal())
	}

	return state.ExitCode()
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\$`*?[]{}()<>|&;~#") {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
