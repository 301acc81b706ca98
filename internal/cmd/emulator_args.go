// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"strings"

	"github.com/aibor/userrun/internal/qemu"
)

// EmulatorArgList is a [flag.Value] collecting additional emulator options in
// the form "name" or "name=value". It may be set multiple times. An empty
// value clears the list.
type EmulatorArgList []qemu.Argument

func (l *EmulatorArgList) String() string {
	strs := make([]string, 0, len(*l))
	for _, arg := range *l {
		strs = append(strs, arg.String())
	}

	return strings.Join(strs, " ")
}

func (l *EmulatorArgList) Set(s string) error {
	if s == "" {
		*l = nil
		return nil
	}

	arg, err := qemu.ParseArgument(s)
	if err != nil {
		return err //nolint:wrapcheck
	}

	*l = append(*l, arg)

	return nil
}
