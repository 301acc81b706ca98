// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	argsEnvVar    = "USERRUN_ARGS"
	sysrootEnvVar = "SYSROOT"
)

// EnvArgs returns userrun arguments from the environment.
func EnvArgs() []string {
	return strings.Fields(os.Getenv(argsEnvVar))
}

// EnvSysroot returns the sysroot given by the environment.
func EnvSysroot() string {
	return os.Getenv(sysrootEnvVar)
}

// LocalConfigArgs returns userrun arguments from a local config file.
//
// The file's format is one argument per line. Environment variables may be used
// and are expanded with [os.ExpandEnv].
func LocalConfigArgs(fsys fs.FS, file string) ([]string, error) {
	conf, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	args := []string{}

	expandedConf := os.ExpandEnv(string(conf))
	for line := range strings.SplitSeq(expandedConf, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			args = append(args, line)
		}
	}

	return args, nil
}

// MergedArgs returns the command name followed by the arguments from the local
// config file, from the environment and finally the given command line
// arguments. Later arguments override earlier ones.
func MergedArgs(args []string, fsys fs.FS, file string) ([]string, error) {
	if len(args) == 0 {
		return nil, ErrNoArgs
	}

	fileArgs, err := LocalConfigArgs(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("local config %s: %w", file, err)
	}

	envArgs := EnvArgs()

	merged := make([]string, 0, len(args)+len(fileArgs)+len(envArgs))
	merged = append(merged, args[0])
	merged = append(merged, fileArgs...)
	merged = append(merged, envArgs...)
	merged = append(merged, args[1:]...)

	return merged, nil
}
