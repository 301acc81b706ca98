// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/magefile/mage/target"
)

const pkg = "github.com/aibor/userrun/cmd/userrun"

//nolint:gochecknoglobals
var env map[string]string

func init() {
	env = make(map[string]string)

	gobin, exists := os.LookupEnv("GOBIN")
	if !exists {
		gobin = "./gobin"
	}

	if gobin != "" {
		p, err := filepath.Abs(gobin)
		if err == nil {
			gobin = p
		}
	}

	env["GOBIN"] = gobin
}

func userrunPath() string {
	return filepath.Join(env["GOBIN"], "userrun")
}

// Install userrun from the working tree to gobin directory.
func InstallUserrun() error {
	mod, err := target.Dir(userrunPath(), "cmd", "internal")
	if err != nil {
		return err
	}

	if !mod {
		return nil
	}

	return sh.RunWith(env, "go", "install", pkg)
}

// Run the selftest for the given GOARCH using the installed userrun as test
// executor.
func Selftest(goarch string) error {
	mg.Deps(InstallUserrun)

	testEnv := map[string]string{
		"GOARCH":                  goarch,
		"CGO_ENABLED":             "0",
		"USERRUN_SELFTEST_GOARCH": goarch,
	}

	return sh.RunWithV(testEnv, "go", "test", "-v",
		"-timeout", "2m",
		"-exec", userrunPath(),
		"-tags", "selftest",
		"./selftest",
	)
}

// Run the integration tests with the arm64 emulator in emulatorDir.
func Integration(emulatorDir string) error {
	err := sh.RunV("go", "generate", "-tags", "integration", "./internal/cmd")
	if err != nil {
		return err
	}

	return sh.RunV("go", "test", "-v",
		"-tags", "integration",
		"./internal/cmd",
		"-userrun.emulatorDir", emulatorDir,
	)
}

// Remove volatile files.
func Clean() error {
	err := sh.Rm(filepath.Join("internal", "cmd", "testdata", "bin"))
	if err != nil {
		return err
	}

	return sh.Rm(env["GOBIN"])
}
