// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"path/filepath"
)

// FilePath is a [flag.Value] for a path that is made absolute when set. An
// empty value is rejected.
type FilePath string

func (f *FilePath) String() string {
	return string(*f)
}

func (f *FilePath) Set(s string) error {
	path, err := AbsoluteFilePath(s)
	if err != nil {
		return err
	}

	*f = FilePath(path)

	return nil
}

// OptionalFilePath is a [FilePath] that can be cleared by setting an empty
// value. It is used for the sysroot, so a $SYSROOT from the environment can
// be unset with "-sysroot=".
type OptionalFilePath string

func (f *OptionalFilePath) String() string {
	return string(*f)
}

func (f *OptionalFilePath) Set(s string) error {
	if s == "" {
		*f = ""
		return nil
	}

	return (*FilePath)(f).Set(s)
}

// AbsoluteFilePath returns the absolute path as resolved by [filepath.Abs].
//
// It returns [ErrEmptyFilePath] if the given path is empty.
func AbsoluteFilePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyFilePath
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return path, nil
}
