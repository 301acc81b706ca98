// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
)

// ParseSharedObjects parses the output of a dynamic loader invoked with
// "--list" and returns the paths of all shared objects that are real files.
// The loader itself is included. The vDSO is not.
func ParseSharedObjects(loaderOutput io.Reader) ([]string, error) {
	var infos ldInfos

	err := infos.parseFrom(loaderOutput)
	if err != nil {
		return nil, err
	}

	return infos.realPaths(), nil
}

type ldInfos []ldInfo

// parseFrom takes a loader list output, processes each line and adds an
// [ldInfo] to the list.
func (l *ldInfos) parseFrom(loaderOutput io.Reader) error {
	scanner := bufio.NewScanner(loaderOutput)
	for scanner.Scan() {
		var info ldInfo

		info.parseFrom(scanner.Text())

		*l = append(*l, info)
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("scan loader output: %w", err)
	}

	return nil
}

// realPaths returns all shared objects that are a real file in the file system.
// So, everything except vdso.
func (l *ldInfos) realPaths() []string {
	var paths []string

	for _, i := range *l {
		switch {
		case filepath.IsAbs(i.name):
			paths = append(paths, i.name)
		case i.path != "":
			paths = append(paths, i.path)
		}
	}

	return paths
}

type ldInfo struct {
	name  string
	path  string
	start uint
}

// parseFrom sets the fields of the info from the given line, if it has one of
// the known formats.
func (l *ldInfo) parseFrom(line string) {
	// Format for shared objects that reference an absolute path.
	// From glibc rtld.c: _dl_printf ("\t%s => %s (0x%0*zx)\n",
	_, err := fmt.Sscanf(line, "\t%s => %s (0x%x)", &l.name, &l.path, &l.start)
	if err == nil {
		return
	}
	// Format for shared objects that do not reference anything and might be
	// an absolute path already.
	// From glibc rtld.c: _dl_printf ("\t%s (0x%0*zx)\n"
	_, _ = fmt.Sscanf(line, "\t%s (0x%x)", &l.name, &l.start)
}
