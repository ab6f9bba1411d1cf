// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package problems

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// Directory name suffixes whose contents are solution or parallel-run
// artifacts, never test cases.
var skipDirSuffixes = []string{"_sol", "_par"}

// DiscoverTestCases walks dir and returns the relative paths of every test
// case file, sorted. Hidden files, files inside hidden or artifact
// directories and paths containing one of the exclude substrings are
// skipped.
func DiscoverTestCases(fsys afero.Fs, dir string, exclude []string) ([]string, error) {
	var cases []string

	err := afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		name := info.Name()

		if info.IsDir() {
			if path == dir {
				return nil
			}

			if strings.HasPrefix(name, ".") || hasSkipSuffix(name) {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		rel = filepath.ToSlash(rel)

		for _, key := range exclude {
			if strings.Contains(rel, key) {
				return nil
			}
		}

		cases = append(cases, rel)

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(cases)

	return cases, nil
}

func hasSkipSuffix(name string) bool {
	return slices.ContainsFunc(skipDirSuffixes, func(suffix string) bool {
		return strings.HasSuffix(name, suffix)
	})
}
