// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package problems

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// ManifestName is the file that marks a directory as a problem.
const ManifestName = "problem.yaml"

var (
	// ErrProblemNotFound is returned when the named problem has no directory
	// with a manifest under the catalog root.
	ErrProblemNotFound = errors.New("problem not found")
	// ErrManifestInvalid is returned when a problem.yaml cannot be parsed or
	// is missing required fields.
	ErrManifestInvalid = errors.New("invalid problem manifest")
	// ErrTemplateNotFound is returned when the manifest names a solve
	// template file that does not exist.
	ErrTemplateNotFound = errors.New("solve template file not found")
)

// Manifest is the problem.yaml schema.
type Manifest struct {
	// Description is the problem statement shown to solvers.
	Description string `yaml:"description" docdesc:"The problem statement"`
	// Template is the solve function template file, relative to the problem directory.
	Template string `yaml:"template" docdesc:"Solve template file, relative to the problem directory"`
	// DevCases names the test cases used for development scoring.
	DevCases []string `yaml:"dev_cases,omitempty" docdesc:"Test cases used for development scoring"`
	// FilterKeys excludes any test case whose path contains one of these substrings.
	FilterKeys []string `yaml:"filter_keys,omitempty" docdesc:"Path substrings that exclude test cases"`
}

// Problem is a fully loaded problem: the manifest, the solve template
// contents and the discovered test cases.
type Problem struct {
	Name          string
	Dir           string
	Description   string
	SolveTemplate string
	DevCases      []string
	FilterKeys    []string
	TestCases     []string
}

// Catalog reads problems from a root directory.
type Catalog struct {
	fs   afero.Fs
	root string
}

// New creates a catalog rooted at the given directory.
func New(fs afero.Fs, root string) *Catalog {
	return &Catalog{fs: fs, root: root}
}

// List returns the names of all problems in the catalog, sorted. A problem
// is any immediate subdirectory of the root that contains a manifest.
func (c *Catalog) List() ([]string, error) {
	entries, err := afero.ReadDir(c.fs, c.root)
	if err != nil {
		return nil, fmt.Errorf("reading problems directory %q: %w", c.root, err)
	}

	var names []string

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		ok, err := afero.Exists(c.fs, filepath.Join(c.root, entry.Name(), ManifestName))
		if err != nil {
			return nil, err
		}

		if ok {
			names = append(names, entry.Name())
		}
	}

	slices.Sort(names)

	return names, nil
}

// Load reads the named problem, its solve template and its test cases.
func (c *Catalog) Load(name string) (*Problem, error) {
	dir := filepath.Join(c.root, name)
	manifestPath := filepath.Join(dir, ManifestName)

	data, err := afero.ReadFile(c.fs, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrProblemNotFound, name)
	}

	manifest := new(Manifest)
	if err := yaml.Unmarshal(data, manifest); err != nil {
		return nil, errors.Join(ErrManifestInvalid, err)
	}

	if manifest.Template == "" {
		return nil, fmt.Errorf("%w: %q has no template field", ErrManifestInvalid, name)
	}

	template, err := afero.ReadFile(c.fs, filepath.Join(dir, manifest.Template))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, manifest.Template)
	}

	exclude := append([]string{ManifestName, manifest.Template}, manifest.FilterKeys...)

	cases, err := DiscoverTestCases(c.fs, dir, exclude)
	if err != nil {
		return nil, err
	}

	return &Problem{
		Name:          name,
		Dir:           dir,
		Description:   manifest.Description,
		SolveTemplate: string(template),
		DevCases:      manifest.DevCases,
		FilterKeys:    manifest.FilterKeys,
		TestCases:     cases,
	}, nil
}

// RenderDescription returns the full problem text: the description followed
// by the solve template the candidate must implement.
func (p *Problem) RenderDescription() string {
	return fmt.Sprintf("%s\n\n# Implement in Solve Function\n\n%s", p.Description, p.SolveTemplate)
}

// IsDevCase reports whether the named test case is a development case.
func (p *Problem) IsDevCase(name string) bool {
	return slices.Contains(p.DevCases, name)
}
