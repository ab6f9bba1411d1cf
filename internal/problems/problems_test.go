// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package problems

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()

	writeFile := func(path, content string) {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}

	writeFile("problems/tsp/problem.yaml", `description: Find the shortest tour.
template: solve.go.tmpl
dev_cases:
  - cases/small.txt
filter_keys:
  - skipme
`)
	writeFile("problems/tsp/solve.go.tmpl", "func Solve(input string) string {\n\treturn \"\"\n}\n")
	writeFile("problems/tsp/cases/small.txt", "3\n")
	writeFile("problems/tsp/cases/large.txt", "100\n")
	writeFile("problems/tsp/cases/skipme.txt", "ignored\n")
	writeFile("problems/tsp/cases/.hidden", "ignored\n")
	writeFile("problems/tsp/best_sol/answer.txt", "ignored\n")
	writeFile("problems/tsp/runs_par/worker.txt", "ignored\n")

	writeFile("problems/knapsack/problem.yaml", `description: Pack the sack.
template: solve.go.tmpl
`)
	writeFile("problems/knapsack/solve.go.tmpl", "func Solve(input string) string { return \"\" }\n")
	writeFile("problems/knapsack/case1.txt", "1\n")

	// A directory without a manifest is not a problem.
	require.NoError(t, fsys.MkdirAll("problems/notes", 0o755))

	return fsys
}

func TestCatalogList(t *testing.T) {
	catalog := New(newTestFs(t), "problems")

	names, err := catalog.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"knapsack", "tsp"}, names)
}

func TestCatalogListMissingRoot(t *testing.T) {
	catalog := New(afero.NewMemMapFs(), "nowhere")

	_, err := catalog.List()
	require.Error(t, err)
}

func TestCatalogLoad(t *testing.T) {
	catalog := New(newTestFs(t), "problems")

	problem, err := catalog.Load("tsp")
	require.NoError(t, err)

	assert.Equal(t, "tsp", problem.Name)
	assert.Equal(t, filepath.Join("problems", "tsp"), problem.Dir)
	assert.Equal(t, "Find the shortest tour.", problem.Description)
	assert.Contains(t, problem.SolveTemplate, "func Solve")
	assert.Equal(t, []string{"cases/large.txt", "cases/small.txt"}, problem.TestCases)
	assert.True(t, problem.IsDevCase("cases/small.txt"))
	assert.False(t, problem.IsDevCase("cases/large.txt"))
}

func TestCatalogLoadNotFound(t *testing.T) {
	catalog := New(newTestFs(t), "problems")

	_, err := catalog.Load("does-not-exist")
	require.ErrorIs(t, err, ErrProblemNotFound)
}

func TestCatalogLoadInvalidManifest(t *testing.T) {
	fsys := newTestFs(t)
	require.NoError(t, afero.WriteFile(
		fsys, "problems/bad/problem.yaml", []byte("description: [unterminated"), 0o644,
	))

	_, err := New(fsys, "problems").Load("bad")
	require.ErrorIs(t, err, ErrManifestInvalid)
}

func TestCatalogLoadMissingTemplate(t *testing.T) {
	fsys := newTestFs(t)
	require.NoError(t, afero.WriteFile(
		fsys, "problems/bad/problem.yaml", []byte("description: x\ntemplate: gone.tmpl\n"), 0o644,
	))

	_, err := New(fsys, "problems").Load("bad")
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestCatalogLoadManifestWithoutTemplate(t *testing.T) {
	fsys := newTestFs(t)
	require.NoError(t, afero.WriteFile(
		fsys, "problems/bad/problem.yaml", []byte("description: x\n"), 0o644,
	))

	_, err := New(fsys, "problems").Load("bad")
	require.ErrorIs(t, err, ErrManifestInvalid)
}

func TestRenderDescription(t *testing.T) {
	catalog := New(newTestFs(t), "problems")

	problem, err := catalog.Load("knapsack")
	require.NoError(t, err)

	rendered := problem.RenderDescription()
	assert.Contains(t, rendered, "Pack the sack.")
	assert.Contains(t, rendered, "# Implement in Solve Function")
	assert.Contains(t, rendered, "func Solve")
}

func TestDiscoverTestCases(t *testing.T) {
	fsys := newTestFs(t)

	cases, err := DiscoverTestCases(fsys, "problems/tsp", []string{"problem.yaml", "solve.go.tmpl", "skipme"})
	require.NoError(t, err)

	assert.Equal(t, []string{"cases/large.txt", "cases/small.txt"}, cases)
}

func TestDiscoverTestCasesEmptyDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("empty", 0o755))

	cases, err := DiscoverTestCases(fsys, "empty", nil)
	require.NoError(t, err)
	assert.Empty(t, cases)
}
