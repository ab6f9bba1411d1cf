// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package schema

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type BaseDef struct {
	Type string `yaml:"type" docdesc:"The command type"`
	Name string `yaml:"name" docdesc:"The command label"`
}

type testDef struct {
	BaseDef     `yaml:",inline"`
	CommandLine string         `yaml:"command_line" docdesc:"The command to run"`
	Env         map[string]any `yaml:"env,omitempty" docdesc:"Environment variables"`
	ExitCodes   []int          `yaml:"exit_codes,omitempty" docdesc:"Exit codes treated as success"`
	Parallel    bool           `yaml:"parallel,omitempty"`
	Retries     int            `yaml:"retries,omitempty"`
	Commands    []any          `yaml:"commands,omitempty" docdesc:"Nested commands"`
	Ignored     string         `yaml:"-"`
}

type testProvider struct {
	fields []Field
}

func (p *testProvider) GetCommandType() string        { return "testcmd" }
func (p *testProvider) GetCommandDescription() string { return "Runs a test command." }
func (p *testProvider) GetSchemaFields() []Field      { return p.fields }

func newTestProvider(t *testing.T) *testProvider {
	t.Helper()

	fields, err := NewGenerator().Generate(&testDef{})
	require.NoError(t, err)

	return &testProvider{fields: fields}
}

func TestGenerate(t *testing.T) {
	fields, err := NewGenerator().Generate(&testDef{})
	require.NoError(t, err)

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}

	// type first, name second, commands last, the rest lexical.
	assert.Equal(
		t,
		[]string{"type", "name", "command_line", "env", "exit_codes", "parallel", "retries", "commands"},
		names,
	)
}

func TestGenerateFieldDetails(t *testing.T) {
	fields, err := NewGenerator().Generate(testDef{})
	require.NoError(t, err)

	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	assert.Equal(t, "string", byName["command_line"].Type)
	assert.Equal(t, "The command to run", byName["command_line"].Description)
	assert.True(t, byName["command_line"].Required)

	assert.Equal(t, "object", byName["env"].Type)
	assert.False(t, byName["env"].Required)

	assert.Equal(t, "boolean", byName["parallel"].Type)
	assert.Equal(t, "integer", byName["retries"].Type)

	require.NotNil(t, byName["exit_codes"].Items)
	assert.Equal(t, "array", byName["exit_codes"].Type)
	assert.Equal(t, "integer", byName["exit_codes"].Items.Type)

	// Inline base fields are flattened, skipped fields dropped.
	assert.Contains(t, byName, "type")
	assert.Contains(t, byName, "name")
	assert.NotContains(t, byName, "ignored")
}

func TestGenerateNotStruct(t *testing.T) {
	_, err := NewGenerator().Generate("not a struct")
	require.ErrorIs(t, err, ErrNotStruct)
}

func TestWriteMarkdown(t *testing.T) {
	p := newTestProvider(t)
	buf := bytes.Buffer{}

	require.NoError(t, WriteMarkdown(&buf, p))

	out := buf.String()
	assert.Contains(t, out, "## testcmd")
	assert.Contains(t, out, "Runs a test command.")
	assert.Contains(t, out, "| Field | Type | Required | Description |")
	assert.Contains(t, out, "| `command_line` | string | yes | The command to run |")
	assert.Contains(t, out, "| `exit_codes` | array | no | Exit codes treated as success |")
}

func TestWriteYAMLExample(t *testing.T) {
	p := newTestProvider(t)
	buf := bytes.Buffer{}

	require.NoError(t, WriteYAMLExample(&buf, p))

	out := buf.String()
	assert.Contains(t, out, "type: testcmd\n")
	assert.Contains(t, out, "name: \"\"\n")
	assert.Contains(t, out, "command_line: \"\"\n")
	assert.Contains(t, out, "env: {}\n")
	assert.Contains(t, out, "exit_codes: []\n")
	assert.Contains(t, out, "parallel: false\n")
	assert.Contains(t, out, "retries: 0\n")
}

func TestWriteJSON(t *testing.T) {
	p := newTestProvider(t)
	buf := bytes.Buffer{}

	require.NoError(t, WriteJSON(&buf, p))

	doc := map[string]struct {
		Description string  `json:"description"`
		Fields      []Field `json:"fields"`
	}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Contains(t, doc, "testcmd")
	assert.Equal(t, "Runs a test command.", doc["testcmd"].Description)
	assert.Len(t, doc["testcmd"].Fields, 8)
	assert.Equal(t, "type", doc["testcmd"].Fields[0].Name)
}
