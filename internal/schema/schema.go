// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema derives user-facing documentation for command definitions
// from their struct tags. The yaml tag supplies the field name, the docdesc
// tag the description.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
)

// ErrNotStruct is returned when a definition is not a struct type.
var ErrNotStruct = errors.New("definition must be a struct")

// Provider is implemented by commanders that can describe their definition.
type Provider interface {
	// GetCommandType returns the command type string.
	GetCommandType() string
	// GetCommandDescription returns a description of what this command does.
	GetCommandDescription() string
	// GetSchemaFields returns the schema fields for this command type.
	GetSchemaFields() []Field
}

// Field describes one field of a command definition.
type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Items       *Field `json:"items,omitempty"`
}

// Generator extracts schema fields from definition structs via reflection.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns the sorted schema fields of a definition struct.
// Inline structs (the shared base definition) are flattened into the result.
func (g *Generator) Generate(def any) ([]Field, error) {
	t := reflect.TypeOf(def)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %s", ErrNotStruct, t.Kind())
	}

	fields, err := g.extractFields(t)
	if err != nil {
		return nil, err
	}

	return sortFields(fields), nil
}

func (g *Generator) extractFields(t reflect.Type) ([]Field, error) {
	var fields []Field

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		yamlTag := sf.Tag.Get("yaml")
		if yamlTag == "-" {
			continue
		}

		if strings.Contains(yamlTag, "inline") {
			inner := sf.Type
			if inner.Kind() == reflect.Ptr {
				inner = inner.Elem()
			}

			if inner.Kind() == reflect.Struct {
				innerFields, err := g.extractFields(inner)
				if err != nil {
					return nil, err
				}

				fields = append(fields, innerFields...)
			}

			continue
		}

		name := strings.Split(yamlTag, ",")[0]
		if name == "" {
			name = strings.ToLower(sf.Name)
		}

		field := Field{
			Name:        name,
			Type:        schemaType(sf.Type),
			Description: sf.Tag.Get("docdesc"),
			Required:    !strings.Contains(yamlTag, "omitempty"),
		}

		if sf.Type.Kind() == reflect.Slice {
			field.Items = &Field{Type: schemaType(sf.Type.Elem())}
		}

		fields = append(fields, field)
	}

	return fields, nil
}

func schemaType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// sortFields orders fields as: type, name, everything else lexically, and
// commands last since it is usually the longest.
func sortFields(fields []Field) []Field {
	rank := func(f Field) int {
		switch f.Name {
		case "type":
			return 0
		case "name":
			return 1
		case "commands":
			return 3
		default:
			return 2
		}
	}

	sort.SliceStable(fields, func(i, j int) bool {
		ri, rj := rank(fields[i]), rank(fields[j])
		if ri != rj {
			return ri < rj
		}

		return fields[i].Name < fields[j].Name
	})

	return fields
}

// WriteMarkdown writes Markdown documentation for a command type.
func WriteMarkdown(w io.Writer, p Provider) error {
	sb := strings.Builder{}

	sb.WriteString(fmt.Sprintf("## %s\n\n%s\n\n", p.GetCommandType(), p.GetCommandDescription()))
	sb.WriteString("| Field | Type | Required | Description |\n")
	sb.WriteString("|-------|------|----------|-------------|\n")

	for _, f := range p.GetSchemaFields() {
		required := "no"
		if f.Required {
			required = "yes"
		}

		sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s |\n", f.Name, f.Type, required, f.Description))
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// WriteYAMLExample writes a skeleton YAML definition for a command type.
func WriteYAMLExample(w io.Writer, p Provider) error {
	sb := strings.Builder{}

	for _, f := range p.GetSchemaFields() {
		if f.Name == "type" {
			sb.WriteString(fmt.Sprintf("type: %s\n", p.GetCommandType()))
			continue
		}

		switch f.Type {
		case "array":
			sb.WriteString(fmt.Sprintf("%s: []\n", f.Name))
		case "object":
			sb.WriteString(fmt.Sprintf("%s: {}\n", f.Name))
		case "integer", "number":
			sb.WriteString(fmt.Sprintf("%s: 0\n", f.Name))
		case "boolean":
			sb.WriteString(fmt.Sprintf("%s: false\n", f.Name))
		default:
			sb.WriteString(fmt.Sprintf("%s: \"\"\n", f.Name))
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// WriteJSON writes the schemas of the given command types as a JSON document.
func WriteJSON(w io.Writer, providers ...Provider) error {
	doc := make(map[string]any, len(providers))

	for _, p := range providers {
		doc[p.GetCommandType()] = map[string]any{
			"description": p.GetCommandDescription(),
			"fields":      p.GetSchemaFields(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}
