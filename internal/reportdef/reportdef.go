// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package reportdef reads report definition files: the datasets a report
// uses and the widgets drawn from them.
package reportdef

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeamick/ares-visual-sub001/internal/dataset"
	"github.com/jeamick/ares-visual-sub001/internal/testable"
)

// Definition is the contents of a report definition file.
type Definition struct {
	Title string `yaml:"title" toml:"title"`

	// Description is Markdown shown under the page title.
	Description string `yaml:"description,omitempty" toml:"description"`

	Debug     bool           `yaml:"debug,omitempty" toml:"debug"`
	URLParams map[string]any `yaml:"url_params,omitempty" toml:"url_params"`
	Datasets  []Dataset      `yaml:"datasets" toml:"datasets"`
	Widgets   []Widget       `yaml:"widgets" toml:"widgets"`
	Globals   []GlobalVar    `yaml:"globals,omitempty" toml:"globals"`
	Scripts   []string       `yaml:"scripts,omitempty" toml:"scripts"`

	// Dir is the directory of the definition file; relative dataset paths
	// are resolved against it.
	Dir string `yaml:"-" toml:"-"`
}

// Dataset describes where the records behind a data source come from.
// Exactly one of Rows, File or Query is set.
type Dataset struct {
	ID      string           `yaml:"id" toml:"id"`
	Rows    []map[string]any `yaml:"rows,omitempty" toml:"rows"`
	File    string           `yaml:"file,omitempty" toml:"file"`
	Driver  string           `yaml:"driver,omitempty" toml:"driver"`
	DSN     string           `yaml:"dsn,omitempty" toml:"dsn"`
	Query   string           `yaml:"query,omitempty" toml:"query"`
	Filters []dataset.Filter `yaml:"filters,omitempty" toml:"filters"`

	// Dates lists columns holding dates in any common layout. They are
	// normalized to ISO 8601 when the dataset is loaded.
	Dates []string `yaml:"dates,omitempty" toml:"dates"`
}

// StepDef references a transform step with its arguments.
type StepDef struct {
	Name string `yaml:"name" toml:"name"`
	Args []any  `yaml:"args,omitempty" toml:"args"`
}

// Widget is one chart or table on the page.
type Widget struct {
	ID            string              `yaml:"id,omitempty" toml:"id"`
	Title         string              `yaml:"title,omitempty" toml:"title"`
	Dataset       string              `yaml:"dataset" toml:"dataset"`
	Family        string              `yaml:"family" toml:"family"`
	Type          string              `yaml:"type,omitempty" toml:"type"`
	Height        int                 `yaml:"height,omitempty" toml:"height"`
	Keys          []string            `yaml:"keys,omitempty" toml:"keys"`
	Values        []string            `yaml:"values,omitempty" toml:"values"`
	Steps         []StepDef           `yaml:"steps,omitempty" toml:"steps"`
	Args          []any               `yaml:"args,omitempty" toml:"args"`
	Options       map[string]any      `yaml:"options,omitempty" toml:"options"`
	Post          []StepDef           `yaml:"post,omitempty" toml:"post"`
	SystemColumns map[string][]string `yaml:"system_columns,omitempty" toml:"system_columns"`
}

// GlobalVar is an extra global variable declared by the report.
type GlobalVar struct {
	Name      string   `yaml:"name" toml:"name"`
	Value     string   `yaml:"value,omitempty" toml:"value"`
	DependsOn []string `yaml:"depends_on,omitempty" toml:"depends_on"`
}

// Load reads and validates a definition file. The format is chosen by
// extension: .toml for TOML, anything else is parsed as YAML.
func Load(fsys testable.FileSystem, path string) (*Definition, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	def, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	def.Dir = filepath.Dir(path)
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a definition in the format implied by ext.
func Parse(data []byte, ext string) (*Definition, error) {
	var def Definition
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &def); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, err
		}
	}
	return &def, nil
}

// Validate checks the definition and returns all errors at once.
func (d *Definition) Validate() error {
	var errs []string

	ids := make(map[string]bool)
	for i, ds := range d.Datasets {
		where := fmt.Sprintf("datasets[%d]", i)
		if ds.ID == "" {
			errs = append(errs, where+": id is required")
		} else if !isIdentifier(ds.ID) {
			errs = append(errs, fmt.Sprintf("%s: id %q is not a JavaScript identifier", where, ds.ID))
		}
		if ids[ds.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate id %q", where, ds.ID))
		}
		ids[ds.ID] = true

		sources := 0
		if ds.Rows != nil {
			sources++
		}
		if ds.File != "" {
			sources++
		}
		if ds.Query != "" {
			sources++
			if ds.Driver == "" {
				errs = append(errs, where+": query requires a driver")
			}
		}
		if sources != 1 {
			errs = append(errs, where+": exactly one of rows, file or query is required")
		}
		for j, f := range ds.Filters {
			if err := f.Validate(); err != nil {
				errs = append(errs, fmt.Sprintf("%s.filters[%d]: %v", where, j, err))
			}
		}
	}

	widgetIDs := make(map[string]bool)
	for i, w := range d.Widgets {
		where := fmt.Sprintf("widgets[%d]", i)
		if !ids[w.Dataset] {
			errs = append(errs, fmt.Sprintf("%s: unknown dataset %q", where, w.Dataset))
		}
		if w.Family == "" {
			errs = append(errs, where+": family is required")
		}
		if w.ID != "" {
			if !isIdentifier(w.ID) {
				errs = append(errs, fmt.Sprintf("%s: id %q is not a JavaScript identifier", where, w.ID))
			}
			if widgetIDs[w.ID] || ids[w.ID] {
				errs = append(errs, fmt.Sprintf("%s: duplicate id %q", where, w.ID))
			}
			widgetIDs[w.ID] = true
		}
		for j, s := range append(append([]StepDef(nil), w.Steps...), w.Post...) {
			if s.Name == "" {
				errs = append(errs, fmt.Sprintf("%s.steps[%d]: name is required", where, j))
			}
		}
	}

	for i, g := range d.Globals {
		if !isIdentifier(g.Name) {
			errs = append(errs, fmt.Sprintf("globals[%d]: name %q is not a JavaScript identifier", i, g.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid report definition:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// isIdentifier reports whether s is a plain JavaScript identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
