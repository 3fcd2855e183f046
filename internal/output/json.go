// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// Manifest describes a compiled page without its code.
type Manifest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	GeneratedAt string   `json:"generated_at,omitempty"`
	Fingerprint string   `json:"fingerprint"`
	Widgets     []Widget `json:"widgets"`
	Libraries   []string `json:"libraries"`
	Vars        []string `json:"vars"`
	Functions   []string `json:"functions"`
	ScriptBytes int      `json:"script_bytes"`
}

// JSONFormatter writes a page manifest as JSON.
type JSONFormatter struct {
	// Compact controls whether output is compact (single line) or pretty-printed.
	Compact bool
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the manifest of p to w.
func (f *JSONFormatter) Format(p *Page, w io.Writer) error {
	m := Manifest{
		Title:       p.Title,
		Description: p.Description,
		GeneratedAt: p.timestamp(),
		Fingerprint: p.Fingerprint(),
		Widgets:     nonNil(p.Widgets),
		Libraries:   nonNil(p.Libraries),
		Vars:        nonNil(p.Vars),
		Functions:   nonNil(p.Functions),
		ScriptBytes: len(p.Script),
	}

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(m)
	} else {
		data, err = json.MarshalIndent(m, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// shouldCompact pretty-prints for terminals and non-file writers, and
// compacts for pipes and regular files.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}
	if file, ok := w.(*os.File); ok {
		fi, err := file.Stat()
		if err != nil {
			return false
		}
		return fi.Mode()&os.ModeCharDevice == 0
	}
	return false
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
