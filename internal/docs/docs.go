// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package docs renders a Markdown reference of the transform steps, output
// adapters and page mounts available to report definitions.
package docs

import (
	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/report"
	"github.com/jeamick/ares-visual-sub001/internal/steps"
	"github.com/jeamick/ares-visual-sub001/internal/testable"
)

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// StepDoc describes one transform step.
type StepDoc struct {
	Name      string
	Signature string
}

// AdapterDoc describes one output adapter.
type AdapterDoc struct {
	Name      string
	Family    string
	Type      string
	Signature string
}

// MountDoc describes how one family is mounted on a page.
type MountDoc struct {
	Family    string
	Libraries []string
}

// Reference is everything the generated document lists.
type Reference struct {
	Title    string
	Steps    []StepDoc
	Adapters []AdapterDoc
	Mounts   []MountDoc
}

// Collect builds a Reference from the loaded catalogs and the registered
// mounts. Steps keep catalog order; adapters and mounts are sorted.
func Collect(reg *steps.Registry, cat *adapters.Catalog) *Reference {
	ref := &Reference{Title: "Report catalog"}
	for _, name := range reg.List() {
		s, _ := reg.Get(name)
		ref.Steps = append(ref.Steps, StepDoc{Name: s.Name, Signature: s.Signature()})
	}
	for _, name := range cat.List() {
		a, _ := cat.Get(name)
		ref.Adapters = append(ref.Adapters, AdapterDoc{Name: name, Family: a.Family, Type: a.Type, Signature: a.Signature()})
	}
	for _, family := range report.List() {
		m, _ := report.Get(family)
		ref.Mounts = append(ref.Mounts, MountDoc{Family: m.Family, Libraries: m.Libraries})
	}
	return ref
}
