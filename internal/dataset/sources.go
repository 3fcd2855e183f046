// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"
	"sort"
)

// Filter operators understood by the generated filter step.
const (
	OpEq       = "=="
	OpNe       = "!="
	OpGt       = ">"
	OpGe       = ">="
	OpLt       = "<"
	OpLe       = "<="
	OpIn       = "in"
	OpContains = "contains"
)

var validOps = map[string]bool{
	OpEq: true, OpNe: true, OpGt: true, OpGe: true,
	OpLt: true, OpLe: true, OpIn: true, OpContains: true,
}

// Filter is a declarative row filter attached to a data source.
type Filter struct {
	Column   string `json:"col" yaml:"column" toml:"column"`
	Operator string `json:"op" yaml:"op" toml:"op"`
	Value    any    `json:"val" yaml:"value" toml:"value"`
}

// Validate reports whether the filter is well formed.
func (f Filter) Validate() error {
	if f.Column == "" {
		return fmt.Errorf("filter: column is required")
	}
	if !validOps[f.Operator] {
		return fmt.Errorf("filter on %q: unknown operator %q", f.Column, f.Operator)
	}
	return nil
}

// Sources holds the filters registered per data source id. Filters live
// here rather than on a pipeline so every pipeline reading the same source
// sees them.
type Sources struct {
	filters map[string][]Filter
	records map[string]Recordset
}

// NewSources returns an empty source registry.
func NewSources() *Sources {
	return &Sources{
		filters: make(map[string][]Filter),
		records: make(map[string]Recordset),
	}
}

// AddFilter attaches f to the data source id.
func (s *Sources) AddFilter(id string, f Filter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.filters[id] = append(s.filters[id], f)
	return nil
}

// Filters returns the filters registered for id, in registration order.
func (s *Sources) Filters(id string) []Filter {
	if s == nil {
		return nil
	}
	return append([]Filter(nil), s.filters[id]...)
}

// SetRecords attaches the records backing a data source id.
func (s *Sources) SetRecords(id string, rs Recordset) {
	s.records[id] = rs
}

// Records returns the records backing id, or nil.
func (s *Sources) Records(id string) Recordset {
	if s == nil {
		return nil
	}
	return s.records[id]
}

// IDs returns the ids of all data sources with records, sorted.
func (s *Sources) IDs() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
