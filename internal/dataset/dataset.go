// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package dataset defines the core domain types shared by the code generator:
// recordsets, per-dataset schemas and the filters declared on data sources.
package dataset

import (
	"sort"
	"strings"
)

// Record is a single row of a recordset.
type Record map[string]any

// Recordset is an ordered sequence of uniform-shape records.
type Recordset []Record

// Columns returns the sorted union of column names across all records.
func (rs Recordset) Columns() []string {
	seen := make(map[string]bool)
	for _, r := range rs {
		for k := range r {
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Rank adds column to every record holding the 1-based position of the record
// within its group, where groups are defined by equal values of groupBy.
// Records keep their existing order.
func (rs Recordset) Rank(groupBy, column string) {
	counters := make(map[string]int)
	for _, r := range rs {
		key := groupKey(r[groupBy])
		counters[key]++
		r[column] = counters[key]
	}
}

func groupKey(v any) string {
	if v == nil {
		return "\x00nil"
	}
	if s, ok := v.(string); ok {
		return "s:" + s
	}
	var b strings.Builder
	b.WriteString("v:")
	b.WriteString(strings.TrimSpace(toString(v)))
	return b.String()
}

// ColumnSet is an unordered set of column names. Listing is sorted so the
// generated code stays deterministic.
type ColumnSet map[string]struct{}

// NewColumnSet returns a set holding cols.
func NewColumnSet(cols ...string) ColumnSet {
	s := make(ColumnSet, len(cols))
	s.Add(cols...)
	return s
}

// Add inserts cols into the set.
func (s ColumnSet) Add(cols ...string) {
	for _, c := range cols {
		if c != "" {
			s[c] = struct{}{}
		}
	}
}

// Has reports whether col is in the set.
func (s ColumnSet) Has(col string) bool {
	_, ok := s[col]
	return ok
}

// List returns the members in sorted order.
func (s ColumnSet) List() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s ColumnSet) Clone() ColumnSet {
	out := make(ColumnSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Call is one step invocation recorded on a schema: a step name plus the
// argument values known when the step was attached.
type Call struct {
	Name string
	Args []any
}

// Output describes the terminal output shape of a dataset.
type Output struct {
	Family string
	Type   string
	Name   string // resolved adapter name; empty when resolution failed
	Args   []any
}

// Schema is the mutable description of one dataset pipeline.
type Schema struct {
	Keys   ColumnSet
	Values ColumnSet
	Fncs   []Call
	Out    *Output
	Post   []Call
	Debug  bool
}

// NewSchema returns an empty schema seeded with the given grouping and
// measure columns.
func NewSchema(keys, values []string) *Schema {
	return &Schema{
		Keys:   NewColumnSet(keys...),
		Values: NewColumnSet(values...),
	}
}

// Clone returns a deep copy of the schema. Argument slices are copied but
// argument values are shared.
func (s *Schema) Clone() *Schema {
	out := &Schema{
		Keys:   s.Keys.Clone(),
		Values: s.Values.Clone(),
		Fncs:   cloneCalls(s.Fncs),
		Post:   cloneCalls(s.Post),
		Debug:  s.Debug,
	}
	if s.Out != nil {
		o := *s.Out
		o.Args = append([]any(nil), s.Out.Args...)
		out.Out = &o
	}
	return out
}

func cloneCalls(calls []Call) []Call {
	if calls == nil {
		return nil
	}
	out := make([]Call, len(calls))
	for i, c := range calls {
		out[i] = Call{Name: c.Name, Args: append([]any(nil), c.Args...)}
	}
	return out
}
