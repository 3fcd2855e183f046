// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package pipeline compiles the transform steps and output shape declared for
// one dataset into a single JavaScript expression.
package pipeline

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/dataset"
	"github.com/jeamick/ares-visual-sub001/internal/globals"
	"github.com/jeamick/ares-visual-sub001/internal/jsattr"
	"github.com/jeamick/ares-visual-sub001/internal/steps"
)

// OrderStep is the step name handled on the Go side: it ranks the attached
// records within groups instead of emitting JavaScript.
const OrderStep = "order"

// RankColumn is the column written by the order step.
const RankColumn = "_rank"

// Deps are the collaborators a Pipeline compiles against. Steps and Adapters
// are read-only catalogs shared across reports; Globals and Sources belong to
// the report being rendered.
type Deps struct {
	Steps    *steps.Registry
	Adapters *adapters.Catalog
	Globals  *globals.Registry
	Sources  *dataset.Sources
}

// Pipeline accumulates transform steps, an output adapter and post-processing
// steps for one data source.
type Pipeline struct {
	sourceID string
	deps     Deps
	schema   *dataset.Schema
	system   map[string][]string
	errs     []error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithColumns seeds the schema with grouping and measure columns.
func WithColumns(keys, values []string) Option {
	return func(p *Pipeline) {
		p.schema.Keys.Add(keys...)
		p.schema.Values.Add(values...)
	}
}

// WithSystemColumns declares operational columns of the given category
// ("keys" or "values") that steps supporting it append to their arguments.
func WithSystemColumns(category string, cols ...string) Option {
	return func(p *Pipeline) {
		p.system[category] = append(p.system[category], cols...)
	}
}

// WithDebug instruments the functions this pipeline registers.
func WithDebug(debug bool) Option {
	return func(p *Pipeline) { p.schema.Debug = debug }
}

// New returns a pipeline reading the data source sourceID.
func New(sourceID string, deps Deps, opts ...Option) *Pipeline {
	p := &Pipeline{
		sourceID: sourceID,
		deps:     deps,
		schema:   dataset.NewSchema(nil, nil),
		system:   make(map[string][]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SourceID returns the identifier of the data source.
func (p *Pipeline) SourceID() string {
	return p.sourceID
}

// Schema returns a copy of the pipeline's schema.
func (p *Pipeline) Schema() *dataset.Schema {
	return p.schema.Clone()
}

// Debug toggles instrumentation of functions registered from now on.
func (p *Pipeline) Debug(on bool) *Pipeline {
	p.schema.Debug = on
	return p
}

// Fncs appends transform steps in call order. Unknown step names are kept
// and reported by GetJS.
func (p *Pipeline) Fncs(specs ...steps.Spec) *Pipeline {
	p.schema.Fncs = p.attach(p.schema.Fncs, specs)
	return p
}

// Post appends steps applied after the output adapter.
func (p *Pipeline) Post(specs ...steps.Spec) *Pipeline {
	p.schema.Post = p.attach(p.schema.Post, specs)
	return p
}

// Output sets the terminal shape. The adapter "family_type" is used when
// registered, otherwise the family-level adapter. An unresolvable shape is
// reported by GetJS.
func (p *Pipeline) Output(family, typ string, args ...any) *Pipeline {
	out := &dataset.Output{Family: family, Type: typ, Args: args}
	if a, err := p.deps.Adapters.Resolve(family, typ); err == nil {
		out.Name = a.Name()
	}
	p.schema.Out = out
	return p
}

func (p *Pipeline) attach(calls []dataset.Call, specs []steps.Spec) []dataset.Call {
	for _, spec := range specs {
		if spec.Name == OrderStep {
			p.order(spec.Args)
			continue
		}
		args := spec.Args
		if step, ok := p.deps.Steps.Get(spec.Name); ok {
			if step.ExtendArgs != nil {
				for _, cat := range sortedKeys(p.system) {
					args = step.ExtendArgs(cat, args, p.system[cat])
				}
			}
			if step.ExtendColumns != nil {
				step.ExtendColumns(p.schema, args)
			}
		}
		calls = append(calls, dataset.Call{Name: spec.Name, Args: args})
	}
	return calls
}

// order ranks the attached records within groups of the given column.
func (p *Pipeline) order(args []any) {
	col, _ := firstArg(args).(string)
	if col == "" {
		p.errs = append(p.errs, fmt.Errorf("%s step on %q: grouping column is required", OrderStep, p.sourceID))
		return
	}
	records := p.deps.Sources.Records(p.sourceID)
	if records == nil {
		p.errs = append(p.errs, fmt.Errorf("%s step on %q: no records attached to the data source", OrderStep, p.sourceID))
		return
	}
	records.Rank(col, RankColumn)
	p.schema.Values.Add(RankColumn)
}

// fn is one function the rendered expression calls.
type fn struct {
	name      string
	signature string
	source    string
}

// GetJS renders the pipeline as one JavaScript expression. extra steps are
// applied last for this call only and leave the schema untouched. Every
// function the expression calls is registered once in the globals registry;
// rendering again registers nothing new and returns the same text. On error
// nothing is registered.
func (p *Pipeline) GetJS(extra ...steps.Spec) (string, error) {
	if len(p.errs) > 0 {
		return "", p.errs[0]
	}

	expr := p.sourceID
	var fns []fn

	if filters := p.deps.Sources.Filters(p.sourceID); len(filters) > 0 {
		f, err := p.stepFn(steps.Filter.String())
		if err != nil {
			return "", err
		}
		if expr, err = call(f.name, expr, []any{filters}); err != nil {
			return "", err
		}
		fns = append(fns, f)
	}

	var err error
	if expr, fns, err = p.fold(expr, fns, p.schema.Fncs); err != nil {
		return "", err
	}

	if out := p.schema.Out; out != nil {
		a, ok := p.deps.Adapters.Get(out.Name)
		if out.Name == "" || !ok {
			return "", &adapters.UnknownAdapterError{Family: out.Family, Type: out.Type}
		}
		f := fn{name: a.FuncName(), signature: a.Signature(), source: a.Source(p.schema.Debug)}
		if expr, err = call(f.name, expr, out.Args); err != nil {
			return "", fmt.Errorf("output %s: %w", a.Name(), err)
		}
		fns = append(fns, f)
	}

	post := p.schema.Post
	if len(extra) > 0 {
		post = append([]dataset.Call(nil), post...)
		for _, spec := range extra {
			post = append(post, dataset.Call{Name: spec.Name, Args: spec.Args})
		}
	}
	if expr, fns, err = p.fold(expr, fns, post); err != nil {
		return "", err
	}

	for _, f := range fns {
		p.register(f)
	}
	return expr, nil
}

func (p *Pipeline) fold(expr string, fns []fn, calls []dataset.Call) (string, []fn, error) {
	for _, c := range calls {
		f, err := p.stepFn(c.Name)
		if err != nil {
			return "", nil, err
		}
		if expr, err = call(f.name, expr, c.Args); err != nil {
			return "", nil, fmt.Errorf("step %s: %w", c.Name, err)
		}
		fns = append(fns, f)
	}
	return expr, fns, nil
}

func (p *Pipeline) stepFn(name string) (fn, error) {
	s, err := p.deps.Steps.Lookup(name)
	if err != nil {
		return fn{}, err
	}
	return fn{name: s.FuncName(), signature: s.Signature(), source: s.Source(p.schema.Debug)}, nil
}

func (p *Pipeline) register(f fn) {
	if p.deps.Globals.HasFnc(f.signature) {
		return
	}
	p.deps.Globals.Fnc(f.signature, f.source)
	slog.Debug("registered function", "signature", f.signature, "source", p.sourceID)
}

// call formats name(expr, args...) with JavaScript-encoded arguments.
func call(name, expr string, args []any) (string, error) {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, expr)
	parts, err := jsattr.AppendArray(parts, args)
	if err != nil {
		return "", err
	}
	return name + "(" + strings.Join(parts, ", ") + ")", nil
}

func firstArg(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
