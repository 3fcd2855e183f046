// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/dataset"
	"github.com/jeamick/ares-visual-sub001/internal/globals"
	"github.com/jeamick/ares-visual-sub001/internal/jsattr"
	"github.com/jeamick/ares-visual-sub001/internal/output"
	"github.com/jeamick/ares-visual-sub001/internal/pipeline"
	"github.com/jeamick/ares-visual-sub001/internal/reportdef"
	"github.com/jeamick/ares-visual-sub001/internal/steps"
)

// DatasetLoader returns the records behind a dataset.
type DatasetLoader interface {
	Load(ctx context.Context, ds reportdef.Dataset) (dataset.Recordset, error)
}

// Options carry settings that come from configuration and flags rather than
// the definition file.
type Options struct {
	// Title is used when the definition has none.
	Title string

	// Debug instruments every generated function.
	Debug bool

	// Polyfills appends the framework polyfills to the page script.
	Polyfills bool

	// URLParams are defaults for the page's URL parameters; the definition's
	// url_params override them key by key.
	URLParams map[string]any

	// Libraries override the script URLs of a family.
	Libraries map[string]string

	// Now and NewID default to time.Now and a random widget id.
	Now   func() time.Time
	NewID func() string
}

// Builder compiles report definitions against shared step and adapter
// catalogs. A Builder is safe for concurrent use; every Build gets its own
// globals registry.
type Builder struct {
	Steps    *steps.Registry
	Adapters *adapters.Catalog
	Loader   DatasetLoader
}

// Build loads the datasets of def, compiles every widget and returns the page.
func (b *Builder) Build(ctx context.Context, def *reportdef.Definition, opts Options) (*output.Page, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newWidgetID
	}

	g := globals.New(globals.WithPolyfills(opts.Polyfills))
	if err := g.SetURLParams(mergeParams(opts.URLParams, def.URLParams)); err != nil {
		return nil, err
	}

	sources := dataset.NewSources()
	records := make(map[string]dataset.Recordset, len(def.Datasets))
	for _, ds := range def.Datasets {
		rs, err := b.Loader.Load(ctx, ds)
		if err != nil {
			return nil, err
		}
		records[ds.ID] = rs
		sources.SetRecords(ds.ID, rs)
		for _, f := range ds.Filters {
			if err := sources.AddFilter(ds.ID, f); err != nil {
				return nil, fmt.Errorf("dataset %s: %w", ds.ID, err)
			}
		}
	}

	deps := pipeline.Deps{Steps: b.Steps, Adapters: b.Adapters, Globals: g, Sources: sources}
	page := &output.Page{
		Title:       firstNonEmpty(def.Title, opts.Title),
		Description: def.Description,
		GeneratedAt: opts.Now(),
	}

	var ready strings.Builder
	libs := newLibrarySet(opts.Libraries)
	for i, w := range def.Widgets {
		id := w.ID
		if id == "" {
			id = opts.NewID()
		}
		m, ok := Get(w.Family)
		if !ok {
			return nil, fmt.Errorf("widget %s: no mount for family %q", id, w.Family)
		}

		js, err := compileWidget(deps, w, def.Debug || opts.Debug)
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", id, err)
		}
		if !g.HasFnc(m.Signature()) {
			g.Fnc(m.Signature(), m.Body)
		}
		libs.add(m)

		fmt.Fprintf(&ready, "%s(document.getElementById(%s), %s, %s);\n",
			m.FuncName(), strconv.Quote(id), strconv.Quote(w.Type), js)
		page.Widgets = append(page.Widgets, output.Widget{
			ID:     id,
			Title:  firstNonEmpty(w.Title, fmt.Sprintf("Widget %d", i+1)),
			Family: w.Family,
			Type:   w.Type,
			Height: w.Height,
		})
		slog.Debug("compiled widget", "id", id, "family", w.Family, "dataset", w.Dataset)
	}

	// Datasets are declared after compilation so ranks written by the order
	// step are part of the embedded records.
	for _, ds := range def.Datasets {
		data, err := json.Marshal(records[ds.ID])
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", ds.ID, err)
		}
		if err := g.Add(ds.ID, string(data)); err != nil {
			return nil, err
		}
	}
	for _, v := range def.Globals {
		if err := g.Add(v.Name, v.Value, v.DependsOn...); err != nil {
			return nil, fmt.Errorf("global %s: %w", v.Name, err)
		}
	}
	for _, frag := range def.Scripts {
		g.AddJS(frag)
	}

	page.Script = g.Render()
	page.OnReady = ready.String()
	page.Libraries = libs.list
	page.Vars = g.Vars()
	page.Functions = g.Functions()
	return page, nil
}

// compileWidget builds the pipeline behind one widget and renders it.
func compileWidget(deps pipeline.Deps, w reportdef.Widget, debug bool) (string, error) {
	opts := []pipeline.Option{
		pipeline.WithColumns(w.Keys, w.Values),
		pipeline.WithDebug(debug),
	}
	for _, cat := range sortedCategories(w.SystemColumns) {
		opts = append(opts, pipeline.WithSystemColumns(cat, w.SystemColumns[cat]...))
	}
	p := pipeline.New(w.Dataset, deps, opts...).
		Fncs(specs(w.Steps)...).
		Output(w.Family, w.Type, outputArgs(w)...).
		Post(specs(w.Post)...)
	return p.GetJS()
}

func specs(defs []reportdef.StepDef) []steps.Spec {
	out := make([]steps.Spec, len(defs))
	for i, d := range defs {
		args := make([]any, len(d.Args))
		for j, a := range d.Args {
			args[j] = jsattr.AutoTree(a)
		}
		out[i] = steps.Use(d.Name, args...)
	}
	return out
}

// outputArgs returns the adapter arguments of a widget. Explicit args win;
// otherwise tables get their columns and charts get series, x axis and
// options.
func outputArgs(w reportdef.Widget) []any {
	if len(w.Args) > 0 {
		args := make([]any, len(w.Args))
		for i, a := range w.Args {
			args[i] = jsattr.AutoTree(a)
		}
		return args
	}
	var opts any
	if len(w.Options) > 0 {
		opts = jsattr.AutoTree(w.Options)
	}
	if w.Family == "DataTable" {
		cols := append(append([]string{}, w.Keys...), w.Values...)
		if opts != nil {
			return []any{cols, opts}
		}
		return []any{cols}
	}
	x := ""
	if len(w.Keys) > 0 {
		x = w.Keys[0]
	}
	values := w.Values
	if values == nil {
		values = []string{}
	}
	if opts != nil {
		return []any{values, x, opts}
	}
	return []any{values, x}
}

// librarySet collects script URLs in first-use order.
type librarySet struct {
	overrides map[string]string
	seen      map[string]bool
	list      []string
}

func newLibrarySet(overrides map[string]string) *librarySet {
	return &librarySet{overrides: overrides, seen: make(map[string]bool)}
}

func (s *librarySet) add(m Mount) {
	urls := m.Libraries
	if u, ok := s.overrides[m.Family]; ok {
		urls = []string{u}
	}
	for _, u := range urls {
		if !s.seen[u] {
			s.seen[u] = true
			s.list = append(s.list, u)
		}
	}
}

func mergeParams(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func sortedCategories(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// newWidgetID returns a random id usable both as a DOM id and a JavaScript
// identifier.
func newWidgetID() string {
	return "ares_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
