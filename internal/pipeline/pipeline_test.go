// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/dataset"
	"github.com/jeamick/ares-visual-sub001/internal/globals"
	"github.com/jeamick/ares-visual-sub001/internal/jsattr"
	"github.com/jeamick/ares-visual-sub001/internal/steps"
)

var (
	stepLoader    = steps.NewLoader()
	adapterLoader = adapters.NewLoader()
)

func newDeps(t *testing.T) Deps {
	t.Helper()
	reg, err := stepLoader.Load()
	require.NoError(t, err)
	cat, err := adapterLoader.Load()
	require.NoError(t, err)
	return Deps{
		Steps:    reg,
		Adapters: cat,
		Globals:  globals.New(),
		Sources:  dataset.NewSources(),
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	deps := newDeps(t)
	p := New("salesData", deps).
		Fncs(steps.Sum.With([]string{"region"}, []string{"sales"})).
		Output("ChartJs", "bar", []string{"sales"}, "region")

	js, err := p.GetJS()
	require.NoError(t, err)
	assert.Equal(t, `AresChartJs_bar(sum(salesData, ["region"], ["sales"]), ["sales"], "region")`, js)

	assert.Equal(t, []string{
		"sum(data, keys, values)",
		"AresChartJs_bar(data, seriesNames, xAxis, options)",
	}, deps.Globals.Functions())

	schema := p.Schema()
	assert.Equal(t, []string{"region"}, schema.Keys.List())
	assert.Equal(t, []string{"sales"}, schema.Values.List())
	require.NotNil(t, schema.Out)
	assert.Equal(t, "ChartJs_bar", schema.Out.Name)
}

func TestPipeline_Idempotent(t *testing.T) {
	deps := newDeps(t)
	p := New("d", deps).
		Fncs(steps.Sum.With([]string{"region"}, []string{"sales"}), steps.RowTotal.With([]string{"sales"}, "total")).
		Output("Plotly", "bar", []string{"sales", "total"}, "region").
		Post(steps.ToTSV.With([]string{"region"}))

	first, err := p.GetJS()
	require.NoError(t, err)
	script := deps.Globals.Render()
	fns := deps.Globals.Functions()

	second, err := p.GetJS()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, fns, deps.Globals.Functions())
	assert.Equal(t, script, deps.Globals.Render())
	assert.Equal(t, 1, strings.Count(script, "function sum(data, keys, values)"))
}

func TestPipeline_OrderPreservation(t *testing.T) {
	reg := steps.NewRegistry()
	for _, name := range []string{"a", "b", "c"} {
		reg.MustRegister(steps.Step{Name: name, Body: "result = data;"})
	}
	deps := newDeps(t)
	deps.Steps = reg

	js, err := New("data", deps).
		Fncs(steps.Use("a"), steps.Use("b")).
		Fncs(steps.Use("c", 1)).
		GetJS()
	require.NoError(t, err)
	assert.Equal(t, "c(b(a(data)), 1)", js)
	assert.Equal(t, []string{"a(data)", "b(data)", "c(data)"}, deps.Globals.Functions())
}

func TestPipeline_UnknownStep(t *testing.T) {
	deps := newDeps(t)
	p := New("d", deps).Fncs(steps.Sum.With([]string{"k"}, []string{"v"}), steps.Use("doesNotExist"))

	_, err := p.GetJS()
	var use *steps.UnknownStepError
	require.True(t, errors.As(err, &use), "got %v", err)
	assert.Equal(t, "doesNotExist", use.Name)
	assert.Empty(t, deps.Globals.Functions(), "failed render must not register functions")
}

func TestPipeline_UnknownAdapter(t *testing.T) {
	deps := newDeps(t)
	_, err := New("d", deps).Output("Highcharts", "bar").GetJS()

	var uae *adapters.UnknownAdapterError
	require.True(t, errors.As(err, &uae), "got %v", err)
	assert.Equal(t, "Highcharts", uae.Family)
}

func TestPipeline_OutputFallsBackToFamily(t *testing.T) {
	deps := newDeps(t)
	js, err := New("d", deps).Output("ChartJs", "bubble", []string{"y"}, "x").GetJS()
	require.NoError(t, err)
	assert.Equal(t, `AresChartJs(d, ["y"], "x")`, js)
}

func TestPipeline_SourceFilters(t *testing.T) {
	deps := newDeps(t)
	require.NoError(t, deps.Sources.AddFilter("salesData", dataset.Filter{Column: "region", Operator: dataset.OpEq, Value: "eu"}))

	js, err := New("salesData", deps).Fncs(steps.Sum.With([]string{"region"}, []string{"sales"})).GetJS()
	require.NoError(t, err)
	assert.Equal(t, `sum(filter(salesData, [{"col":"region","op":"==","val":"eu"}]), ["region"], ["sales"])`, js)
	assert.True(t, deps.Globals.HasFnc("filter(data, filters)"))

	other, err := New("otherData", deps).GetJS()
	require.NoError(t, err)
	assert.Equal(t, "otherData", other)
}

func TestPipeline_PostAndExtra(t *testing.T) {
	deps := newDeps(t)
	p := New("d", deps).
		Output("DataTable", "", []string{"region", "sales"}).
		Post(steps.ToTSV.With([]string{"region", "sales"}))

	js, err := p.GetJS(steps.Top.With(5, "sales", "desc"))
	require.NoError(t, err)
	assert.Equal(t, `top(toTsv(AresDataTable(d, ["region", "sales"]), ["region", "sales"]), 5, "sales", "desc")`, js)

	plain, err := p.GetJS()
	require.NoError(t, err)
	assert.Equal(t, `toTsv(AresDataTable(d, ["region", "sales"]), ["region", "sales"])`, plain)
	assert.Len(t, p.Schema().Post, 1)
}

func TestPipeline_RawArguments(t *testing.T) {
	deps := newDeps(t)
	opts := jsattr.Object{
		{Key: "responsive", Value: true},
		{Key: "onClick", Value: jsattr.Raw("function(e) { select(e); }")},
	}
	js, err := New("d", deps).Output("ChartJs", "line", []string{"v"}, "k", opts).GetJS()
	require.NoError(t, err)
	assert.Equal(t, `AresChartJs_line(d, ["v"], "k", {responsive: true, onClick: function(e) { select(e); }})`, js)
}

func TestPipeline_Debug(t *testing.T) {
	deps := newDeps(t)
	_, err := New("d", deps, WithDebug(true)).Fncs(steps.Count.With([]string{"k"})).GetJS()
	require.NoError(t, err)

	body, ok := deps.Globals.Function("count(data, keys, column)")
	require.True(t, ok)
	assert.Contains(t, body, "performance.now()")
	assert.Contains(t, body, `console.log("count input", data);`)

	// A later plain pipeline reuses the already registered function.
	js, err := New("e", deps).Fncs(steps.Count.With([]string{"k"})).GetJS()
	require.NoError(t, err)
	assert.Equal(t, `count(e, ["k"])`, js)
	again, _ := deps.Globals.Function("count(data, keys, column)")
	assert.Equal(t, body, again)
}

func TestPipeline_DebugToggle(t *testing.T) {
	deps := newDeps(t)
	p := New("d", deps).Debug(true)
	assert.True(t, p.Schema().Debug)
	assert.False(t, p.Debug(false).Schema().Debug)
}

func TestPipeline_OrderStep(t *testing.T) {
	deps := newDeps(t)
	records := dataset.Recordset{
		{"region": "eu", "sales": 1},
		{"region": "us", "sales": 2},
		{"region": "eu", "sales": 3},
	}
	deps.Sources.SetRecords("d", records)

	p := New("d", deps).Fncs(steps.Use(OrderStep, "region"))
	js, err := p.GetJS()
	require.NoError(t, err)
	assert.Equal(t, "d", js)
	assert.Equal(t, []any{1, 1, 2}, []any{records[0][RankColumn], records[1][RankColumn], records[2][RankColumn]})
	assert.True(t, p.Schema().Values.Has(RankColumn))
	assert.Empty(t, p.Schema().Fncs)
}

func TestPipeline_OrderStepErrors(t *testing.T) {
	deps := newDeps(t)
	_, err := New("d", deps).Fncs(steps.Use(OrderStep, "region")).GetJS()
	assert.ErrorContains(t, err, "no records")

	deps.Sources.SetRecords("d", dataset.Recordset{{"a": 1}})
	_, err = New("d", deps).Fncs(steps.Use(OrderStep)).GetJS()
	assert.ErrorContains(t, err, "grouping column")
}

func TestPipeline_SystemColumns(t *testing.T) {
	deps := newDeps(t)
	p := New("d", deps, WithSystemColumns("values", "intensity"), WithColumns([]string{"country"}, nil)).
		Fncs(steps.Aggregation.With([]string{"region"}, []string{"sales"}, "avg"))

	js, err := p.GetJS()
	require.NoError(t, err)
	assert.Equal(t, `aggregation(d, ["region"], ["sales", "intensity"], "avg")`, js)
	assert.Equal(t, []string{"country", "region"}, p.Schema().Keys.List())
	assert.Equal(t, []string{"intensity", "sales"}, p.Schema().Values.List())
}

func TestPipeline_SchemaIsCopy(t *testing.T) {
	deps := newDeps(t)
	p := New("d", deps, WithColumns([]string{"k"}, []string{"v"}))
	s := p.Schema()
	s.Keys.Add("mutated")
	assert.False(t, p.Schema().Keys.Has("mutated"))
	assert.Equal(t, "d", p.SourceID())
}

func TestPipeline_SharedRegistryAcrossPipelines(t *testing.T) {
	deps := newDeps(t)
	_, err := New("a", deps).Fncs(steps.Sum.With([]string{"k"}, []string{"v"})).Output("C3", "bar", []string{"v"}, "k").GetJS()
	require.NoError(t, err)
	_, err = New("b", deps).Fncs(steps.Sum.With([]string{"x"}, []string{"y"})).Output("C3", "bar", []string{"y"}, "x").GetJS()
	require.NoError(t, err)

	out := deps.Globals.Render()
	assert.Equal(t, 1, strings.Count(out, "function sum("))
	assert.Equal(t, 1, strings.Count(out, "function AresC3_bar("))
}

func TestPipeline_ColumnNamesNeedingQuotes(t *testing.T) {
	deps := newDeps(t)
	js, err := New("d", deps).
		Fncs(steps.Rename.With(map[string]any{"Unit Price": "price", "row-total": "total"})).
		GetJS()
	require.NoError(t, err)
	assert.Equal(t, `rename(d, {"Unit Price": "price", "row-total": "total"})`, js)
}
