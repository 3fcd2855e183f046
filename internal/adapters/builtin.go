// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package adapters

import "fmt"

// chartParams are the formal parameters shared by the chart adapters: the
// measure columns drawn as series, the grouping column used as x axis, and an
// optional options object merged into the result.
var chartParams = []string{"seriesNames", "xAxis", "options"}

// seriesPrelude collects the x axis labels and one array of values per
// series from data.
const seriesPrelude = `var labels = [];
var series = {};
seriesNames.forEach(function(s) { series[s] = []; });
data.forEach(function(rec) {
  labels.push(rec[xAxis]);
  seriesNames.forEach(function(s) { series[s].push(rec[s]); });
});
`

const mergeOptions = `
if (options) {
  for (var opt in options) {
    if (options.hasOwnProperty(opt)) { result[opt] = options[opt]; }
  }
}`

func chartJs(typ, jsType string) Adapter {
	return Adapter{
		Family: "ChartJs",
		Type:   typ,
		Params: chartParams,
		Body: seriesPrelude + fmt.Sprintf(`result = {type: %q, data: {labels: labels, datasets: []}, options: {}};
seriesNames.forEach(function(s) {
  result.data.datasets.push({label: s, data: series[s]});
});`, jsType) + mergeOptions,
	}
}

func plotly(typ, traceType, mode string) Adapter {
	extra := ""
	if mode != "" {
		extra = fmt.Sprintf(", mode: %q", mode)
	}
	body := seriesPrelude + fmt.Sprintf(`result = {data: [], layout: {}};
seriesNames.forEach(function(s) {
  result.data.push({name: s, x: labels, y: series[s], type: %q%s});
});`, traceType, extra)
	if traceType == "pie" {
		body = seriesPrelude + `result = {data: [], layout: {}};
seriesNames.forEach(function(s) {
  result.data.push({name: s, labels: labels, values: series[s], type: "pie"});
});`
	}
	return Adapter{Family: "Plotly", Type: typ, Params: chartParams, Body: body + mergeOptions}
}

// c3Like covers C3 and Billboard, which share the same column-oriented
// configuration.
func c3Like(family, typ, jsType string) Adapter {
	return Adapter{
		Family: family,
		Type:   typ,
		Params: chartParams,
		Body: seriesPrelude + fmt.Sprintf(`var columns = [["x"].concat(labels)];
seriesNames.forEach(function(s) { columns.push([s].concat(series[s])); });
result = {data: {x: "x", columns: columns, type: %q}, axis: {x: {type: "category"}}};`, jsType) + mergeOptions,
	}
}

func nvd3(typ string) Adapter {
	return Adapter{
		Family: "NVD3",
		Type:   typ,
		Params: chartParams,
		Init:   "[]",
		Body: seriesPrelude + `seriesNames.forEach(function(s) {
  result.push({key: s, values: labels.map(function(l, i) { return {x: l, y: series[s][i]}; })});
});`,
	}
}

// Builtins returns the built-in adapter catalog entries.
func Builtins() []Adapter {
	out := []Adapter{
		chartJs("", "line"),
		chartJs("bar", "bar"),
		chartJs("line", "line"),
		chartJs("pie", "pie"),
		chartJs("doughnut", "doughnut"),
		chartJs("radar", "radar"),
		chartJs("polarArea", "polarArea"),

		plotly("", "scatter", "lines"),
		plotly("bar", "bar", ""),
		plotly("line", "scatter", "lines"),
		plotly("scatter", "scatter", "markers"),
		plotly("pie", "pie", ""),

		c3Like("C3", "", "line"),
		c3Like("C3", "bar", "bar"),
		c3Like("C3", "line", "line"),
		c3Like("C3", "area", "area"),
		c3Like("C3", "pie", "pie"),
		c3Like("Billboard", "", "line"),
		c3Like("Billboard", "bar", "bar"),
		c3Like("Billboard", "line", "line"),
		c3Like("Billboard", "area", "area"),
		c3Like("Billboard", "pie", "pie"),

		nvd3(""),
		nvd3("multiBar"),
		nvd3("line"),
		{
			Family: "NVD3",
			Type:   "pie",
			Params: chartParams,
			Init:   "[]",
			Body: `data.forEach(function(rec) {
  result.push({label: rec[xAxis], value: rec[seriesNames[0]]});
});`,
		},

		{
			Family: "Vis",
			Params: chartParams,
			Init:   "[]",
			Body: `var id = 0;
data.forEach(function(rec) {
  seriesNames.forEach(function(s) {
    result.push({id: id++, x: rec[xAxis], y: rec[s], group: s});
  });
});`,
		},
		{
			Family: "Vis",
			Type:   "timeline",
			Params: []string{"content", "start", "end"},
			Init:   "[]",
			Body: `data.forEach(function(rec, i) {
  var item = {id: i, content: rec[content], start: rec[start]};
  if (end) { item.end = rec[end]; }
  result.push(item);
});`,
		},

		{
			Family: "D3",
			Params: chartParams,
			Init:   "[]",
			Body: `seriesNames.forEach(function(s) {
  result.push({key: s, values: data.map(function(rec) { return {label: rec[xAxis], value: rec[s]}; })});
});`,
		},

		{
			Family: "DataTable",
			Params: []string{"columns", "options"},
			Body: `var cols = (columns && columns.length) ? columns : Object.keys(data[0] || {});
result = {columns: cols.map(function(c) { return {data: c, title: c}; }), data: data};` + mergeOptions,
		},
	}
	return out
}
