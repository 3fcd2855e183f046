// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package report

func init() {
	for _, m := range builtinMounts {
		Register(m)
	}
}

var builtinMounts = []Mount{
	{
		Family:    "ChartJs",
		Libraries: []string{"https://cdn.jsdelivr.net/npm/chart.js@4.4.6/dist/chart.umd.min.js"},
		Body: `var canvas = document.createElement("canvas");
el.appendChild(canvas);
return new Chart(canvas, config);`,
	},
	{
		Family:    "Plotly",
		Libraries: []string{"https://cdn.plot.ly/plotly-2.35.2.min.js"},
		Body:      `return Plotly.newPlot(el, config.data, config.layout);`,
	},
	{
		Family: "C3",
		Libraries: []string{
			"https://cdn.jsdelivr.net/npm/d3@5.16.0/dist/d3.min.js",
			"https://cdn.jsdelivr.net/npm/c3@0.7.20/c3.min.js",
		},
		Body: `config.bindto = el;
return c3.generate(config);`,
	},
	{
		Family:    "Billboard",
		Libraries: []string{"https://cdn.jsdelivr.net/npm/billboard.js@3.14.1/dist/billboard.pkgd.min.js"},
		Body: `config.bindto = el;
return bb.generate(config);`,
	},
	{
		Family: "NVD3",
		Libraries: []string{
			"https://cdn.jsdelivr.net/npm/d3@3.5.17/d3.min.js",
			"https://cdn.jsdelivr.net/npm/nvd3@1.8.6/build/nv.d3.min.js",
		},
		Body: `var model = {line: "lineChart", pie: "pieChart"}[type] || "multiBarChart";
var svg = d3.select(el).append("svg");
nv.addGraph(function() {
  var chart = nv.models[model]();
  if (type === "pie") { chart.x(function(d) { return d.label; }).y(function(d) { return d.value; }); }
  svg.datum(config).call(chart);
  nv.utils.windowResize(chart.update);
  return chart;
});`,
	},
	{
		Family:    "Vis",
		Libraries: []string{"https://unpkg.com/vis-timeline@7.7.3/standalone/umd/vis-timeline-graph2d.min.js"},
		Body: `var items = new vis.DataSet(config);
if (type === "timeline") { return new vis.Timeline(el, items, {}); }
return new vis.Graph2d(el, items, {});`,
	},
	{
		Family:    "D3",
		Libraries: []string{"https://cdn.jsdelivr.net/npm/d3@7.9.0/dist/d3.min.js"},
		Body: `var list = d3.select(el).append("div").attr("class", "ares-d3");
config.forEach(function(serie) {
  var group = list.append("div").attr("class", "ares-d3-series");
  group.append("h4").text(serie.key);
  var max = d3.max(serie.values, function(v) { return v.value; }) || 1;
  serie.values.forEach(function(v) {
    group.append("div").attr("class", "ares-d3-bar")
      .style("width", (100 * v.value / max) + "%")
      .text(v.label + ": " + v.value);
  });
});
return list;`,
	},
	{
		Family:    "DataTable",
		Libraries: []string{"https://cdn.datatables.net/2.1.8/js/dataTables.min.js"},
		Body: `var table = document.createElement("table");
el.appendChild(table);
return new DataTable(table, config);`,
	},
}
