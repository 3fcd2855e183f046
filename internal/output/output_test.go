// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func samplePage() *Page {
	return &Page{
		Title:       "Sales <2026>",
		GeneratedAt: time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC),
		Widgets: []Widget{
			{ID: "chart1", Title: "By region", Family: "ChartJs", Type: "bar", Height: 300},
			{ID: "table1", Family: "DataTable"},
		},
		Libraries: []string{"https://cdn.example.com/chart.js"},
		Script:    "var salesData = [{\"region\":\"eu\"}];\nfunction sum(data) {\nreturn data;\n}\n",
		OnReady:   "aresMount(\"ChartJs\", \"chart1\", sum(salesData));\n",
		Vars:      []string{"salesData"},
		Functions: []string{"sum(data)"},
	}
}

func TestGetFormatter(t *testing.T) {
	for _, name := range []string{"html", "js", "json"} {
		f, err := GetFormatter(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name())
	}
	_, err := GetFormatter("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "html, js, json")
	assert.Equal(t, []string{"html", "js", "json"}, FormatNames())
}

func TestHTMLFormatter(t *testing.T) {
	p := samplePage()
	var buf bytes.Buffer
	require.NoError(t, NewHTMLFormatter().Format(p, &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Sales &lt;2026&gt;</title>")
	assert.Contains(t, out, `<script src="https://cdn.example.com/chart.js"></script>`)
	assert.Contains(t, out, `<div id="chart1" data-family="ChartJs" style="height: 300px"></div>`)
	assert.Contains(t, out, `<div id="table1" data-family="DataTable"></div>`)
	assert.Contains(t, out, "<h3>By region</h3>")
	assert.Contains(t, out, "Generated 2026-02-12 10:00 UTC")
	assert.Contains(t, out, p.Script, "script must be embedded verbatim")
	assert.Contains(t, out, `document.addEventListener("DOMContentLoaded", function() {`)
	assert.Contains(t, out, `data-ares-fingerprint="`+p.Fingerprint()+`"`)
}

func TestJSFormatter(t *testing.T) {
	p := samplePage()
	var buf bytes.Buffer
	require.NoError(t, NewJSFormatter().Format(p, &buf))
	assert.Equal(t, p.Script+p.readyBlock(), buf.String())

	p.OnReady = ""
	buf.Reset()
	require.NoError(t, NewJSFormatter().Format(p, &buf))
	assert.Equal(t, p.Script, buf.String())
}

func TestJSONFormatter(t *testing.T) {
	p := samplePage()
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(p, &buf))

	var m Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "Sales <2026>", m.Title)
	assert.Equal(t, p.Fingerprint(), m.Fingerprint)
	assert.Equal(t, []string{"sum(data)"}, m.Functions)
	assert.Equal(t, len(p.Script), m.ScriptBytes)
	assert.Len(t, m.Widgets, 2)
}

func TestJSONFormatter_CompactAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{Compact: true}).Format(&Page{}, &buf))
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"widgets":[]`)
	assert.NotContains(t, out, "generated_at")
}

func TestFingerprint(t *testing.T) {
	a := samplePage()
	b := samplePage()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 16)

	b.OnReady += "x();"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	// Moving text between the two parts changes the hash.
	c := &Page{Script: "ab", OnReady: "c"}
	d := &Page{Script: "a", OnReady: "bc"}
	assert.NotEqual(t, c.Fingerprint(), d.Fingerprint())

	// Layout counts, the generation time does not.
	e := samplePage()
	e.Title = "Renamed"
	assert.NotEqual(t, a.Fingerprint(), e.Fingerprint())
	f := samplePage()
	f.GeneratedAt = f.GeneratedAt.Add(time.Hour)
	assert.Equal(t, a.Fingerprint(), f.Fingerprint())
}

func TestHTMLFormatter_Structure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewHTMLFormatter().Format(samplePage(), &buf))

	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	var ids, scripts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "div":
				for _, a := range n.Attr {
					if a.Key == "id" {
						ids = append(ids, a.Val)
					}
				}
			case "script":
				for _, a := range n.Attr {
					if a.Key == "src" {
						scripts = append(scripts, a.Val)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	assert.Equal(t, []string{"chart1", "table1"}, ids)
	assert.Equal(t, []string{"https://cdn.example.com/chart.js"}, scripts)
}

func TestHTMLFormatter_Description(t *testing.T) {
	p := samplePage()
	p.Description = "Revenue by **region**.\n\n<script>alert(1)</script>\n"
	var buf bytes.Buffer
	require.NoError(t, NewHTMLFormatter().Format(p, &buf))
	out := buf.String()

	assert.Contains(t, out, `<div class="description">`)
	assert.Contains(t, out, "<p>Revenue by <strong>region</strong>.</p>")
	assert.NotContains(t, out, "alert(1)")

	buf.Reset()
	require.NoError(t, NewJSONFormatter().Format(p, &buf))
	var m Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, p.Description, m.Description)
}

func TestCompress(t *testing.T) {
	page := bytes.Repeat([]byte("function sum(data) { return data; }\n"), 100)
	var buf bytes.Buffer
	require.NoError(t, Compress(&buf, page))
	assert.Less(t, buf.Len(), len(page))

	zr, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, page, got)
}
