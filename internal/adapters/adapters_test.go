// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package adapters

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterNames(t *testing.T) {
	a := Adapter{Family: "ChartJs", Type: "bar", Params: []string{"seriesNames", "xAxis"}}
	assert.Equal(t, "ChartJs_bar", a.Name())
	assert.Equal(t, "AresChartJs_bar", a.FuncName())
	assert.Equal(t, "AresChartJs_bar(data, seriesNames, xAxis)", a.Signature())

	fam := Adapter{Family: "Vis"}
	assert.Equal(t, "Vis", fam.Name())
}

func TestSource_DefaultInit(t *testing.T) {
	src := Adapter{Family: "X", Body: "result.a = 1;"}.Source(false)
	assert.Equal(t, "var result = {};\nresult.a = 1;\nreturn result;", src)
}

func TestResolve_FallsBackToFamily(t *testing.T) {
	c := NewLoader().EnsureLoaded()

	a, err := c.Resolve("ChartJs", "bar")
	require.NoError(t, err)
	assert.Equal(t, "ChartJs_bar", a.Name())

	a, err = c.Resolve("ChartJs", "bubble")
	require.NoError(t, err)
	assert.Equal(t, "ChartJs", a.Name())

	a, err = c.Resolve("DataTable", "")
	require.NoError(t, err)
	assert.Equal(t, "DataTable", a.Name())
}

func TestResolve_Unknown(t *testing.T) {
	c := NewLoader().EnsureLoaded()
	_, err := c.Resolve("Highcharts", "bar")

	var uae *UnknownAdapterError
	require.True(t, errors.As(err, &uae))
	assert.Equal(t, "Highcharts", uae.Family)
	assert.Contains(t, err.Error(), "Highcharts_bar")
}

func TestBuiltinsRegisterCleanly(t *testing.T) {
	c := NewCatalog()
	for _, a := range Builtins() {
		require.NoError(t, c.Register(a), a.Name())
	}
	assert.Equal(t, []string{"Billboard", "C3", "ChartJs", "D3", "DataTable", "NVD3", "Plotly", "Vis"}, c.Families())
	assert.Contains(t, c.Types("ChartJs"), "bar")
	assert.Contains(t, c.Types("ChartJs"), "")
}

func TestRegister_Rejects(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register(Adapter{Family: "X", Body: "b"}))
	assert.ErrorIs(t, c.Register(Adapter{Family: "X", Body: "b"}), ErrDuplicateAdapter)
	assert.Error(t, c.Register(Adapter{Body: "b"}))
	assert.Error(t, c.Register(Adapter{Family: "X", Type: "a-b", Body: "b"}))
}

func TestLoader_Packs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gauge.yaml"), []byte(`
adapters:
  - family: Gauge
    params: [value]
    body: |
      result = {value: data[0][value]};
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spark.toml"), []byte(`
[[adapters]]
family = "Spark"
type = "line"
params = ["column"]
init = "[]"
body = "result = data.map(function(r) { return r[column]; });"
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o600))

	c, err := NewLoader(dir).Load()
	require.NoError(t, err)

	g, err := c.Resolve("Gauge", "round")
	require.NoError(t, err)
	assert.Equal(t, []string{"value"}, g.Params)

	s, err := c.Resolve("Spark", "line")
	require.NoError(t, err)
	assert.Equal(t, "[]", s.Init)
}

func TestLoader_PackCollidesWithBuiltin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.yaml"), []byte(`
adapters:
  - family: ChartJs
    type: bar
    body: "result = {};"
`), 0o600))

	l := NewLoader(dir)
	_, err := l.Load()
	assert.ErrorIs(t, err, ErrDuplicateAdapter)
	assert.Panics(t, func() { l.EnsureLoaded() })
}

func TestReadPack_EmptyBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("adapters:\n  - family: Bad\n"), 0o600))
	_, err := ReadPack(path)
	assert.Error(t, err)
}

func TestLoader_MissingDir(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope")).Load()
	assert.Error(t, err)
}
