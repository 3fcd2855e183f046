package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/reportdef"
	"github.com/jeamick/ares-visual-sub001/internal/steps"
)

func catalogs(t *testing.T) (*steps.Registry, *adapters.Catalog) {
	t.Helper()
	reg, err := steps.NewLoader().Load()
	require.NoError(t, err)
	cat, err := adapters.NewLoader().Load()
	require.NoError(t, err)
	return reg, cat
}

func validDef() *reportdef.Definition {
	return &reportdef.Definition{
		Title: "Sales",
		Datasets: []reportdef.Dataset{{
			ID:   "sales",
			Rows: []map[string]any{{"region": "eu", "sales": 3.0}},
		}},
		Widgets: []reportdef.Widget{{
			ID:      "byRegion",
			Dataset: "sales",
			Family:  "ChartJs",
			Type:    "bar",
			Keys:    []string{"region"},
			Values:  []string{"sales"},
			Steps:   []reportdef.StepDef{{Name: "sum", Args: []any{[]any{"region"}, []any{"sales"}}}},
		}},
	}
}

func TestDefinition_Valid(t *testing.T) {
	reg, cat := catalogs(t)
	result := Definition(validDef(), reg, cat)
	assert.True(t, result.Valid())
	assert.Empty(t, result.Issues)
	assert.Equal(t, 1, result.Widgets)
}

func TestDefinition_OrderStepIsKnown(t *testing.T) {
	reg, cat := catalogs(t)
	def := validDef()
	def.Widgets[0].Steps = append(def.Widgets[0].Steps, reportdef.StepDef{Name: "order", Args: []any{"region"}})
	assert.True(t, Definition(def, reg, cat).Valid())
}

func TestDefinition_UnknownStep(t *testing.T) {
	reg, cat := catalogs(t)
	def := validDef()
	def.Widgets[0].Steps[0].Name = "row-totl"
	def.Widgets[0].Post = []reportdef.StepDef{{Name: "frobnicate"}}

	result := Definition(def, reg, cat)
	require.False(t, result.Valid())
	require.Len(t, result.Issues, 2)

	assert.Equal(t, "widgets[0].steps[0]", result.Issues[0].Where)
	assert.Equal(t, `unknown transform step "row-totl"`, result.Issues[0].Message)
	assert.Equal(t, `did you mean "row-total"?`, result.Issues[0].Suggestion)

	assert.Equal(t, "widgets[0].post[0]", result.Issues[1].Where)
	assert.Contains(t, result.Issues[1].Suggestion, "ares steps")
}

func TestDefinition_UnknownFamily(t *testing.T) {
	reg, cat := catalogs(t)
	def := validDef()
	def.Widgets[0].Family = "Plotli"

	result := Definition(def, reg, cat)
	require.Equal(t, 1, result.Errors())
	assert.Contains(t, result.Issues[0].Message, `no output adapter for family "Plotli"`)
	assert.Equal(t, `did you mean family "Plotly"?`, result.Issues[0].Suggestion)
}

func TestDefinition_TypeFallbackWarns(t *testing.T) {
	reg, cat := catalogs(t)
	def := validDef()
	def.Widgets[0].Type = "bubble"

	result := Definition(def, reg, cat)
	assert.True(t, result.Valid())
	require.Equal(t, 1, result.Warnings())
	assert.Contains(t, result.Issues[0].Message, `type "bubble" is not registered`)
	assert.Contains(t, result.Issues[0].Suggestion, "bar")
}

func TestDefinition_MissingMount(t *testing.T) {
	reg, cat := catalogs(t)
	require.NoError(t, cat.Register(adapters.Adapter{Family: "Sparkline", Params: []string{"data"}, Init: "[]", Body: "result = data;"}))
	def := validDef()
	def.Widgets[0].Family = "Sparkline"
	def.Widgets[0].Type = ""

	result := Definition(def, reg, cat)
	require.Equal(t, 1, result.Errors())
	assert.Equal(t, `family "Sparkline" cannot be mounted on a page`, result.Issues[0].Message)
}

func TestDefinition_MissingColumnsWarn(t *testing.T) {
	reg, cat := catalogs(t)
	def := validDef()
	def.Widgets[0].Values = []string{"sales", "margin"}

	result := Definition(def, reg, cat)
	assert.True(t, result.Valid())
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0].Message, "margin")
	assert.Equal(t, `dataset "sales" has columns: region, sales`, result.Issues[0].Suggestion)
}

func TestDefinition_UnknownDriver(t *testing.T) {
	reg, cat := catalogs(t)
	def := validDef()
	def.Datasets = append(def.Datasets, reportdef.Dataset{ID: "db", Driver: "sqlit", DSN: "x.db", Query: "select 1"})

	result := Definition(def, reg, cat)
	require.Equal(t, 1, result.Errors())
	assert.Equal(t, "datasets[1]", result.Issues[0].Where)
	assert.Equal(t, `did you mean "sqlite"?`, result.Issues[0].Suggestion)
}

func TestDefinition_UndeclaredGlobalDependency(t *testing.T) {
	reg, cat := catalogs(t)
	def := validDef()
	def.Globals = []reportdef.GlobalVar{
		{Name: "total", Value: "sum(sales)", DependsOn: []string{"sales", "rates"}},
	}

	result := Definition(def, reg, cat)
	assert.True(t, result.Valid())
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "globals[0]", result.Issues[0].Where)
	assert.Contains(t, result.Issues[0].Message, `"rates"`)
}

func TestIssue_Error(t *testing.T) {
	i := &Issue{Where: "widgets[2]", Message: "boom"}
	assert.Equal(t, "widgets[2]: boom", i.Error())
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"sum", "sum", 0},
		{"count", "cuont", 2},
		{"row-total", "row-totl", 1},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, levenshtein(tt.a, tt.b))
		})
	}
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"sum", "sort", "count", "top"}
	assert.Equal(t, "sort", closestMatch("srot", candidates, 2))
	assert.Equal(t, "", closestMatch("histogram", candidates, 2))
	assert.Equal(t, "", closestMatch("x", nil, 3))
}
