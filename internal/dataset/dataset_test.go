package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsetRank(t *testing.T) {
	rs := Recordset{
		{"region": "eu", "sales": 10},
		{"region": "us", "sales": 4},
		{"region": "eu", "sales": 7},
		{"region": "eu", "sales": 1},
		{"region": "us", "sales": 9},
	}
	rs.Rank("region", "_rank")

	got := make([]any, len(rs))
	for i, r := range rs {
		got[i] = r["_rank"]
	}
	assert.Equal(t, []any{1, 1, 2, 3, 2}, got)
}

func TestRecordsetRank_MixedTypesDoNotCollide(t *testing.T) {
	rs := Recordset{{"k": "1"}, {"k": 1}, {"k": nil}}
	rs.Rank("k", "r")
	for _, r := range rs {
		assert.Equal(t, 1, r["r"])
	}
}

func TestRecordsetColumns(t *testing.T) {
	rs := Recordset{{"b": 1, "a": 2}, {"c": 3}}
	assert.Equal(t, []string{"a", "b", "c"}, rs.Columns())
}

func TestColumnSet(t *testing.T) {
	s := NewColumnSet("b", "a", "", "b")
	assert.Equal(t, []string{"a", "b"}, s.List())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has(""))

	c := s.Clone()
	c.Add("z")
	assert.False(t, s.Has("z"))
}

func TestSchemaClone_Independent(t *testing.T) {
	s := NewSchema([]string{"region"}, []string{"sales"})
	s.Fncs = append(s.Fncs, Call{Name: "sum", Args: []any{"x"}})
	s.Out = &Output{Family: "ChartJs", Type: "bar", Args: []any{1}}

	c := s.Clone()
	c.Fncs[0].Args[0] = "y"
	c.Out.Args[0] = 2
	c.Keys.Add("country")

	assert.Equal(t, "x", s.Fncs[0].Args[0])
	assert.Equal(t, 1, s.Out.Args[0])
	assert.False(t, s.Keys.Has("country"))
}

func TestSources_Filters(t *testing.T) {
	s := NewSources()
	require.NoError(t, s.AddFilter("sales", Filter{Column: "region", Operator: OpEq, Value: "eu"}))
	require.NoError(t, s.AddFilter("sales", Filter{Column: "amount", Operator: OpGt, Value: 3}))

	fs := s.Filters("sales")
	require.Len(t, fs, 2)
	assert.Equal(t, "region", fs[0].Column)
	assert.Empty(t, s.Filters("other"))

	fs[0].Column = "mutated"
	assert.Equal(t, "region", s.Filters("sales")[0].Column)
}

func TestSources_InvalidFilter(t *testing.T) {
	s := NewSources()
	assert.Error(t, s.AddFilter("x", Filter{Column: "", Operator: OpEq}))
	assert.Error(t, s.AddFilter("x", Filter{Column: "a", Operator: "~"}))
	assert.Empty(t, s.Filters("x"))
}

func TestSources_NilSafe(t *testing.T) {
	var s *Sources
	assert.Nil(t, s.Filters("x"))
	assert.Nil(t, s.Records("x"))
}
