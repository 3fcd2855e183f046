// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package steps

import (
	"fmt"

	"github.com/jeamick/ares-visual-sub001/internal/dataset"
)

// Kind identifies a built-in transform step.
type Kind int

// Built-in transform steps.
const (
	Sum Kind = iota
	Count
	Rename
	Filter
	Extend
	RowTotal
	RowBuckets
	Aggregation
	Intensity
	Top
	Sort
	Distinct
	ToTSV
)

var kindNames = [...]string{
	Sum:         "sum",
	Count:       "count",
	Rename:      "rename",
	Filter:      "filter",
	Extend:      "extend",
	RowTotal:    "row-total",
	RowBuckets:  "row-buckets",
	Aggregation: "aggregation",
	Intensity:   "intensity",
	Top:         "top",
	Sort:        "sort",
	Distinct:    "distinct",
	ToTSV:       "to-tsv",
}

// Kinds returns every built-in kind in catalog order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// String returns the catalog name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// With builds a Spec calling the built-in step with args.
func (k Kind) With(args ...any) Spec {
	return Spec{Name: k.String(), Args: args}
}

// Builtin returns the definition of a built-in step.
func Builtin(k Kind) Step {
	switch k {
	case Sum:
		return Step{
			Name:   k.String(),
			Params: []string{"keys", "values"},
			Body: `var index = {};
data.forEach(function(rec) {
  var key = keys.map(function(k) { return rec[k]; }).join("#");
  var row = index[key];
  if (row === undefined) {
    row = {};
    keys.forEach(function(k) { row[k] = rec[k]; });
    values.forEach(function(v) { row[v] = 0; });
    index[key] = row;
    result.push(row);
  }
  values.forEach(function(v) {
    var x = parseFloat(rec[v]);
    if (!isNaN(x)) { row[v] += x; }
  });
});`,
			ExtendColumns: keysAndValues(0, 1),
		}
	case Count:
		return Step{
			Name:   k.String(),
			Params: []string{"keys", "column"},
			Body: `var index = {};
var target = column || "count";
data.forEach(function(rec) {
  var key = keys.map(function(k) { return rec[k]; }).join("#");
  var row = index[key];
  if (row === undefined) {
    row = {};
    keys.forEach(function(k) { row[k] = rec[k]; });
    row[target] = 0;
    index[key] = row;
    result.push(row);
  }
  row[target] += 1;
});`,
			ExtendColumns: func(s *dataset.Schema, args []any) {
				s.Keys.Add(stringList(arg(args, 0))...)
				col := stringArg(args, 1)
				if col == "" {
					col = "count"
				}
				s.Values.Add(col)
			},
		}
	case Rename:
		return Step{
			Name:   k.String(),
			Params: []string{"mapping"},
			Body: `data.forEach(function(rec) {
  var row = {};
  for (var col in rec) {
    if (rec.hasOwnProperty(col)) {
      row[mapping.hasOwnProperty(col) ? mapping[col] : col] = rec[col];
    }
  }
  result.push(row);
});`,
			ExtendColumns: func(s *dataset.Schema, args []any) {
				for from, to := range stringMap(arg(args, 0)) {
					for _, set := range []dataset.ColumnSet{s.Keys, s.Values} {
						if set.Has(from) {
							delete(set, from)
							set.Add(to)
						}
					}
				}
			},
		}
	case Filter:
		return Step{
			Name:   k.String(),
			Params: []string{"filters"},
			Body: `var tests = {
  "==": function(a, b) { return a == b; },
  "!=": function(a, b) { return a != b; },
  ">": function(a, b) { return a > b; },
  ">=": function(a, b) { return a >= b; },
  "<": function(a, b) { return a < b; },
  "<=": function(a, b) { return a <= b; },
  "in": function(a, b) { return b.indexOf(a) >= 0; },
  "contains": function(a, b) { return String(a).indexOf(b) >= 0; }
};
data.forEach(function(rec) {
  var keep = filters.every(function(f) { return tests[f.op](rec[f.col], f.val); });
  if (keep) { result.push(rec); }
});`,
		}
	case Extend:
		return Step{
			Name:   k.String(),
			Params: []string{"columns"},
			Body: `data.forEach(function(rec) {
  var row = Object.assign({}, rec);
  for (var col in columns) {
    if (columns.hasOwnProperty(col)) {
      var v = columns[col];
      row[col] = (typeof v === "function") ? v(rec) : v;
    }
  }
  result.push(row);
});`,
			ExtendColumns: func(s *dataset.Schema, args []any) {
				for col := range stringKeys(arg(args, 0)) {
					s.Values.Add(col)
				}
			},
		}
	case RowTotal:
		return Step{
			Name:   k.String(),
			Params: []string{"values", "column"},
			Body: `var target = column || "total";
data.forEach(function(rec) {
  var row = Object.assign({}, rec);
  row[target] = values.reduce(function(acc, v) {
    var x = parseFloat(rec[v]);
    return isNaN(x) ? acc : acc + x;
  }, 0);
  result.push(row);
});`,
			ExtendColumns: func(s *dataset.Schema, args []any) {
				col := stringArg(args, 1)
				if col == "" {
					col = "total"
				}
				s.Values.Add(col)
			},
		}
	case RowBuckets:
		return Step{
			Name:   k.String(),
			Params: []string{"column", "buckets", "target"},
			Body: `var out = target || "bucket";
data.forEach(function(rec) {
  var row = Object.assign({}, rec);
  var x = parseFloat(rec[column]);
  row[out] = null;
  for (var i = 0; i < buckets.length; i++) {
    if (x <= buckets[i].max) { row[out] = buckets[i].label; break; }
  }
  result.push(row);
});`,
			ExtendColumns: func(s *dataset.Schema, args []any) {
				col := stringArg(args, 2)
				if col == "" {
					col = "bucket"
				}
				s.Keys.Add(col)
			},
		}
	case Aggregation:
		return Step{
			Name:   k.String(),
			Params: []string{"keys", "values", "method"},
			Body: `var index = {};
var op = method || "sum";
data.forEach(function(rec) {
  var key = keys.map(function(k) { return rec[k]; }).join("#");
  var acc = index[key];
  if (acc === undefined) {
    acc = {row: {}, n: 0, agg: {}};
    keys.forEach(function(k) { acc.row[k] = rec[k]; });
    values.forEach(function(v) { acc.agg[v] = null; });
    index[key] = acc;
    result.push(acc);
  }
  acc.n += 1;
  values.forEach(function(v) {
    var x = parseFloat(rec[v]);
    if (isNaN(x)) { return; }
    var cur = acc.agg[v];
    if (cur === null) { acc.agg[v] = x; return; }
    if (op === "min") { acc.agg[v] = Math.min(cur, x); }
    else if (op === "max") { acc.agg[v] = Math.max(cur, x); }
    else { acc.agg[v] = cur + x; }
  });
});
result = result.map(function(acc) {
  values.forEach(function(v) {
    var x = acc.agg[v];
    if (op === "count") { x = acc.n; }
    else if (op === "avg" && x !== null) { x = x / acc.n; }
    acc.row[v] = x;
  });
  return acc.row;
});`,
			ExtendColumns: keysAndValues(0, 1),
			ExtendArgs:    appendSystemColumns,
		}
	case Intensity:
		return Step{
			Name:   k.String(),
			Params: []string{"column", "target"},
			Body: `var out = target || "intensity";
var max = 0;
data.forEach(function(rec) {
  var x = Math.abs(parseFloat(rec[column]));
  if (!isNaN(x) && x > max) { max = x; }
});
data.forEach(function(rec) {
  var row = Object.assign({}, rec);
  var x = parseFloat(rec[column]);
  row[out] = (max === 0 || isNaN(x)) ? 0 : x / max;
  result.push(row);
});`,
			ExtendColumns: func(s *dataset.Schema, args []any) {
				col := stringArg(args, 1)
				if col == "" {
					col = "intensity"
				}
				s.Values.Add(col)
			},
		}
	case Top:
		return Step{
			Name:   k.String(),
			Params: []string{"n", "column", "order"},
			Body: `var asc = order === "asc";
result = data.slice().sort(function(a, b) {
  var d = parseFloat(a[column]) - parseFloat(b[column]);
  return asc ? d : -d;
}).slice(0, n);`,
		}
	case Sort:
		return Step{
			Name:   k.String(),
			Params: []string{"columns", "desc"},
			Body: `result = data.slice().sort(function(a, b) {
  for (var i = 0; i < columns.length; i++) {
    var c = columns[i];
    if (a[c] < b[c]) { return desc ? 1 : -1; }
    if (a[c] > b[c]) { return desc ? -1 : 1; }
  }
  return 0;
});`,
		}
	case Distinct:
		return Step{
			Name:   k.String(),
			Params: []string{"columns"},
			Body: `var seen = {};
data.forEach(function(rec) {
  var key = columns.map(function(c) { return rec[c]; }).join("#");
  if (seen[key]) { return; }
  seen[key] = true;
  var row = {};
  columns.forEach(function(c) { row[c] = rec[c]; });
  result.push(row);
});`,
			ExtendColumns: func(s *dataset.Schema, args []any) {
				s.Keys.Add(stringList(arg(args, 0))...)
			},
		}
	case ToTSV:
		return Step{
			Name:   k.String(),
			Params: []string{"columns"},
			Init:   `""`,
			Body: `var rows = Array.isArray(data) ? data : (data.data || []);
var lines = [columns.join("\t")];
rows.forEach(function(rec) {
  lines.push(columns.map(function(c) { return rec[c] === undefined ? "" : rec[c]; }).join("\t"));
});
result = lines.join("\n");`,
		}
	}
	panic(fmt.Sprintf("steps: no built-in for %v", k))
}

// keysAndValues returns a hook adding args[ki] to the schema keys and
// args[vi] to its values.
func keysAndValues(ki, vi int) func(*dataset.Schema, []any) {
	return func(s *dataset.Schema, args []any) {
		s.Keys.Add(stringList(arg(args, ki))...)
		s.Values.Add(stringList(arg(args, vi))...)
	}
}

// appendSystemColumns appends cols to the keys (args[0]) or values (args[1])
// argument, skipping columns already listed.
func appendSystemColumns(category string, args []any, cols []string) []any {
	idx := -1
	switch category {
	case "keys":
		idx = 0
	case "values":
		idx = 1
	}
	if idx < 0 || len(cols) == 0 {
		return args
	}
	out := append([]any(nil), args...)
	for len(out) <= idx {
		out = append(out, []string{})
	}
	existing := stringList(out[idx])
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c] = true
	}
	merged := append([]string(nil), existing...)
	for _, c := range cols {
		if !seen[c] {
			merged = append(merged, c)
			seen[c] = true
		}
	}
	out[idx] = merged
	return out
}
