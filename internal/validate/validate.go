// Package validate checks report definitions against the step and adapter
// catalogs, producing detailed messages with fix suggestions. It goes beyond
// the structural checks done when a definition is parsed: every name a
// widget references must resolve to something the compiler can emit.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/datasource"
	"github.com/jeamick/ares-visual-sub001/internal/pipeline"
	"github.com/jeamick/ares-visual-sub001/internal/report"
	"github.com/jeamick/ares-visual-sub001/internal/reportdef"
	"github.com/jeamick/ares-visual-sub001/internal/steps"
)

// Issue is a single finding in a definition.
type Issue struct {
	Where      string // e.g. "widgets[0].steps[1]"
	Message    string // what's wrong
	Suggestion string // how to fix it
	Warning    bool   // the definition still builds
}

// Error implements the error interface.
func (i *Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Where, i.Message)
}

// Result contains the outcome of validating a definition.
type Result struct {
	Widgets int
	Issues  []Issue
}

// Valid returns true if no errors were found. Warnings do not count.
func (r *Result) Valid() bool {
	return r.Errors() == 0
}

// Errors returns the number of issues that prevent a build.
func (r *Result) Errors() int {
	n := 0
	for _, i := range r.Issues {
		if !i.Warning {
			n++
		}
	}
	return n
}

// Warnings returns the number of non-fatal issues.
func (r *Result) Warnings() int {
	return len(r.Issues) - r.Errors()
}

func (r *Result) errorf(where, suggestion, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Where: where, Message: fmt.Sprintf(format, args...), Suggestion: suggestion})
}

func (r *Result) warnf(where, suggestion, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Where: where, Message: fmt.Sprintf(format, args...), Suggestion: suggestion, Warning: true})
}

// Definition checks def against the step registry and adapter catalog.
func Definition(def *reportdef.Definition, reg *steps.Registry, cat *adapters.Catalog) *Result {
	result := &Result{Widgets: len(def.Widgets)}

	datasets := make(map[string]reportdef.Dataset, len(def.Datasets))
	for i, ds := range def.Datasets {
		datasets[ds.ID] = ds
		checkDriver(ds, fmt.Sprintf("datasets[%d]", i), result)
	}

	stepNames := append(reg.List(), pipeline.OrderStep)
	for i, w := range def.Widgets {
		where := fmt.Sprintf("widgets[%d]", i)
		for j, s := range w.Steps {
			checkStep(s.Name, fmt.Sprintf("%s.steps[%d]", where, j), stepNames, result)
		}
		for j, s := range w.Post {
			checkStep(s.Name, fmt.Sprintf("%s.post[%d]", where, j), stepNames, result)
		}
		checkOutput(w, where, cat, result)
		if ds, ok := datasets[w.Dataset]; ok {
			checkColumns(w, ds, where, result)
		}
	}

	declared := make(map[string]bool)
	for _, ds := range def.Datasets {
		declared[ds.ID] = true
	}
	for _, g := range def.Globals {
		declared[g.Name] = true
	}
	for i, g := range def.Globals {
		for _, dep := range g.DependsOn {
			if !declared[dep] {
				result.warnf(fmt.Sprintf("globals[%d]", i),
					fmt.Sprintf("declare %q in globals, or remove it from depends_on", dep),
					"depends on %q, which is only forward-declared", dep)
			}
		}
	}
	return result
}

func checkDriver(ds reportdef.Dataset, where string, result *Result) {
	if ds.Query == "" {
		return
	}
	for _, d := range datasource.Drivers {
		if d == ds.Driver {
			return
		}
	}
	suggestion := fmt.Sprintf("set \"driver\" to one of: %s", strings.Join(datasource.Drivers, ", "))
	if s := closestMatch(strings.ToLower(ds.Driver), datasource.Drivers, 3); s != "" {
		suggestion = fmt.Sprintf("did you mean %q?", s)
	}
	result.errorf(where, suggestion, "unknown driver %q", ds.Driver)
}

func checkStep(name, where string, known []string, result *Result) {
	for _, k := range known {
		if k == name {
			return
		}
	}
	suggestion := "run 'ares steps' to list the available steps"
	if s := closestMatch(name, known, 3); s != "" {
		suggestion = fmt.Sprintf("did you mean %q?", s)
	}
	result.errorf(where, suggestion, "unknown transform step %q", name)
}

func checkOutput(w reportdef.Widget, where string, cat *adapters.Catalog, result *Result) {
	a, err := cat.Resolve(w.Family, w.Type)
	if err != nil {
		suggestion := "run 'ares adapters' to list the available adapters"
		if s := closestMatch(w.Family, cat.Families(), 3); s != "" && s != w.Family {
			suggestion = fmt.Sprintf("did you mean family %q?", s)
		}
		result.errorf(where, suggestion, "no output adapter for family %q type %q", w.Family, w.Type)
		return
	}
	if w.Type != "" && a.Type != w.Type {
		types := nonEmpty(cat.Types(w.Family))
		result.warnf(where, fmt.Sprintf("known %s types: %s", w.Family, strings.Join(types, ", ")),
			"type %q is not registered; the %s default adapter is used", w.Type, w.Family)
	}
	if _, ok := report.Get(w.Family); !ok {
		result.errorf(where, "use one of the built-in families, or register a mount for it",
			"family %q cannot be mounted on a page", w.Family)
	}
}

// checkColumns verifies widget columns against inline rows. File and query
// datasets are only known at build time.
func checkColumns(w reportdef.Widget, ds reportdef.Dataset, where string, result *Result) {
	if len(ds.Rows) == 0 {
		return
	}
	cols := make(map[string]bool)
	for _, row := range ds.Rows {
		for k := range row {
			cols[k] = true
		}
	}
	var missing []string
	for _, c := range append(append([]string(nil), w.Keys...), w.Values...) {
		if !cols[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return
	}
	known := make([]string, 0, len(cols))
	for c := range cols {
		known = append(known, c)
	}
	sort.Strings(known)
	result.warnf(where, fmt.Sprintf("dataset %q has columns: %s", ds.ID, strings.Join(known, ", ")),
		"columns %s are not in dataset %q; steps may create them", strings.Join(missing, ", "), ds.ID)
}

func nonEmpty(list []string) []string {
	out := list[:0:0]
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// closestMatch finds the closest string in candidates to input using
// Levenshtein distance. Returns empty string if no match is within maxDist.
func closestMatch(input string, candidates []string, maxDist int) string {
	best := ""
	bestDist := maxDist + 1

	for _, c := range candidates {
		d := levenshtein(input, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}

	if bestDist <= maxDist {
		return best
	}
	return ""
}

// levenshtein computes the Levenshtein edit distance between two strings.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}
