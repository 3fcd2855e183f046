// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package steps defines transform steps, the named JavaScript snippets that
// turn one recordset into another, and a registry for managing them.
package steps

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jeamick/ares-visual-sub001/internal/dataset"
)

// ErrDuplicateStep is returned when two steps share a name or a JavaScript
// function name.
var ErrDuplicateStep = errors.New("transform step already registered")

// UnknownStepError reports a reference to a step name that is not registered.
type UnknownStepError struct {
	Name string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown transform step %q", e.Name)
}

// Step is a named, parameterized JavaScript snippet operating on a recordset.
// The body reads the implicit first parameter data and writes into result.
type Step struct {
	// Name is the unique catalog key (e.g., "sum", "row-total").
	Name string

	// Params lists the formal parameters following data, in call order.
	Params []string

	// Init is the initial value of result. Defaults to "[]".
	Init string

	// Body is the JavaScript statement sequence.
	Body string

	// ExtendColumns, when set, records on the schema the columns a call with
	// the given arguments brings into scope.
	ExtendColumns func(s *dataset.Schema, args []any)

	// ExtendArgs, when set, returns args with system columns of the given
	// category ("keys" or "values") appended.
	ExtendArgs func(category string, args []any, cols []string) []any
}

// FuncName returns the JavaScript identifier of the step's function.
func (s Step) FuncName() string {
	return JSName(s.Name)
}

// Signature returns the call signature used as the function registry key.
func (s Step) Signature() string {
	return Signature(s.FuncName(), s.Params)
}

// Source returns the function body, instrumented when debug is set.
func (s Step) Source(debug bool) string {
	return RenderBody(s.Name, s.Params, s.Init, s.Body, debug)
}

// Spec is a reference to a step together with its call arguments.
type Spec struct {
	Name string
	Args []any
}

// Use builds a Spec for a step referenced by name.
func Use(name string, args ...any) Spec {
	return Spec{Name: name, Args: args}
}

// JSName converts a step name such as "row-total" to a JavaScript identifier
// such as "rowTotal".
func JSName(name string) string {
	var b strings.Builder
	upper := false
	for _, r := range name {
		if r == '-' || r == '_' || r == ' ' || r == '.' {
			upper = b.Len() > 0
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Signature formats a call signature with the implicit data parameter first.
func Signature(fn string, params []string) string {
	all := append([]string{"data"}, params...)
	return fn + "(" + strings.Join(all, ", ") + ")"
}

// RenderBody wraps body with the declaration and return of result. In debug
// mode the body also logs its input, arguments, result and timing.
func RenderBody(name string, params []string, init, body string, debug bool) string {
	if init == "" {
		init = "[]"
	}
	var b strings.Builder
	if debug {
		b.WriteString("var t0 = performance.now();\n")
		fmt.Fprintf(&b, "console.log(%q, data);\n", name+" input")
		fmt.Fprintf(&b, "console.log(%q, [%s]);\n", name+" args", strings.Join(params, ", "))
	}
	fmt.Fprintf(&b, "var result = %s;\n", init)
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	if debug {
		fmt.Fprintf(&b, "console.log(%q, result);\n", name+" result")
		fmt.Fprintf(&b, "console.log(%q + (performance.now() - t0) + \"ms\");\n", name+" took ")
	}
	b.WriteString("return result;")
	return b.String()
}
