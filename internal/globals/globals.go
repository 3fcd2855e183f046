// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package globals collects the globally scoped JavaScript of one report:
// variable declarations in dependency order, named functions keyed by call
// signature, and raw fragments. A Registry belongs to a single report render
// and is not safe for concurrent use.
package globals

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/jeamick/ares-visual-sub001/internal/jsattr"
)

// URLParamsVar is the name of the shared URL/parameter-state container.
const URLParamsVar = "aresUrlParams"

// CyclicDependencyError is returned when a declaration would make a variable
// depend on itself.
type CyclicDependencyError struct {
	// Cycle lists the variables on the cycle, starting and ending with the
	// same name.
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return "cyclic global variable dependency: " + strings.Join(e.Cycle, " -> ")
}

type variable struct {
	definition string
	deps       []string
}

// Registry is the per-report store of global declarations.
type Registry struct {
	vars  map[string]*variable
	order []string

	fncs     map[string]string
	fncOrder []string

	frags     []string
	fragIndex map[uint64][]int

	urlParams string
	polyfills bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithPolyfills enables or disables the framework polyfills. They are
// enabled by default.
func WithPolyfills(enabled bool) Option {
	return func(r *Registry) { r.polyfills = enabled }
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		vars:      make(map[string]*variable),
		fncs:      make(map[string]string),
		fragIndex: make(map[uint64][]int),
		urlParams: "{}",
		polyfills: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Declare inserts a forward declaration for name unless it is already
// declared.
func (r *Registry) Declare(name string) {
	if _, ok := r.vars[name]; ok {
		return
	}
	r.vars[name] = &variable{}
	r.order = append(r.order, name)
}

// Add declares name with the given definition; an empty definition emits a
// bare "var name;". Undeclared dependencies are forward-declared first.
// Re-adding a name replaces its definition without moving it. Every
// dependency is emitted before name; a dependency that would close a cycle
// is rejected with a *CyclicDependencyError and nothing is changed.
func (r *Registry) Add(name, definition string, dependsOn ...string) error {
	if name == "" {
		return fmt.Errorf("global variable has no name")
	}
	for _, dep := range dependsOn {
		if cycle := r.pathFrom(dep, name); cycle != nil {
			return &CyclicDependencyError{Cycle: append([]string{name}, cycle...)}
		}
	}
	for _, dep := range dependsOn {
		r.Declare(dep)
	}
	r.Declare(name)
	v := r.vars[name]
	v.definition = definition
	for _, dep := range dependsOn {
		v.deps = appendUnique(v.deps, dep)
	}
	slog.Debug("global variable added", "name", name, "deps", dependsOn)
	return nil
}

// ScheduleBefore requires dependency to be emitted before name, declaring
// either if needed.
func (r *Registry) ScheduleBefore(dependency, name string) error {
	if cycle := r.pathFrom(dependency, name); cycle != nil {
		return &CyclicDependencyError{Cycle: append([]string{name}, cycle...)}
	}
	r.Declare(dependency)
	r.Declare(name)
	v := r.vars[name]
	v.deps = appendUnique(v.deps, dependency)
	return nil
}

// pathFrom returns a dependency path from "from" to "to" (inclusive), or nil
// if "to" is unreachable. A variable reaches itself.
func (r *Registry) pathFrom(from, to string) []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	var path []string
	var walk func(n string) bool
	walk = func(n string) bool {
		if n == to {
			path = append(path, n)
			return true
		}
		if state[n] != unvisited {
			return false
		}
		state[n] = visiting
		path = append(path, n)
		if v, ok := r.vars[n]; ok {
			for _, d := range v.deps {
				if walk(d) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state[n] = done
		return false
	}
	if walk(from) {
		return path
	}
	return nil
}

// Vars returns the declared variable names in emission order: every
// variable follows its dependencies, otherwise insertion order is kept.
func (r *Registry) Vars() []string {
	out := make([]string, 0, len(r.order))
	emitted := make(map[string]bool, len(r.order))
	var visit func(n string)
	visit = func(n string) {
		if emitted[n] {
			return
		}
		emitted[n] = true
		for _, d := range r.vars[n].deps {
			visit(d)
		}
		out = append(out, n)
	}
	for _, n := range r.order {
		visit(n)
	}
	return out
}

// Definition returns the definition of name and whether it is declared.
func (r *Registry) Definition(name string) (string, bool) {
	v, ok := r.vars[name]
	if !ok {
		return "", false
	}
	return v.definition, true
}

// Fnc registers a named function under its call signature, for example
// "Today()". Re-registering a signature replaces the body in place.
func (r *Registry) Fnc(signature, body string) {
	if _, ok := r.fncs[signature]; !ok {
		r.fncOrder = append(r.fncOrder, signature)
	}
	r.fncs[signature] = body
}

// HasFnc reports whether a function is registered under signature.
func (r *Registry) HasFnc(signature string) bool {
	_, ok := r.fncs[signature]
	return ok
}

// Function returns the body registered under signature.
func (r *Registry) Function(signature string) (string, bool) {
	body, ok := r.fncs[signature]
	return body, ok
}

// Functions returns the registered signatures in first-registration order.
func (r *Registry) Functions() []string {
	return append([]string(nil), r.fncOrder...)
}

// AddJS adds a raw fragment. Fragments with identical text are kept once.
func (r *Registry) AddJS(fragment string) {
	h := xxh3.HashString(fragment)
	for _, i := range r.fragIndex[h] {
		if r.frags[i] == fragment {
			return
		}
	}
	r.fragIndex[h] = append(r.fragIndex[h], len(r.frags))
	r.frags = append(r.frags, fragment)
}

// Fragments returns the raw fragments in first-submission order.
func (r *Registry) Fragments() []string {
	return append([]string(nil), r.frags...)
}

// SetURLParams sets the initial content of the URL parameter container.
func (r *Registry) SetURLParams(params map[string]any) error {
	if params == nil {
		r.urlParams = "{}"
		return nil
	}
	s, err := jsattr.Encode(params)
	if err != nil {
		return fmt.Errorf("url params: %w", err)
	}
	r.urlParams = s
	return nil
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}
