// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package adapters provides the catalog of output adapters: JavaScript
// functions reshaping a transformed recordset into the structure a specific
// chart or table library expects.
package adapters

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jeamick/ares-visual-sub001/internal/steps"
)

// ErrDuplicateAdapter is returned when two adapters resolve to the same name.
var ErrDuplicateAdapter = errors.New("output adapter already registered")

// UnknownAdapterError reports an output shape with no matching adapter.
type UnknownAdapterError struct {
	Family string
	Type   string
}

func (e *UnknownAdapterError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("unknown output adapter %q", e.Family)
	}
	return fmt.Sprintf("unknown output adapter %q (no %q or %q registered)", e.Family+"_"+e.Type, e.Family+"_"+e.Type, e.Family)
}

// Adapter is the JavaScript template for one (family, type) output shape.
type Adapter struct {
	Family string   `yaml:"family" toml:"family"`
	Type   string   `yaml:"type,omitempty" toml:"type"`
	Params []string `yaml:"params,omitempty" toml:"params"`
	Init   string   `yaml:"init,omitempty" toml:"init"`
	Body   string   `yaml:"body" toml:"body"`
}

// Name returns "Family_Type", or "Family" for a family-level default.
func (a Adapter) Name() string {
	return Key(a.Family, a.Type)
}

// FuncName returns the JavaScript identifier of the adapter function.
func (a Adapter) FuncName() string {
	return "Ares" + a.Name()
}

// Signature returns the call signature used as the function registry key.
func (a Adapter) Signature() string {
	return steps.Signature(a.FuncName(), a.Params)
}

// Source returns the function body, instrumented when debug is set.
func (a Adapter) Source(debug bool) string {
	init := a.Init
	if init == "" {
		init = "{}"
	}
	return steps.RenderBody(a.FuncName(), a.Params, init, a.Body, debug)
}

// Key joins a family and type into an adapter name.
func Key(family, typ string) string {
	if typ == "" {
		return family
	}
	return family + "_" + typ
}

// Catalog holds output adapters keyed by name.
type Catalog struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{adapters: make(map[string]Adapter)}
}

// Register adds an adapter. It returns an error wrapping ErrDuplicateAdapter
// if the name is taken.
func (c *Catalog) Register(a Adapter) error {
	if a.Family == "" {
		return fmt.Errorf("output adapter has no family")
	}
	if strings.ContainsAny(a.Family+a.Type, " -.") {
		return fmt.Errorf("output adapter %q: family and type must be identifiers", a.Name())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	name := a.Name()
	if _, exists := c.adapters[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAdapter, name)
	}
	c.adapters[name] = a
	return nil
}

// Get returns the adapter registered under name.
func (c *Catalog) Get(name string) (Adapter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.adapters[name]
	return a, ok
}

// Resolve finds the adapter for family and typ, falling back to the
// family-level adapter when the specific type is not registered.
func (c *Catalog) Resolve(family, typ string) (Adapter, error) {
	if a, ok := c.Get(Key(family, typ)); ok {
		return a, nil
	}
	if a, ok := c.Get(family); ok {
		return a, nil
	}
	return Adapter{}, &UnknownAdapterError{Family: family, Type: typ}
}

// List returns all adapter names, sorted.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.adapters))
	for name := range c.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Families returns the distinct families, sorted.
func (c *Catalog) Families() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]bool)
	for _, a := range c.adapters {
		seen[a.Family] = true
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Types returns the types registered for family, sorted. A family-level
// default is listed as "".
func (c *Catalog) Types(family string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, a := range c.adapters {
		if a.Family == family {
			out = append(out, a.Type)
		}
	}
	sort.Strings(out)
	return out
}
