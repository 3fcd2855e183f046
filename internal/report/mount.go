// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package report assembles report definitions into pages: it loads the
// datasets, compiles one pipeline per widget and mounts the results with the
// charting library of each widget's family.
package report

import (
	"fmt"
	"sync"
)

// Mount attaches a compiled widget configuration to its DOM container.
type Mount struct {
	// Family is the adapter family the mount draws, e.g. "ChartJs".
	Family string

	// Libraries are the script URLs the family needs, in load order.
	Libraries []string

	// Body is the JavaScript body of the mount function. It receives the
	// container element, the output type and the adapter result as el,
	// type and config.
	Body string
}

// FuncName returns the JavaScript name of the mount function.
func (m Mount) FuncName() string {
	return "aresMount" + m.Family
}

// Signature returns the mount function's signature.
func (m Mount) Signature() string {
	return m.FuncName() + "(el, type, config)"
}

var (
	mu     sync.RWMutex
	mounts = make(map[string]Mount)
	order  []string // insertion order for deterministic listing
)

// Register adds a mount to the global registry.
// It panics if a mount for the same family is already registered.
func Register(m Mount) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := mounts[m.Family]; exists {
		panic(fmt.Sprintf("mount already registered: %s", m.Family))
	}
	mounts[m.Family] = m
	order = append(order, m.Family)
}

// Get returns the mount for family.
func Get(family string) (Mount, bool) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := mounts[family]
	return m, ok
}

// List returns the registered families in registration order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// resetForTesting clears the registry. Only for use in tests.
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	mounts = make(map[string]Mount)
	order = nil
}
