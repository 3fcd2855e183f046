// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package steps

import (
	"fmt"
	"sync"
)

// Registry is a catalog of transform steps keyed by name.
type Registry struct {
	mu     sync.RWMutex
	steps  map[string]Step
	jsName map[string]string
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		steps:  make(map[string]Step),
		jsName: make(map[string]string),
	}
}

// Register adds a step to the registry. It returns an error wrapping
// ErrDuplicateStep if the name, or the JavaScript function name derived from
// it, is already taken.
func (r *Registry) Register(s Step) error {
	if s.Name == "" {
		return fmt.Errorf("transform step has no name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.steps[s.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, s.Name)
	}
	fn := s.FuncName()
	if other, exists := r.jsName[fn]; exists {
		return fmt.Errorf("%w: %s (function %s already used by %s)", ErrDuplicateStep, s.Name, fn, other)
	}
	r.steps[s.Name] = s
	r.jsName[fn] = s.Name
	r.order = append(r.order, s.Name)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(s Step) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Get returns the step with the given name.
func (r *Registry) Get(name string) (Step, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.steps[name]
	return s, ok
}

// Lookup returns the step with the given name or an *UnknownStepError.
func (r *Registry) Lookup(name string) (Step, error) {
	s, ok := r.Get(name)
	if !ok {
		return Step{}, &UnknownStepError{Name: name}
	}
	return s, nil
}

// List returns the names of all registered steps in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered steps.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
