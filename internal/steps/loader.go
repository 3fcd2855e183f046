// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package steps

import (
	"log/slog"
	"sync"
)

// Loader populates a step registry with the built-in catalog exactly once.
// Load it before serving concurrent renders; the resulting registry is then
// only read.
type Loader struct {
	once  sync.Once
	extra []Step
	reg   *Registry
	err   error
}

// NewLoader returns a loader for the built-in catalog plus extra steps.
func NewLoader(extra ...Step) *Loader {
	return &Loader{extra: extra}
}

// Load builds the catalog on the first call and returns the same registry
// (or the same error) on every call. Duplicate names in the catalog are
// reported as an error wrapping ErrDuplicateStep.
func (l *Loader) Load() (*Registry, error) {
	l.once.Do(func() {
		reg := NewRegistry()
		for _, k := range Kinds() {
			if err := reg.Register(Builtin(k)); err != nil {
				l.err = err
				return
			}
		}
		for _, s := range l.extra {
			if err := reg.Register(s); err != nil {
				l.err = err
				return
			}
		}
		slog.Debug("transform step catalog loaded", "steps", reg.Len())
		l.reg = reg
	})
	return l.reg, l.err
}

// EnsureLoaded is like Load but panics if the catalog is invalid.
func (l *Loader) EnsureLoaded() *Registry {
	reg, err := l.Load()
	if err != nil {
		panic(err)
	}
	return reg
}
