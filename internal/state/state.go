// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package state manages persisted build state for delta builds.
//
// When --delta is active, ares saves the fingerprint of every page it built.
// On subsequent runs, definitions whose page fingerprint is unchanged and
// whose output still exists are not rewritten.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/jeamick/ares-visual-sub001/internal/testable"
)

// stateDir is the directory name within a project where state is stored.
const stateDir = ".ares"

// stateFile is the filename for build state.
const stateFile = "last-build.json"

// schemaVersion is the current state file schema version.
const schemaVersion = "1"

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// Entry records the last successful build of one definition.
type Entry struct {
	Fingerprint string    `json:"fingerprint"`
	Target      string    `json:"target"`
	Widgets     int       `json:"widgets"`
	BuiltAt     time.Time `json:"built_at"`
}

// BuildState represents persisted state from a previous build.
type BuildState struct {
	Version string           `json:"version"`
	Format  string           `json:"format"`
	Entries map[string]Entry `json:"entries"`
}

// New returns empty state for builds in the given output format.
func New(format string) *BuildState {
	return &BuildState{Version: schemaVersion, Format: format, Entries: make(map[string]Entry)}
}

// Load reads the build state from <dir>/.ares/last-build.json.
// If the file does not exist, or was written by another schema version,
// it returns (nil, nil).
func Load(dir string) (*BuildState, error) {
	data, err := FS.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var s BuildState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if s.Version != schemaVersion {
		return nil, nil
	}
	if s.Entries == nil {
		s.Entries = make(map[string]Entry)
	}
	return &s, nil
}

// Save writes the build state to <dir>/.ares/last-build.json.
// It creates the .ares directory if it does not exist.
func Save(dir string, s *BuildState) error {
	if err := FS.MkdirAll(filepath.Join(dir, stateDir), 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	if err := FS.WriteFile(Path(dir), data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Path returns the state file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, stateDir, stateFile)
}

// Unchanged reports whether definition was last built into target with the
// same fingerprint. A nil state has seen nothing.
func (s *BuildState) Unchanged(definition, target, fingerprint string) bool {
	if s == nil {
		return false
	}
	e, ok := s.Entries[definition]
	return ok && e.Target == target && e.Fingerprint == fingerprint
}

// Record stores the outcome of building definition.
func (s *BuildState) Record(definition string, e Entry) {
	s.Entries[definition] = e
}

// Definitions returns the recorded definition paths, sorted.
func (s *BuildState) Definitions() []string {
	out := make([]string, 0, len(s.Entries))
	for d := range s.Entries {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
