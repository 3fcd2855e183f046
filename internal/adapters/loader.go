// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package adapters

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Pack is the on-disk format of an adapter pack file.
type Pack struct {
	Adapters []Adapter `yaml:"adapters" toml:"adapters"`
}

// Loader builds the adapter catalog once: the built-in adapters followed by
// every pack found in Dirs. Load it before serving concurrent renders.
type Loader struct {
	Dirs []string

	once    sync.Once
	catalog *Catalog
	err     error
}

// NewLoader returns a loader that also reads adapter packs from dirs.
func NewLoader(dirs ...string) *Loader {
	return &Loader{Dirs: dirs}
}

// Load builds the catalog on the first call and returns the same catalog
// (or the same error) afterwards.
func (l *Loader) Load() (*Catalog, error) {
	l.once.Do(func() {
		c := NewCatalog()
		for _, a := range Builtins() {
			if err := c.Register(a); err != nil {
				l.err = err
				return
			}
		}
		for _, dir := range l.Dirs {
			if err := loadDir(c, dir); err != nil {
				l.err = err
				return
			}
		}
		slog.Debug("output adapter catalog loaded", "adapters", len(c.List()), "families", len(c.Families()))
		l.catalog = c
	})
	return l.catalog, l.err
}

// EnsureLoaded is like Load but panics if the catalog cannot be built.
func (l *Loader) EnsureLoaded() *Catalog {
	c, err := l.Load()
	if err != nil {
		panic(err)
	}
	return c
}

func loadDir(c *Catalog, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading adapter dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".toml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	for _, path := range files {
		pack, err := ReadPack(path)
		if err != nil {
			return err
		}
		for _, a := range pack.Adapters {
			if err := c.Register(a); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		slog.Debug("loaded adapter pack", "path", path, "adapters", len(pack.Adapters))
	}
	return nil
}

// ReadPack parses an adapter pack file, choosing YAML or TOML by extension.
func ReadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided adapter dir
	if err != nil {
		return nil, err
	}
	var pack Pack
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	for i, a := range pack.Adapters {
		if strings.TrimSpace(a.Body) == "" {
			return nil, fmt.Errorf("%s: adapter %d (%s) has no body", path, i, a.Name())
		}
	}
	return &pack, nil
}
