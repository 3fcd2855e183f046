// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/redact"
)

// watchDebounce groups the bursts of events editors emit on save.
const watchDebounce = 200 * time.Millisecond

// watch rebuilds every definition whenever a definition, a file next to it
// or an adapter pack changes. It returns when ctx is cancelled or the
// process is interrupted.
func (bc *buildContext) watch(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return exitError(ExitTotalFailure, "ares: cannot watch files (%v)", err)
	}
	defer w.Close() //nolint:errcheck // watcher shutdown

	for _, dir := range bc.watchDirs() {
		if err := w.Add(dir); err != nil {
			return exitError(ExitInvalidArgs, "ares: cannot watch %s (%v)", dir, err)
		}
	}
	slog.Info("watching for changes", "definitions", len(bc.paths))

	return watchLoop(ctx, w.Events, w.Errors, bc.relevant, func() { bc.rebuild(ctx) })
}

// rebuild reloads the adapter packs and builds every definition again. When
// a pack no longer loads, the error is reported and nothing is rebuilt.
func (bc *buildContext) rebuild(ctx context.Context) {
	cat, err := adapters.NewLoader(bc.adapterDirs...).Load()
	if err != nil {
		_, _ = fmt.Fprintf(bc.cmd.ErrOrStderr(), "ares: %s\n", redact.String(err.Error()))
		return
	}
	bc.adapters = cat

	results := bc.buildAll(ctx)
	bc.saveState(results)
	bc.printSummary(results)
}

// watchDirs returns the directories holding definitions and adapter packs.
func (bc *buildContext) watchDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if abs, err := cmdFS.Abs(dir); err == nil {
			dir = abs
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	for _, p := range bc.paths {
		add(filepath.Dir(p))
	}
	for _, d := range bc.adapterDirs {
		add(d)
	}
	return dirs
}

// relevant reports whether an event should trigger a rebuild. Pages written
// by the build itself are ignored.
func (bc *buildContext) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".yaml", ".yml", ".toml", ".csv", ".tsv", ".json":
	default:
		return false
	}
	for _, p := range bc.paths {
		if t := bc.target(p); t != "" && sameFile(t, ev.Name) {
			return false
		}
	}
	return true
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// watchLoop calls rebuild once per burst of relevant events.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, relevant func(fsnotify.Event) bool, rebuild func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			slog.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			rebuild()
		}
	}
}
