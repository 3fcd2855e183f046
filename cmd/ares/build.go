// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/config"
	"github.com/jeamick/ares-visual-sub001/internal/datasource"
	"github.com/jeamick/ares-visual-sub001/internal/output"
	"github.com/jeamick/ares-visual-sub001/internal/redact"
	"github.com/jeamick/ares-visual-sub001/internal/report"
	"github.com/jeamick/ares-visual-sub001/internal/reportdef"
	"github.com/jeamick/ares-visual-sub001/internal/state"
	"github.com/jeamick/ares-visual-sub001/internal/steps"
)

// Build-specific flag values.
var (
	buildFormat      string
	buildOutput      string
	buildDebug       bool
	buildNoPolyfills bool
	buildAdapterDirs []string
	buildJobs        int
	buildWatch       bool
	buildDelta       bool
	buildGzip        bool
)

// buildCmd compiles report definitions into pages.
var buildCmd = &cobra.Command{
	Use:   "build <definition>...",
	Short: "Compile report definitions into pages",
	Long: `Compile one or more report definitions (YAML or TOML) into pages.

Arguments may be files, directories (their .yaml, .yml and .toml files are
built) or quoted glob patterns.

With a single definition and no --output, the page is written to stdout.
With several definitions, --output names a directory; without it each page
is written next to its definition.

Examples:
  ares build sales.yaml > sales.html
  ares build -f json -o out/ reports/*.yaml
  ares build --watch -o sales.html sales.yaml
  ares build --delta reports/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildFormat, "format", "f", "", "output format (html, js, json); default from config or html")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output file, or directory when building several definitions")
	buildCmd.Flags().BoolVar(&buildDebug, "debug", false, "instrument generated functions with console logging")
	buildCmd.Flags().BoolVar(&buildNoPolyfills, "no-polyfills", false, "omit the framework polyfills")
	buildCmd.Flags().StringSliceVar(&buildAdapterDirs, "adapters", nil, "extra adapter pack directories (comma-separated)")
	buildCmd.Flags().IntVarP(&buildJobs, "jobs", "j", 4, "number of definitions built concurrently")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild when a definition or adapter pack changes")
	buildCmd.Flags().BoolVarP(&buildGzip, "gzip", "z", false, "gzip pages; files get a .gz suffix")
	buildCmd.Flags().BoolVar(&buildDelta, "delta", false, "skip rewriting pages unchanged since the last delta build")
}

// resetBuildFlags resets build command flags for testing.
func resetBuildFlags() {
	buildFormat = ""
	buildOutput = ""
	buildDebug = false
	buildNoPolyfills = false
	buildAdapterDirs = nil
	buildJobs = 4
	buildWatch = false
	buildDelta = false
	buildGzip = false
}

// buildContext holds what every definition in one build run shares.
type buildContext struct {
	cmd         *cobra.Command
	cfg         *config.Config
	formatter   output.Formatter
	steps       *steps.Registry
	adapters    *adapters.Catalog
	adapterDirs []string
	paths       []string

	// prev is the state of the last delta build, nil when unknown.
	prev *state.BuildState
}

// buildResult is the outcome of building one definition.
type buildResult struct {
	path      string
	target    string
	widgets   int
	print     string
	unchanged bool
	err       error
}

func runBuild(cmd *cobra.Command, args []string) error {
	bc, err := newBuildContext(cmd, args)
	if err != nil {
		return err
	}

	results := bc.buildAll(cmd.Context())
	bc.saveState(results)
	bc.printSummary(results)
	code := computeExitCode(results)

	if buildWatch {
		return bc.watch(cmd.Context())
	}
	if code != ExitOK {
		return exitError(code, "")
	}
	return nil
}

// newBuildContext resolves configuration, the output format and the step and
// adapter catalogs before any definition is read.
func newBuildContext(cmd *cobra.Command, args []string) (*buildContext, error) {
	cfg, err := config.LoadMerged(".")
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "ares: cannot load config (%v)", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, exitError(ExitInvalidArgs, "ares: %v", err)
	}

	format := buildFormat
	if format == "" {
		format = cfg.OutputFormat
	}
	if format == "" {
		format = config.DefaultOutputFormat
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "ares: %v", err)
	}

	paths, err := reportdef.Expand(cmdFS, args)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "ares: %v", err)
	}
	if len(paths) > 1 && buildOutput != "" {
		if info, err := cmdFS.Stat(buildOutput); err == nil && !info.IsDir() {
			return nil, exitError(ExitInvalidArgs, "ares: --output must be a directory when building %d definitions", len(paths))
		}
	}

	reg, err := steps.NewLoader().Load()
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "ares: %v", err)
	}
	dirs := append(append([]string(nil), cfg.AdapterDirs...), buildAdapterDirs...)
	cat, err := adapters.NewLoader(dirs...).Load()
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "ares: %v", err)
	}

	if buildDebug {
		cfg.Debug = true
	}
	if buildNoPolyfills {
		off := false
		cfg.Polyfills = &off
	}

	bc := &buildContext{
		cmd:         cmd,
		cfg:         cfg,
		formatter:   formatter,
		steps:       reg,
		adapters:    cat,
		adapterDirs: dirs,
		paths:       paths,
	}
	if err := bc.checkTargets(); err != nil {
		return nil, err
	}
	if buildDelta {
		prev, err := state.Load(".")
		if err != nil {
			slog.Warn("ignoring build state", "error", err)
		}
		if prev != nil && prev.Format == formatter.Name() {
			bc.prev = prev
		}
	}
	return bc, nil
}

// buildAll builds every definition, at most buildJobs at a time. A failing
// definition does not stop the others.
func (bc *buildContext) buildAll(ctx context.Context) []buildResult {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]buildResult, len(bc.paths))
	g, ctx := errgroup.WithContext(ctx)
	if buildJobs > 0 {
		g.SetLimit(buildJobs)
	}
	for i, path := range bc.paths {
		g.Go(func() error {
			results[i] = bc.buildOne(ctx, path)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (bc *buildContext) buildOne(ctx context.Context, path string) buildResult {
	res := buildResult{path: path, target: bc.target(path)}
	start := time.Now()

	def, err := reportdef.Load(cmdFS, path)
	if err != nil {
		res.err = err
		return res
	}
	b := &report.Builder{
		Steps:    bc.steps,
		Adapters: bc.adapters,
		Loader:   datasource.NewLoader(cmdFS, def.Dir),
	}
	page, err := b.Build(ctx, def, report.Options{
		Title:     bc.cfg.Title,
		Debug:     bc.cfg.Debug,
		Polyfills: bc.cfg.PolyfillsEnabled(),
		URLParams: bc.cfg.URLParams,
		Libraries: bc.cfg.Libraries,
	})
	if err != nil {
		res.err = err
		return res
	}
	res.widgets = len(page.Widgets)
	res.print = page.Fingerprint()

	if res.target != "" && bc.prev.Unchanged(path, res.target, res.print) {
		if _, err := cmdFS.Stat(res.target); err == nil {
			res.unchanged = true
			slog.Debug("page unchanged", "definition", path, "target", res.target)
			return res
		}
	}

	var buf bytes.Buffer
	if err := bc.formatter.Format(page, &buf); err != nil {
		res.err = fmt.Errorf("formatting: %w", err)
		return res
	}
	data := buf.Bytes()
	if buildGzip {
		var zbuf bytes.Buffer
		if err := output.Compress(&zbuf, data); err != nil {
			res.err = err
			return res
		}
		data = zbuf.Bytes()
	}
	if err := bc.write(res.target, data); err != nil {
		res.err = err
		return res
	}
	slog.Info("report built", "definition", path, "widgets", res.widgets, "duration", time.Since(start).Round(time.Millisecond))
	return res
}

// saveState records successful builds when --delta is active. Failing
// definitions are dropped so the next run rebuilds them.
func (bc *buildContext) saveState(results []buildResult) {
	if !buildDelta {
		return
	}
	next := state.New(bc.formatter.Name())
	now := time.Now().UTC()
	for _, r := range results {
		if r.err != nil || r.target == "" {
			continue
		}
		next.Record(r.path, state.Entry{Fingerprint: r.print, Target: r.target, Widgets: r.widgets, BuiltAt: now})
	}
	if err := state.Save(".", next); err != nil {
		slog.Warn("cannot save build state", "error", err)
	}
	bc.prev = next
}

// target returns where the page for path is written; "" means stdout.
func (bc *buildContext) target(path string) string {
	ext := "." + bc.formatter.Name()
	if buildGzip {
		ext += output.GzipExt
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ext
	switch {
	case len(bc.paths) == 1:
		return buildOutput
	case buildOutput != "":
		return filepath.Join(buildOutput, base)
	default:
		return filepath.Join(filepath.Dir(path), base)
	}
}

// checkTargets rejects runs in which two definitions would be written to the
// same page, such as sales.yaml and sales.toml, or same-named files from
// different directories built into one --output directory.
func (bc *buildContext) checkTargets() error {
	seen := make(map[string]string, len(bc.paths))
	for _, p := range bc.paths {
		t := bc.target(p)
		if t == "" {
			continue
		}
		key := filepath.Clean(t)
		if abs, err := cmdFS.Abs(t); err == nil {
			key = abs
		}
		if other, ok := seen[key]; ok {
			return exitError(ExitInvalidArgs, "ares: %s and %s would both be written to %s", other, p, t)
		}
		seen[key] = p
	}
	return nil
}

func (bc *buildContext) write(target string, data []byte) error {
	if target == "" {
		_, err := bc.cmd.OutOrStdout().Write(data)
		return err
	}
	if err := cmdFS.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := cmdFS.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

// printSummary writes one line per definition to stderr.
func (bc *buildContext) printSummary(results []buildResult) {
	if quiet {
		return
	}
	w := bc.cmd.ErrOrStderr()
	tbl := report.NewTable(
		report.Column{Header: "Definition"},
		report.Column{Header: "Widgets", Align: report.AlignRight},
		report.Column{Header: "Status", Color: report.ColorStatus},
		report.Column{Header: "Fingerprint"},
	)
	for _, r := range results {
		status := "ok"
		switch {
		case r.err != nil:
			status = "failed"
		case r.unchanged:
			status = "skipped"
		}
		tbl.AddRow(r.path, strconv.Itoa(r.widgets), status, r.print)
	}
	_ = tbl.Render(w)
	printErrors(w, results)
}

func printErrors(w io.Writer, results []buildResult) {
	for _, r := range results {
		if r.err != nil {
			_, _ = fmt.Fprintf(w, "%s: %s\n", r.path, redact.String(r.err.Error()))
		}
	}
}

// computeExitCode maps build results to an exit code.
func computeExitCode(results []buildResult) int {
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}
	switch {
	case failed == 0:
		return ExitOK
	case failed == len(results):
		return ExitTotalFailure
	default:
		return ExitPartialFailure
	}
}
