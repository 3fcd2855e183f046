// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/config"
	"github.com/jeamick/ares-visual-sub001/internal/report"
	"github.com/jeamick/ares-visual-sub001/internal/steps"
)

// Catalog command flags.
var (
	catalogDebug  bool
	catalogFamily string
)

// stepsCmd lists the transform steps.
var stepsCmd = &cobra.Command{
	Use:   "steps [name]",
	Short: "List transform steps or print one step's source",
	Long: `List the transform steps widgets can use, or print the JavaScript
function generated for one step.

Examples:
  ares steps
  ares steps row-total
  ares steps --debug aggregation`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSteps,
}

// adaptersCmd lists the output adapters.
var adaptersCmd = &cobra.Command{
	Use:   "adapters [name]",
	Short: "List output adapters or print one adapter's source",
	Long: `List the output adapters, including those loaded from the adapter
directories in the configuration, or print one adapter's JavaScript.

Examples:
  ares adapters
  ares adapters --family ChartJs
  ares adapters ChartJs_bar`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdapters,
}

func init() {
	stepsCmd.Flags().BoolVar(&catalogDebug, "debug", false, "print the instrumented source")
	adaptersCmd.Flags().BoolVar(&catalogDebug, "debug", false, "print the instrumented source")
	adaptersCmd.Flags().StringVar(&catalogFamily, "family", "", "only list adapters of this family")
}

// resetCatalogFlags resets catalog command flags for testing.
func resetCatalogFlags() {
	catalogDebug = false
	catalogFamily = ""
}

func runSteps(cmd *cobra.Command, args []string) error {
	reg, err := steps.NewLoader().Load()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		s, err := reg.Lookup(args[0])
		if err != nil {
			return exitError(ExitInvalidArgs, "ares: %v", err)
		}
		_, _ = fmt.Fprintf(w, "function %s {\n%s\n}\n", s.Signature(), s.Source(catalogDebug))
		return nil
	}

	_, _ = fmt.Fprintln(w, report.SectionTitle("Transform steps"))
	tbl := report.NewTable(
		report.Column{Header: "Name"},
		report.Column{Header: "Signature", MaxWidth: 60},
	)
	for _, name := range reg.List() {
		s, _ := reg.Get(name)
		tbl.AddRow(name, s.Signature())
	}
	_ = tbl.Render(w)
	_, _ = fmt.Fprintf(w, "\n%s steps\n", report.ColorCount(tbl.Len()))
	return nil
}

func runAdapters(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadMerged(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cat, err := adapters.NewLoader(cfg.AdapterDirs...).Load()
	if err != nil {
		return exitError(ExitInvalidArgs, "ares: %v", err)
	}
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		a, ok := cat.Get(args[0])
		if !ok {
			return exitError(ExitInvalidArgs, "ares: unknown output adapter %q", args[0])
		}
		_, _ = fmt.Fprintf(w, "function %s {\n%s\n}\n", a.Signature(), a.Source(catalogDebug))
		return nil
	}

	builtin := make(map[string]bool)
	for _, a := range adapters.Builtins() {
		builtin[a.Name()] = true
	}

	_, _ = fmt.Fprintln(w, report.SectionTitle("Output adapters"))
	tbl := report.NewTable(
		report.Column{Header: "Family"},
		report.Column{Header: "Type"},
		report.Column{Header: "Function"},
		report.Column{Header: "Origin", Color: report.ColorOrigin},
	)
	for _, name := range cat.List() {
		a, _ := cat.Get(name)
		if catalogFamily != "" && a.Family != catalogFamily {
			continue
		}
		origin := "pack"
		if builtin[name] {
			origin = "builtin"
		}
		typ := a.Type
		if typ == "" {
			typ = "(default)"
		}
		tbl.AddRow(a.Family, typ, a.FuncName(), origin)
	}
	_ = tbl.Render(w)
	_, _ = fmt.Fprintf(w, "\n%s adapters\n", report.ColorCount(tbl.Len()))
	return nil
}
