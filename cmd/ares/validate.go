// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/config"
	"github.com/jeamick/ares-visual-sub001/internal/reportdef"
	"github.com/jeamick/ares-visual-sub001/internal/steps"
	"github.com/jeamick/ares-visual-sub001/internal/validate"
)

// Validate-specific flag values.
var (
	validateAdapterDirs []string
	validateStrict      bool
)

// validateCmd checks report definitions without building them.
var validateCmd = &cobra.Command{
	Use:   "validate <definition>...",
	Short: "Check report definitions against the step and adapter catalogs",
	Long: `Check report definitions without compiling them.

Every transform step, output adapter and page mount a widget names must be
known. Problems are reported with fix suggestions. Warnings (an adapter type
falling back to its family default, columns missing from inline rows) do not
fail validation unless --strict is given.

Examples:
  ares validate sales.yaml
  ares validate --strict reports/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringSliceVar(&validateAdapterDirs, "adapters", nil, "extra adapter pack directories (comma-separated)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
}

// resetValidateFlags resets validate command flags for testing.
func resetValidateFlags() {
	validateAdapterDirs = nil
	validateStrict = false
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadMerged(".")
	if err != nil {
		return exitError(ExitInvalidArgs, "ares: cannot load config (%v)", err)
	}
	reg, err := steps.NewLoader().Load()
	if err != nil {
		return exitError(ExitInvalidArgs, "ares: %v", err)
	}
	dirs := append(append([]string(nil), cfg.AdapterDirs...), validateAdapterDirs...)
	cat, err := adapters.NewLoader(dirs...).Load()
	if err != nil {
		return exitError(ExitInvalidArgs, "ares: %v", err)
	}

	paths, err := reportdef.Expand(cmdFS, args)
	if err != nil {
		return exitError(ExitInvalidArgs, "ares: %v", err)
	}

	w := cmd.ErrOrStderr()
	failed := 0
	for _, path := range paths {
		def, err := reportdef.Load(cmdFS, path)
		if err != nil {
			_, _ = fmt.Fprintf(w, "%s: %v\n", path, err)
			failed++
			continue
		}

		result := validate.Definition(def, reg, cat)
		for _, issue := range result.Issues {
			label := "error"
			if issue.Warning {
				label = "warning"
			}
			_, _ = fmt.Fprintf(w, "%s: %s: %s: %s\n", path, issue.Where, label, issue.Message)
			if issue.Suggestion != "" {
				_, _ = fmt.Fprintf(w, "  fix: %s\n", issue.Suggestion)
			}
		}

		if !result.Valid() || (validateStrict && result.Warnings() > 0) {
			_, _ = fmt.Fprintf(w, "%s: %d error(s), %d warning(s)\n", path, result.Errors(), result.Warnings())
			failed++
			continue
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "valid: %s (%d widgets)\n", path, result.Widgets)
	}

	if failed > 0 {
		return exitError(ExitInvalidArgs, "ares: %d of %d definition(s) invalid", failed, len(paths))
	}
	return nil
}
