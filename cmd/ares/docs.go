// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeamick/ares-visual-sub001/internal/adapters"
	"github.com/jeamick/ares-visual-sub001/internal/config"
	"github.com/jeamick/ares-visual-sub001/internal/docs"
	"github.com/jeamick/ares-visual-sub001/internal/steps"
)

// Docs-specific flag values.
var (
	docsOutput string
	docsUpdate bool
)

// docsCmd writes a Markdown reference of the catalogs.
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate a Markdown reference of steps, adapters and mounts",
	Long: `Generate a Markdown reference of the transform steps, output adapters
(including configured adapter packs) and page mounts.

With --update, the generated sections of an existing file are refreshed and
everything else in it is kept.`,
	Args: cobra.NoArgs,
	RunE: runDocs,
}

func init() {
	docsCmd.Flags().StringVarP(&docsOutput, "output", "o", "", "write to file instead of stdout")
	docsCmd.Flags().BoolVar(&docsUpdate, "update", false, "refresh the generated sections of the --output file")
}

// resetDocsFlags resets docs command flags for testing.
func resetDocsFlags() {
	docsOutput = ""
	docsUpdate = false
}

func runDocs(cmd *cobra.Command, _ []string) error {
	if docsUpdate && docsOutput == "" {
		return exitError(ExitInvalidArgs, "ares: --update requires --output")
	}
	cfg, err := config.LoadMerged(".")
	if err != nil {
		return exitError(ExitInvalidArgs, "ares: cannot load config (%v)", err)
	}
	reg, err := steps.NewLoader().Load()
	if err != nil {
		return exitError(ExitInvalidArgs, "ares: %v", err)
	}
	cat, err := adapters.NewLoader(cfg.AdapterDirs...).Load()
	if err != nil {
		return exitError(ExitInvalidArgs, "ares: %v", err)
	}
	ref := docs.Collect(reg, cat)
	if cfg.Title != "" {
		ref.Title = cfg.Title + " catalog"
	}

	var buf bytes.Buffer
	if docsUpdate {
		if _, err := cmdFS.Stat(docsOutput); err == nil {
			err = docs.Update(docsOutput, ref, &buf)
			if err != nil {
				return exitError(ExitTotalFailure, "ares: %v", err)
			}
			return writeDocs(cmd, buf.Bytes())
		}
	}
	if err := docs.Generate(ref, &buf); err != nil {
		return exitError(ExitTotalFailure, "ares: %v", err)
	}
	return writeDocs(cmd, buf.Bytes())
}

func writeDocs(cmd *cobra.Command, data []byte) error {
	if docsOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := cmdFS.WriteFile(docsOutput, data, 0o644); err != nil {
		return exitError(ExitTotalFailure, "ares: cannot write %s (%v)", docsOutput, err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", docsOutput)
	return nil
}
