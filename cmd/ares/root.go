package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	areslog "github.com/jeamick/ares-visual-sub001/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for ares.
var rootCmd = &cobra.Command{
	Use:   "ares",
	Short: "Compile report definitions into dashboard pages",
	Long: `Ares is a dashboard compiler. It reads report definitions describing
datasets and widgets, compiles every widget's transform steps and chart
adapter into JavaScript, and writes a self-contained page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		areslog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(adaptersCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
