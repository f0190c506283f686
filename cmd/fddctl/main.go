// Package main provides the fddctl entrypoint: a single binary that
// can run one document through the pipeline or serve it over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/fdd-pipeline/internal/config"
	"github.com/spherical-ai/fdd-pipeline/internal/observability"
)

var (
	cfgFile    string
	outputJSON bool
	noColor    bool

	cfg    *config.Config
	logger *observability.Logger
	ui     *UI
)

var rootCmd = &cobra.Command{
	Use:   "fddctl",
	Short: "fddctl ingests Franchise Disclosure Documents into structured extractions",
	Long: `fddctl parses FDD PDFs, detects and segments their disclosure items,
and runs per-item extraction against a fallback chain of local and hosted
models.

Use this tool to:
- Run one document end to end and inspect its per-item results
- Serve the pipeline over HTTP for programmatic submission`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logFormat := cfg.Observability.Format
		if outputJSON {
			logFormat = "json"
		}
		logger = observability.New(observability.LogConfig{
			Level:       cfg.Observability.Level,
			Format:      logFormat,
			ServiceName: "fddctl",
		})

		ui = NewUI(outputJSON, noColor || !IsTerminal())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults + env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
