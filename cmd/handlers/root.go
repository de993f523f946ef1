package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"marketscout/internal/config"
	"marketscout/internal/logger"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marketscout",
		Short: "Gather and analyze market intelligence for a research query",
		Long: `Marketscout - Market Research Pipeline

Plans web searches for a free-text research query, gathers and scores
sources, and derives structured market-intelligence signals.

Pipeline stages:
  • Plan: derive focused search terms (language model with deterministic fallback)
  • Gather: paced, retried searches across primary and secondary terms
  • Analyze: dedup, credibility weighting, topic clusters, sentiment
  • Synthesize: trends, risks and recommendations with a confidence score

Examples:
  # Run a research query
  marketscout research "EV battery market"

  # Emit the full analysis as JSON
  marketscout research "EV battery market" --format json`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .marketscout.yaml)")

	rootCmd.AddCommand(NewResearchCmd())

	cobra.OnInitialize(initConfig)

	return rootCmd
}

// initConfig reads in config file and ENV variables
func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
		// Don't exit - allow running with just environment variables
		return
	}
	if cfg.App.Debug {
		logger.SetLevel("debug")
	} else if cfg.App.LogLevel != "" {
		logger.SetLevel(cfg.App.LogLevel)
	}
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
