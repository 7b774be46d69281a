package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mynotes/internal/config"
	"mynotes/internal/logger"
)

var (
	configFile string
	logLevel   string

	cfg *config.AppConfig
	log *slog.Logger
)

// rootCmd runs the API server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:           "mynotes",
	Short:         "Personal notes backend with automatic labelling",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := os.Setenv("CONFIG_FILE", configFile); err != nil {
				return err
			}
		}

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}

		cfg = loaded
		log = logger.New(os.Stdout, cfg.LogLevel, cfg.Location())
		slog.SetDefault(log)
		return nil
	},
	RunE: runServe,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.Error("command failed", logger.Err(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}
