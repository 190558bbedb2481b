// Package cli implements the provision command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aqasim81/reservation-provisioner/internal/config"
	"github.com/aqasim81/reservation-provisioner/internal/logging"
)

const version = "0.1.0"

// AppConfig holds the loaded configuration, set during PersistentPreRunE.
var AppConfig *config.Config //nolint:gochecknoglobals // standard Cobra pattern for shared config

// AppLogger receives progress lines; built from AppConfig during PersistentPreRunE.
var AppLogger *slog.Logger //nolint:gochecknoglobals // standard Cobra pattern for shared logger

// rootCmd is the base command for the provision CLI.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:     "provision",
	Version: version,
	Short:   "Apply the reservation-system schema to a PostgreSQL database",
	Long: `provision applies an ordered list of SQL schema statements to a database,
one at a time. A statement that fails is recorded and the run moves on, so a
partially provisioned database can be brought up to date by running it again.
Without a schema path the built-in reservation schema is used.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.PersistentFlags().String("config", config.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().String("database-url", "", "database connection string")
	rootCmd.PersistentFlags().String("driver", "", "database driver (postgres, sqlite, rpc)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (pretty, json, text)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration with precedence: flag > env > file.
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.Load(configPath, allowMissing)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if err := config.MergeEnv(cfg); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	mergeFlags(cmd, cfg)

	l, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	AppConfig = cfg
	AppLogger = l

	return nil
}

// mergeFlags overrides config with explicitly-set CLI flags.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := []struct {
		name string
		dst  *string
	}{
		{"database-url", &cfg.DatabaseURL},
		{"driver", &cfg.Driver},
		{"log-format", &cfg.LogFormat},
		{"log-level", &cfg.LogLevel},
	}

	for _, f := range flags {
		if cmd.Flags().Changed(f.name) {
			*f.dst, _ = cmd.Flags().GetString(f.name)
		}
	}
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return logging.New(cmd.ErrOrStderr(), format, level), nil
}

// logger returns AppLogger, or a discarding logger when commands run
// without PersistentPreRunE (tests).
func logger() *slog.Logger {
	if AppLogger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return AppLogger
}
