// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docscraper CLI. The CLI is thin
// glue: it loads configuration and secrets, wires the pipeline stages, and
// renders the resulting acquisition reports.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Courage-7/DocumentScrapper/internal/logger"
	"github.com/Courage-7/DocumentScrapper/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// log is built in the root PersistentPreRunE and shared by all commands.
var log logger.Interface = logger.NewNop()

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the docscraper CLI.
var rootCmd = &cobra.Command{
	Use:   "docscraper",
	Short: "Discover, download, and validate documents by class",
	Long: `docscraper turns a configured document class (search patterns, accepted
file types, validation rules) into a bounded set of verified, locally stored
documents plus a structured acquisition report.

The pipeline stages are discovery via a search provider, bounded-concurrency
download, and chained validation; each run finishes with a report that can be
rendered as a table, text, or JSON and is kept in the run history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		l, err := logger.New(level)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		log = l

		// .env is optional; environment wins over file values.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			log.Debug("loaded secrets", "count", len(s))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docscraper.yaml or ~/.config/docscraper/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("classes-file", "", "YAML file extending the built-in document class registry")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docscraper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docscraper"))
		}
	}

	viper.SetEnvPrefix("DOCSCRAPER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// searchAPIKey resolves the provider key: secrets directory first, then the
// config file / DOCSCRAPER_SEARCH_API_KEY, then the provider's own variable.
func searchAPIKey() string {
	if v, ok := loadedSecrets["search-api-key"]; ok {
		return v
	}
	if v := viper.GetString("search.api_key"); v != "" {
		return v
	}
	return os.Getenv("FIRECRAWL_API_KEY")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
