// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Courage-7/DocumentScrapper/internal/classes"
	"github.com/Courage-7/DocumentScrapper/internal/discover"
	"github.com/Courage-7/DocumentScrapper/internal/download"
	"github.com/Courage-7/DocumentScrapper/internal/pipeline"
	"github.com/Courage-7/DocumentScrapper/internal/report"
	"github.com/Courage-7/DocumentScrapper/internal/storage"
	"github.com/Courage-7/DocumentScrapper/internal/validate"
	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

const (
	defaultSearchTimeout  = 20 * time.Second
	defaultUserAgent      = "docscraper/0.1"
	defaultDataDir        = "data"
	defaultReportsDir     = "data/reports"
	defaultReportFormat   = report.FormatTable
	defaultRunConcurrency = 5
)

var acquireCmd = &cobra.Command{
	Use:   "acquire <class-id>",
	Short: "Run the acquisition pipeline for one document class",
	Long: `Acquire discovers candidate documents for the named class through the
search provider, downloads them with bounded concurrency, runs each stored
artifact through the class's validator chain, and prints the run report.

The command exits non-zero when the run aborts (cancellation or a fatal
search failure before anything was discovered). Individual document failures
are recorded in the report and do not fail the command.`,
	Args: cobra.ExactArgs(1),
	RunE: runAcquire,
}

func init() {
	acquireCmd.Flags().Int("limit", 0, "override the class's document limit for this run")
	acquireCmd.Flags().Duration("deadline", 0, "bound the whole run (0 means no deadline)")
	acquireCmd.Flags().Int("concurrency", defaultRunConcurrency, "maximum simultaneous downloads")
	acquireCmd.Flags().String("format", defaultReportFormat, "report output: table, text, or json")
	acquireCmd.Flags().Bool("no-save", false, "skip persisting the report to the run history")
	acquireCmd.Flags().String("data-dir", defaultDataDir, "base directory for stored artifacts")
	acquireCmd.Flags().String("reports-dir", defaultReportsDir, "directory holding the run history database")

	rootCmd.AddCommand(acquireCmd)
}

func runAcquire(cmd *cobra.Command, args []string) error {
	classesFile, _ := cmd.Flags().GetString("classes-file")
	registry, err := classes.Load(classesFile)
	if err != nil {
		return fmt.Errorf("loading document classes: %w", err)
	}
	class, ok := registry.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown document class %q (run 'docscraper classes' to list them)", args[0])
	}

	limit, _ := cmd.Flags().GetInt("limit")
	deadline, _ := cmd.Flags().GetDuration("deadline")
	noSave, _ := cmd.Flags().GetBool("no-save")

	// Flags set explicitly win over config file values.
	cfg := pipelineConfig()
	if cmd.Flags().Changed("concurrency") {
		cfg.Download.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	if cmd.Flags().Changed("data-dir") || cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("reports-dir") || cfg.Report.ReportsDir == "" {
		cfg.Report.ReportsDir, _ = cmd.Flags().GetString("reports-dir")
	}
	format, _ := cmd.Flags().GetString("format")
	if !cmd.Flags().Changed("format") && cfg.Report.Format != "" {
		format = cfg.Report.Format
	}
	if cfg.Search.APIKey == "" {
		return errors.New("no search API key configured (set .secrets/search-api-key or FIRECRAWL_API_KEY)")
	}

	gateway := discover.NewGateway(
		discover.NewSearchClient(&http.Client{Timeout: cfg.Search.Timeout}, cfg.Search),
		cfg.Search, log)
	// The download client carries no global timeout; each attempt is bounded
	// by its own context.
	coordinator := download.NewCoordinator(&http.Client{}, storage.NewFSStore(cfg.Storage.DataDir), cfg.Download, log)
	engine := validate.NewEngine(validate.NewRegistry(), cfg.Validation, log)
	orchestrator := pipeline.New(gateway, coordinator, engine, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, runErr := orchestrator.Run(ctx, class, pipeline.RunOptions{
		LimitOverride: limit,
		Deadline:      deadline,
	})

	if err := report.Render(format, rep, os.Stdout); err != nil {
		return err
	}

	if !noSave {
		store, err := report.NewStore(cfg.Report.ReportsDir)
		if err != nil {
			return fmt.Errorf("opening run history: %w", err)
		}
		defer store.Close()
		// Save with a fresh context: the run context may already be cancelled.
		if err := store.Save(context.Background(), rep); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
		log.Info("report saved", "run_id", rep.RunID)
	}

	return runErr
}

// pipelineConfig assembles the stage configuration from the config file and
// environment. Zero values defer to each stage's own defaults.
func pipelineConfig() types.PipelineConfig {
	userAgent := viper.GetString("http.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   durationOr("search.timeout", defaultSearchTimeout),
				UserAgent: userAgent,
			},
			BaseURL:          viper.GetString("search.base_url"),
			APIKey:           searchAPIKey(),
			PageSize:         viper.GetInt("search.page_size"),
			MaxAttempts:      viper.GetInt("search.max_attempts"),
			BackoffBase:      viper.GetDuration("search.backoff_base"),
			QueriesPerSecond: viper.GetFloat64("search.queries_per_second"),
		},
		Download: types.DownloadConfig{
			HTTPConfig:     types.HTTPConfig{UserAgent: userAgent},
			Concurrency:    viper.GetInt("download.concurrency"),
			MaxAttempts:    viper.GetInt("download.max_attempts"),
			RetryDelay:     viper.GetDuration("download.retry_delay"),
			AttemptTimeout: viper.GetDuration("download.attempt_timeout"),
			GracePeriod:    viper.GetDuration("download.grace_period"),
		},
		Validation: types.ValidationConfig{
			Parallelism:      viper.GetInt("validation.parallelism"),
			MaxArtifactBytes: viper.GetInt64("validation.max_artifact_bytes"),
		},
		Storage: types.StorageConfig{DataDir: viper.GetString("storage.data_dir")},
		Report: types.ReportConfig{
			ReportsDir: viper.GetString("report.reports_dir"),
			Format:     viper.GetString("report.format"),
		},
	}
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}
