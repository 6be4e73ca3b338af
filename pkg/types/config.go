package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "docscraper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the discovery stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the search provider endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates against the search provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// PageSize is the number of results requested per provider query (default 10).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxAttempts bounds retries of one provider query on transient
	// failures (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// BackoffBase is the first exponential backoff delay between retries
	// (default 500ms). Subsequent delays double, with jitter.
	BackoffBase time.Duration `json:"backoff_base" yaml:"backoff_base"`

	// QueriesPerSecond paces outbound provider queries. Zero disables pacing.
	QueriesPerSecond float64 `json:"queries_per_second" yaml:"queries_per_second"`
}

// DownloadConfig holds settings for the download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// Concurrency is the maximum number of simultaneous in-flight
	// downloads (default 5).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// MaxAttempts bounds fetch attempts per document (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// RetryDelay is the linear backoff step between attempts (default 1s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// AttemptTimeout bounds a single fetch attempt (default 30s).
	AttemptTimeout time.Duration `json:"attempt_timeout" yaml:"attempt_timeout"`

	// GracePeriod is how long in-flight downloads may drain after the run
	// deadline expires (default 10s).
	GracePeriod time.Duration `json:"grace_period" yaml:"grace_period"`
}

// ValidationConfig holds settings for the validation stage.
type ValidationConfig struct {
	// Parallelism bounds concurrent artifact validations (default 2).
	Parallelism int `json:"parallelism" yaml:"parallelism"`

	// MaxArtifactBytes is the default upper size bound applied by the
	// size validator when a chain does not override it (default 10 MiB).
	MaxArtifactBytes int64 `json:"max_artifact_bytes" yaml:"max_artifact_bytes"`
}

// StorageConfig holds settings for the artifact store.
type StorageConfig struct {
	// DataDir is the base directory for stored artifacts
	// (contains raw_docs/<class_id>/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ReportConfig holds settings for report persistence and rendering.
type ReportConfig struct {
	// ReportsDir is the directory holding the run history database.
	ReportsDir string `json:"reports_dir" yaml:"reports_dir"`

	// Format selects the default rendering: table, text, or json.
	Format string `json:"format" yaml:"format"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Download   DownloadConfig   `json:"download" yaml:"download"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Report     ReportConfig     `json:"report" yaml:"report"`
}
