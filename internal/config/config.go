// Package config loads and validates shipcheck configuration from the
// project's .shipcheck/config.yaml. A missing file yields defaults; a
// malformed file or degenerate values are errors, surfaced immediately
// rather than degraded silently.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harlan/shipcheck/internal/checklist"
)

// ToolDir is the per-project directory holding shipcheck's config,
// state, history, reports, and lock files.
const ToolDir = ".shipcheck"

// DefaultResumeWindow is how long an interrupted run stays resumable.
// A workflow abandoned for longer is treated as stale: the project may
// have changed underneath it and must be re-checked from scratch.
const DefaultResumeWindow = 24 * time.Hour

// Report format identifiers accepted by --report and report_format.
const (
	FormatConsole  = "console"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatMarkdown = "md"
)

// ScoringConfig holds the readiness scoring parameters.
type ScoringConfig struct {
	// Weights are the per-status point values for section scoring.
	Weights checklist.Weights `yaml:"weights"`

	// ReadyThreshold is the minimum overall score for readiness.
	ReadyThreshold int `yaml:"ready_threshold"`
}

// ChecksConfig toggles the built-in check providers.
type ChecksConfig struct {
	SEO         bool `yaml:"seo"`
	Assets      bool `yaml:"assets"`
	Security    bool `yaml:"security"`
	Performance bool `yaml:"performance"`
}

// OptimizeConfig controls the asset optimization step.
type OptimizeConfig struct {
	// Rewrite enables in-place trimming of text assets. Off by
	// default: the step then only reports the savings it found
	// without touching any file.
	Rewrite bool `yaml:"rewrite"`
}

// DeployConfig configures the optional deploy step, which shells out to
// an external deploy CLI.
type DeployConfig struct {
	// Enabled gates the deploy step. Even when enabled, deployment is
	// skipped unless the readiness check reported ready to launch.
	Enabled bool `yaml:"enabled"`

	// Command is the deploy CLI executable (e.g. "netlify").
	Command string `yaml:"command"`

	// Args are passed to the deploy CLI verbatim.
	Args []string `yaml:"args"`
}

// Config represents shipcheck configuration options.
type Config struct {
	// LogLevel sets logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// ReportFormat selects the default report rendering.
	ReportFormat string `yaml:"report_format"`

	// ResumeWindow bounds how old a persisted workflow state may be
	// and still be resumed.
	ResumeWindow time.Duration `yaml:"-"`

	Scoring  ScoringConfig  `yaml:"scoring"`
	Checks   ChecksConfig   `yaml:"checks"`
	Optimize OptimizeConfig `yaml:"optimize"`
	Deploy   DeployConfig   `yaml:"deploy"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		ReportFormat: FormatConsole,
		ResumeWindow: DefaultResumeWindow,
		Scoring: ScoringConfig{
			Weights:        checklist.DefaultWeights(),
			ReadyThreshold: checklist.DefaultReadyThreshold,
		},
		Checks: ChecksConfig{
			SEO:         true,
			Assets:      true,
			Security:    true,
			Performance: true,
		},
		Optimize: OptimizeConfig{
			Rewrite: false,
		},
		Deploy: DeployConfig{
			Enabled: false,
			Command: "netlify",
			Args:    []string{"deploy", "--prod"},
		},
	}
}

// yamlConfig mirrors Config for parsing. Durations are strings and
// default-true booleans are pointers so absence is distinguishable
// from an explicit false.
type yamlConfig struct {
	LogLevel     string `yaml:"log_level"`
	ReportFormat string `yaml:"report_format"`
	ResumeWindow string `yaml:"resume_window"`
	Scoring      struct {
		Weights        *checklist.Weights `yaml:"weights"`
		ReadyThreshold *int               `yaml:"ready_threshold"`
	} `yaml:"scoring"`
	Checks struct {
		SEO         *bool `yaml:"seo"`
		Assets      *bool `yaml:"assets"`
		Security    *bool `yaml:"security"`
		Performance *bool `yaml:"performance"`
	} `yaml:"checks"`
	Optimize struct {
		Rewrite *bool `yaml:"rewrite"`
	} `yaml:"optimize"`
	Deploy struct {
		Enabled *bool    `yaml:"enabled"`
		Command string   `yaml:"command"`
		Args    []string `yaml:"args"`
	} `yaml:"deploy"`
}

// LoadConfig loads configuration from the specified file path. If the
// file doesn't exist, it returns default configuration without error.
// If the file exists but is malformed, it returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.ReportFormat != "" {
		cfg.ReportFormat = yamlCfg.ReportFormat
	}
	if yamlCfg.ResumeWindow != "" {
		window, err := time.ParseDuration(yamlCfg.ResumeWindow)
		if err != nil {
			return nil, fmt.Errorf("invalid resume_window %q: %w", yamlCfg.ResumeWindow, err)
		}
		cfg.ResumeWindow = window
	}
	if yamlCfg.Scoring.Weights != nil {
		cfg.Scoring.Weights = *yamlCfg.Scoring.Weights
	}
	if yamlCfg.Scoring.ReadyThreshold != nil {
		cfg.Scoring.ReadyThreshold = *yamlCfg.Scoring.ReadyThreshold
	}
	if yamlCfg.Checks.SEO != nil {
		cfg.Checks.SEO = *yamlCfg.Checks.SEO
	}
	if yamlCfg.Checks.Assets != nil {
		cfg.Checks.Assets = *yamlCfg.Checks.Assets
	}
	if yamlCfg.Checks.Security != nil {
		cfg.Checks.Security = *yamlCfg.Checks.Security
	}
	if yamlCfg.Checks.Performance != nil {
		cfg.Checks.Performance = *yamlCfg.Checks.Performance
	}
	if yamlCfg.Optimize.Rewrite != nil {
		cfg.Optimize.Rewrite = *yamlCfg.Optimize.Rewrite
	}
	if yamlCfg.Deploy.Enabled != nil {
		cfg.Deploy.Enabled = *yamlCfg.Deploy.Enabled
	}
	if yamlCfg.Deploy.Command != "" {
		cfg.Deploy.Command = yamlCfg.Deploy.Command
	}
	if yamlCfg.Deploy.Args != nil {
		cfg.Deploy.Args = yamlCfg.Deploy.Args
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from the conventional location
// under the given project root.
func LoadConfigFromDir(projectRoot string) (*Config, error) {
	return LoadConfig(filepath.Join(projectRoot, ToolDir, "config.yaml"))
}

// MergeWithFlags overrides config values with explicitly set CLI flags.
// Nil pointers mean the flag was not set.
func (c *Config) MergeWithFlags(logLevel, reportFormat *string, deployEnabled *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if reportFormat != nil {
		c.ReportFormat = *reportFormat
	}
	if deployEnabled != nil {
		c.Deploy.Enabled = *deployEnabled
	}
}

// Validate rejects degenerate configuration. These indicate a miswired
// setup, not a runtime project condition, so they fail immediately.
func (c *Config) Validate() error {
	if err := c.Scoring.Weights.Validate(); err != nil {
		return err
	}
	if c.Scoring.ReadyThreshold < 0 || c.Scoring.ReadyThreshold > 100 {
		return fmt.Errorf("ready_threshold %d out of range [0,100]", c.Scoring.ReadyThreshold)
	}
	if c.ResumeWindow <= 0 {
		return fmt.Errorf("resume_window must be positive, got %s", c.ResumeWindow)
	}
	switch c.ReportFormat {
	case FormatConsole, FormatHTML, FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("unknown report_format %q", c.ReportFormat)
	}
	if c.Deploy.Enabled && c.Deploy.Command == "" {
		return fmt.Errorf("deploy.command is required when deploy is enabled")
	}
	return nil
}

// Summary captures the run parameters recorded in the persisted
// workflow state for auditing.
func (c *Config) Summary() map[string]string {
	return map[string]string{
		"log_level":       c.LogLevel,
		"report_format":   c.ReportFormat,
		"resume_window":   c.ResumeWindow.String(),
		"ready_threshold": strconv.Itoa(c.Scoring.ReadyThreshold),
		"deploy_enabled":  strconv.FormatBool(c.Deploy.Enabled),
	}
}
