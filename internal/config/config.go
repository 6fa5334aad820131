// Package config loads inkflow configuration from YAML with documented
// defaults. The resolved Config is passed explicitly into the pipeline at
// construction time; nothing here is process-wide state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the config file location relative to the working
// directory.
const DefaultConfigPath = ".inkflow/config.yaml"

// Timeouts holds the per-stage attempt timeouts.
type Timeouts struct {
	Research time.Duration
	Write    time.Duration
	Evaluate time.Duration
	Social   time.Duration
	Storage  time.Duration
	Schedule time.Duration
}

// ModelSet names the model used by each agent.
type ModelSet struct {
	Research  string `yaml:"research"`
	Writer    string `yaml:"writer"`
	Evaluator string `yaml:"evaluator"`
	Social    string `yaml:"social"`
	Scheduler string `yaml:"scheduler"`
}

// Credentials holds provider secrets. Values left empty in the config file
// fall back to the corresponding environment variables.
type Credentials struct {
	OpenAIAPIKey     string `yaml:"openai_api_key"`
	OpenAIBaseURL    string `yaml:"openai_base_url"`
	TavilyAPIKey     string `yaml:"tavily_api_key"`
	NotionAPIKey     string `yaml:"notion_api_key"`
	NotionDatabaseID string `yaml:"notion_database_id"`
	CalendarToken    string `yaml:"calendar_token"`
	CalendarID       string `yaml:"calendar_id"`
}

// Config represents inkflow configuration options.
type Config struct {
	// LogLevel sets logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// OutputDir is where run artifacts (content, links) are written.
	OutputDir string `yaml:"output_dir"`

	// HistoryDBPath is the SQLite run archive location.
	HistoryDBPath string `yaml:"history_db"`

	// WritingSamplesPath points to the creator's writing samples used for
	// voice matching. A missing file is a warning, not an error.
	WritingSamplesPath string `yaml:"writing_samples"`

	// Timezone is the IANA zone used for scheduling decisions.
	Timezone string `yaml:"timezone"`

	// MaxRounds bounds the draft-evaluate loop.
	MaxRounds int `yaml:"max_rounds"`

	// MaxAttempts is the per-stage retry budget.
	MaxAttempts int `yaml:"max_attempts"`

	// BackoffBase is the exponential backoff unit between failed attempts.
	BackoffBase time.Duration `yaml:"-"`

	// ApprovalThreshold is the overall score at or above which a draft is
	// approved.
	ApprovalThreshold float64 `yaml:"approval_threshold"`

	// Timeouts are the per-stage attempt timeouts.
	Timeouts Timeouts `yaml:"-"`

	// Models names the model per agent.
	Models ModelSet `yaml:"models"`

	// Credentials holds provider secrets.
	Credentials Credentials `yaml:"credentials"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		OutputDir:          ".inkflow/output",
		HistoryDBPath:      ".inkflow/history.db",
		WritingSamplesPath: "writing_samples/creator_samples.txt",
		Timezone:           "Africa/Lagos",
		MaxRounds:          3,
		MaxAttempts:        3,
		BackoffBase:        time.Second,
		ApprovalThreshold:  7.0,
		Timeouts: Timeouts{
			Research: 180 * time.Second,
			Write:    150 * time.Second,
			Evaluate: 120 * time.Second,
			Social:   120 * time.Second,
			Storage:  120 * time.Second,
			Schedule: 120 * time.Second,
		},
		Models: ModelSet{
			Research:  "gpt-4o",
			Writer:    "gpt-4o",
			Evaluator: "gpt-4o",
			Social:    "gpt-4o",
			Scheduler: "gpt-4o-mini",
		},
	}
}

// yamlTimeouts mirrors Timeouts with duration strings for parsing.
type yamlTimeouts struct {
	Research string `yaml:"research"`
	Write    string `yaml:"write"`
	Evaluate string `yaml:"evaluate"`
	Social   string `yaml:"social"`
	Storage  string `yaml:"storage"`
	Schedule string `yaml:"schedule"`
}

type yamlConfig struct {
	LogLevel          string       `yaml:"log_level"`
	OutputDir         string       `yaml:"output_dir"`
	HistoryDB         string       `yaml:"history_db"`
	WritingSamples    string       `yaml:"writing_samples"`
	Timezone          string       `yaml:"timezone"`
	MaxRounds         int          `yaml:"max_rounds"`
	MaxAttempts       int          `yaml:"max_attempts"`
	BackoffBase       string       `yaml:"backoff_base"`
	ApprovalThreshold float64      `yaml:"approval_threshold"`
	Timeouts          yamlTimeouts `yaml:"timeouts"`
	Models            ModelSet     `yaml:"models"`
	Credentials       Credentials  `yaml:"credentials"`
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
// Missing credentials are resolved from the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.resolveEnvCredentials()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yc.LogLevel != "" {
		cfg.LogLevel = yc.LogLevel
	}
	if yc.OutputDir != "" {
		cfg.OutputDir = yc.OutputDir
	}
	if yc.HistoryDB != "" {
		cfg.HistoryDBPath = yc.HistoryDB
	}
	if yc.WritingSamples != "" {
		cfg.WritingSamplesPath = yc.WritingSamples
	}
	if yc.Timezone != "" {
		cfg.Timezone = yc.Timezone
	}
	if yc.MaxRounds > 0 {
		cfg.MaxRounds = yc.MaxRounds
	}
	if yc.MaxAttempts > 0 {
		cfg.MaxAttempts = yc.MaxAttempts
	}
	if yc.ApprovalThreshold > 0 {
		cfg.ApprovalThreshold = yc.ApprovalThreshold
	}
	if yc.BackoffBase != "" {
		d, err := time.ParseDuration(yc.BackoffBase)
		if err != nil {
			return nil, fmt.Errorf("invalid backoff_base %q: %w", yc.BackoffBase, err)
		}
		cfg.BackoffBase = d
	}

	if err := mergeTimeouts(&cfg.Timeouts, yc.Timeouts); err != nil {
		return nil, err
	}

	if yc.Models.Research != "" {
		cfg.Models.Research = yc.Models.Research
	}
	if yc.Models.Writer != "" {
		cfg.Models.Writer = yc.Models.Writer
	}
	if yc.Models.Evaluator != "" {
		cfg.Models.Evaluator = yc.Models.Evaluator
	}
	if yc.Models.Social != "" {
		cfg.Models.Social = yc.Models.Social
	}
	if yc.Models.Scheduler != "" {
		cfg.Models.Scheduler = yc.Models.Scheduler
	}

	cfg.Credentials = yc.Credentials
	cfg.resolveEnvCredentials()

	return cfg, nil
}

// LoadConfigFromDir loads configuration from DefaultConfigPath under dir.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultConfigPath))
}

func mergeTimeouts(dst *Timeouts, src yamlTimeouts) error {
	entries := []struct {
		name  string
		value string
		field *time.Duration
	}{
		{"research", src.Research, &dst.Research},
		{"write", src.Write, &dst.Write},
		{"evaluate", src.Evaluate, &dst.Evaluate},
		{"social", src.Social, &dst.Social},
		{"storage", src.Storage, &dst.Storage},
		{"schedule", src.Schedule, &dst.Schedule},
	}
	for _, e := range entries {
		if e.value == "" {
			continue
		}
		d, err := time.ParseDuration(e.value)
		if err != nil {
			return fmt.Errorf("invalid timeouts.%s %q: %w", e.name, e.value, err)
		}
		*e.field = d
	}
	return nil
}

// resolveEnvCredentials fills empty credential fields from the environment.
func (c *Config) resolveEnvCredentials() {
	fallback(&c.Credentials.OpenAIAPIKey, "OPENAI_API_KEY")
	fallback(&c.Credentials.OpenAIBaseURL, "OPENAI_BASE_URL")
	fallback(&c.Credentials.TavilyAPIKey, "TAVILY_API_KEY")
	fallback(&c.Credentials.NotionAPIKey, "NOTION_API_KEY")
	fallback(&c.Credentials.NotionDatabaseID, "NOTION_DATABASE_ID")
	fallback(&c.Credentials.CalendarToken, "GOOGLE_CALENDAR_TOKEN")
	fallback(&c.Credentials.CalendarID, "GOOGLE_CALENDAR_ID")
}

func fallback(dst *string, env string) {
	if *dst == "" {
		*dst = os.Getenv(env)
	}
}

// Validate checks config invariants that would otherwise surface mid-run.
func (c *Config) Validate() error {
	if c.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be at least 1, got %d", c.MaxRounds)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.ApprovalThreshold < 0 || c.ApprovalThreshold > 10 {
		return fmt.Errorf("approval_threshold must be within [0,10], got %v", c.ApprovalThreshold)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}
