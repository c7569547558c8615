package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the F1 data scraper.
type Config struct {
	// Upstream API settings
	API APIConfig `yaml:"api" json:"api"`

	// Retry and backoff policy
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Year range to fetch, inclusive on both ends
	Years YearsConfig `yaml:"years" json:"years"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds settings for the upstream motorsport statistics API.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url" json:"base_url"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	BatchSize    int           `yaml:"batch_size" json:"batch_size"`
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay"`
}

// RetryConfig holds the retry budget and backoff delays.
type RetryConfig struct {
	// MaxAttempts is the total request budget per fetch, first try included.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`
	// BaseDelay seeds the rate-limit backoff and is the fixed delay for
	// other transient failures.
	BaseDelay time.Duration `yaml:"base_delay" json:"base_delay"`
	// MaxDelay caps the rate-limit backoff.
	MaxDelay time.Duration `yaml:"max_delay" json:"max_delay"`
}

// OutputConfig holds output directory configuration.
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// YearsConfig holds the season range to fetch.
type YearsConfig struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "https://api.jolpi.ca/ergast/f1",
			UserAgent:    "f1scraper/1.0 (+https://github.com/f1scraper)",
			Timeout:      60 * time.Second,
			BatchSize:    1000,
			RequestDelay: 2 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 5,
			BaseDelay:   2 * time.Second,
			MaxDelay:    5 * time.Minute,
		},
		Output: OutputConfig{
			Directory: "f1_data",
		},
		Years: YearsConfig{
			Start: 2024,
			End:   2024,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("F1SCRAPER_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if outputDir := os.Getenv("F1SCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if batch := os.Getenv("F1SCRAPER_BATCH_SIZE"); batch != "" {
		if val, err := strconv.Atoi(batch); err == nil && val > 0 {
			c.API.BatchSize = val
		}
	}
	if start := os.Getenv("F1SCRAPER_START_YEAR"); start != "" {
		if val, err := strconv.Atoi(start); err == nil {
			c.Years.Start = val
		}
	}
	if end := os.Getenv("F1SCRAPER_END_YEAR"); end != "" {
		if val, err := strconv.Atoi(end); err == nil {
			c.Years.End = val
		}
	}
	if logLevel := os.Getenv("F1SCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".f1scraper.yaml",
		".f1scraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "f1scraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "f1scraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".f1scraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.API.BatchSize <= 0 {
		errs = append(errs, errors.New("pagination batch size must be positive"))
	}
	if c.API.RequestDelay < 0 {
		errs = append(errs, errors.New("request delay cannot be negative"))
	}

	if c.Retry.MaxAttempts <= 0 {
		errs = append(errs, errors.New("retry budget must be positive"))
	}
	if c.Retry.BaseDelay <= 0 {
		errs = append(errs, errors.New("base backoff delay must be positive"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	if c.Years.Start <= 0 || c.Years.End <= 0 {
		errs = append(errs, errors.New("year range must be positive"))
	}
	if c.Years.Start > c.Years.End {
		errs = append(errs, errors.New("start year cannot be after end year"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if batch, ok := flags["batch-size"].(int); ok && batch > 0 {
		c.API.BatchSize = batch
	}
	if start, ok := flags["start-year"].(int); ok && start > 0 {
		c.Years.Start = start
	}
	if end, ok := flags["end-year"].(int); ok && end > 0 {
		c.Years.End = end
	}
	if retries, ok := flags["max-attempts"].(int); ok && retries > 0 {
		c.Retry.MaxAttempts = retries
	}
	if delay, ok := flags["request-delay"].(time.Duration); ok && delay >= 0 {
		c.API.RequestDelay = delay
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: command line flags > environment variables > .env
// file > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".f1scraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
