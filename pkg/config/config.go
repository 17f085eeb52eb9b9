package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the player scraper
type Config struct {
	// Listing source
	Source SourceConfig `yaml:"source" json:"source"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Asset download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SourceConfig describes the paginated listing
type SourceConfig struct {
	ListingURL  string `yaml:"listing_url" json:"listing_url"`
	SiteRoot    string `yaml:"site_root" json:"site_root"`
	TotalPages  int    `yaml:"total_pages" json:"total_pages"`
	UserAgent   string `yaml:"user_agent" json:"user_agent"`
	PageRetries int    `yaml:"page_retries" json:"page_retries"`
}

// RateLimitConfig holds the minimum spacing between two network calls
type RateLimitConfig struct {
	Interval time.Duration `yaml:"interval" json:"interval"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	RetryCeiling int           `yaml:"retry_ceiling" json:"retry_ceiling"`
	Workers      int           `yaml:"workers" json:"workers"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory    string `yaml:"base_directory" json:"base_directory"`
	PlaceholderPhoto string `yaml:"placeholder_photo" json:"placeholder_photo"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with the reference crawl settings
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			ListingURL:  "https://www.fifaindex.com/fr/players/",
			SiteRoot:    "https://www.fifaindex.com",
			TotalPages:  5,
			UserAgent:   "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			PageRetries: 0,
		},
		RateLimit: RateLimitConfig{
			Interval: 600 * time.Millisecond,
		},
		Download: DownloadConfig{
			Timeout:      15 * time.Second,
			RetryCeiling: 10,
			Workers:      1,
		},
		Output: OutputConfig{
			BaseDirectory:    ".",
			PlaceholderPhoto: "none.png",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv("FIFASCRAPER_LISTING_URL"); v != "" {
		c.Source.ListingURL = v
	}
	if v := os.Getenv("FIFASCRAPER_SITE_ROOT"); v != "" {
		c.Source.SiteRoot = v
	}
	if v := os.Getenv("FIFASCRAPER_USER_AGENT"); v != "" {
		c.Source.UserAgent = v
	}
	if v := os.Getenv("FIFASCRAPER_TOTAL_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("FIFASCRAPER_TOTAL_PAGES: %w", err))
		} else {
			c.Source.TotalPages = n
		}
	}
	if v := os.Getenv("FIFASCRAPER_RATE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("FIFASCRAPER_RATE_INTERVAL: %w", err))
		} else {
			c.RateLimit.Interval = d
		}
	}
	if v := os.Getenv("FIFASCRAPER_DOWNLOAD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("FIFASCRAPER_DOWNLOAD_TIMEOUT: %w", err))
		} else {
			c.Download.Timeout = d
		}
	}
	if v := os.Getenv("FIFASCRAPER_RETRY_CEILING"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("FIFASCRAPER_RETRY_CEILING: %w", err))
		} else {
			c.Download.RetryCeiling = n
		}
	}
	if v := os.Getenv("FIFASCRAPER_OUTPUT_DIR"); v != "" {
		c.Output.BaseDirectory = v
	}
	if v := os.Getenv("FIFASCRAPER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FIFASCRAPER_LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
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

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".fifascraper.yaml",
		".fifascraper.yml",
		filepath.Join(home, ".config", "fifascraper", "config.yaml"),
		filepath.Join(home, ".config", "fifascraper", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if _, err := url.ParseRequestURI(c.Source.ListingURL); err != nil {
		errs = append(errs, fmt.Errorf("listing URL is invalid: %w", err))
	}
	if _, err := url.ParseRequestURI(c.Source.SiteRoot); err != nil {
		errs = append(errs, fmt.Errorf("site root is invalid: %w", err))
	}
	if c.Source.TotalPages <= 0 {
		errs = append(errs, errors.New("total pages must be positive"))
	}
	if c.Source.PageRetries < 0 {
		errs = append(errs, errors.New("page retries cannot be negative"))
	}

	if c.RateLimit.Interval < 0 {
		errs = append(errs, errors.New("rate limit interval cannot be negative"))
	}

	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.RetryCeiling <= 0 {
		errs = append(errs, errors.New("retry ceiling must be positive"))
	}
	if c.Download.Workers <= 0 {
		errs = append(errs, errors.New("download workers must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.PlaceholderPhoto == "" || strings.ContainsAny(c.Output.PlaceholderPhoto, `/\`) {
		errs = append(errs, errors.New("placeholder photo must be a bare file name"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map override the loaded values.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if pages, ok := flags["total-pages"].(int); ok && pages > 0 {
		c.Source.TotalPages = pages
	}
	if retries, ok := flags["page-retries"].(int); ok && retries >= 0 {
		c.Source.PageRetries = retries
	}
	if interval, ok := flags["interval"].(time.Duration); ok && interval >= 0 {
		c.RateLimit.Interval = interval
	}
	if timeout, ok := flags["download-timeout"].(time.Duration); ok && timeout > 0 {
		c.Download.Timeout = timeout
	}
	if ceiling, ok := flags["retry-ceiling"].(int); ok && ceiling > 0 {
		c.Download.RetryCeiling = ceiling
	}
	if workers, ok := flags["workers"].(int); ok && workers > 0 {
		c.Download.Workers = workers
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".fifascraper.env"))

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
