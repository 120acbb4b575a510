// Package config assembles the run configuration from environment
// variables and the optional retailer tuning file. The result is an
// explicit value handed to the pipeline; nothing here is a process-wide
// singleton.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingOutputDir     = errors.New("output dir is required")
	ErrInvalidMaxAttempts   = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidBackoff       = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidPageSize      = errors.New("page_size must be non-negative")
	ErrInvalidMaxProducts   = errors.New("max_products must be non-negative")
	ErrInvalidDelay         = errors.New("delay_ms and jitter_ms must be non-negative")
	ErrSFTPPartialConfig    = errors.New("sftp host, user and password must be set together")
	ErrReportPartialConfig  = errors.New("report from/to addresses must be set together")
	ErrUnknownRetailerEntry = errors.New("retailer entry has empty name")
)

// Config is the full run configuration.
type Config struct {
	OutputDir string

	// Optional sinks; empty values disable the corresponding step.
	MongoURI      string
	MongoDatabase string
	SFTP          SFTPConfig
	AWSRegion     string
	AWSBucket     string

	// Run-report email (SendGrid).
	SendGridAPIKey  string
	ReportFromEmail string
	ReportToEmail   string

	// Browser escalation for HTML scrapers.
	ChromeDriverPath string
	SessionCookies   string

	// Per-retailer tuning loaded from scraper.yaml.
	Retailers map[string]RetailerConfig
}

// SFTPConfig describes the optional catalog upload target.
type SFTPConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	RemoteDir string
}

// Enabled reports whether SFTP upload is configured at all.
func (s SFTPConfig) Enabled() bool {
	return s.Host != ""
}

// RetryConfig mirrors the shared retry policy in file form.
type RetryConfig struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
}

// RetailerConfig tunes one retailer's pagination loop.
type RetailerConfig struct {
	Country     string      `yaml:"country"`
	PageSize    int         `yaml:"page_size"`
	MaxProducts int         `yaml:"max_products"`
	DelayMs     int         `yaml:"delay_ms"`
	JitterMs    int         `yaml:"jitter_ms"`
	Retry       RetryConfig `yaml:"retry"`
}

// Delay returns the courtesy delay between page fetches.
func (rc RetailerConfig) Delay() time.Duration {
	return time.Duration(rc.DelayMs) * time.Millisecond
}

// JitterMax returns the upper bound of the randomized delay component.
func (rc RetailerConfig) JitterMax() time.Duration {
	return time.Duration(rc.JitterMs) * time.Millisecond
}

type retailerFile struct {
	Retailers map[string]RetailerConfig `yaml:"retailers"`
}

// Load reads .env (when present), the environment, and the optional
// retailer tuning file.
func Load(retailerFilePath string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		OutputDir:     envOr("OUTPUT_DIR", "output"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: envOr("MONGO_DATABASE", "catalogs"),
		SFTP: SFTPConfig{
			Host:      os.Getenv("SFTP_HOST"),
			Port:      envOr("SFTP_PORT", "22"),
			User:      os.Getenv("SFTP_USER"),
			Password:  os.Getenv("SFTP_PASSWORD"),
			RemoteDir: envOr("SFTP_REMOTE_DIR", "catalogs"),
		},
		AWSRegion:        envOr("AWS_REGION", "us-east-1"),
		AWSBucket:        os.Getenv("AWS_BUCKET_NAME"),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		ReportFromEmail:  os.Getenv("REPORT_FROM_EMAIL"),
		ReportToEmail:    os.Getenv("REPORT_TO_EMAIL"),
		ChromeDriverPath: os.Getenv("CHROMEDRIVER_PATH"),
		SessionCookies:   os.Getenv("SESSION_COOKIES"),
		Retailers:        map[string]RetailerConfig{},
	}

	if retailerFilePath != "" {
		if err := cfg.loadRetailerFile(retailerFilePath); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadRetailerFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// Tuning file is optional; defaults apply
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read retailer config: %w", err)
	}

	var file retailerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse retailer config: %w", err)
	}
	if file.Retailers != nil {
		c.Retailers = file.Retailers
	}
	return nil
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return ErrMissingOutputDir
	}

	if (c.SFTP.Host == "") != (c.SFTP.User == "") || (c.SFTP.Host == "") != (c.SFTP.Password == "") {
		return ErrSFTPPartialConfig
	}

	if (c.ReportFromEmail == "") != (c.ReportToEmail == "") {
		return ErrReportPartialConfig
	}

	for name, rc := range c.Retailers {
		if name == "" {
			return ErrUnknownRetailerEntry
		}
		if rc.PageSize < 0 {
			return fmt.Errorf("%w: retailer %s", ErrInvalidPageSize, name)
		}
		if rc.MaxProducts < 0 {
			return fmt.Errorf("%w: retailer %s", ErrInvalidMaxProducts, name)
		}
		if rc.DelayMs < 0 || rc.JitterMs < 0 {
			return fmt.Errorf("%w: retailer %s", ErrInvalidDelay, name)
		}
		if rc.Retry != (RetryConfig{}) {
			if rc.Retry.MaxAttempts < 1 {
				return fmt.Errorf("%w: retailer %s", ErrInvalidMaxAttempts, name)
			}
			if rc.Retry.BackoffMultiplier < 1.0 {
				return fmt.Errorf("%w: retailer %s", ErrInvalidBackoff, name)
			}
		}
	}

	return nil
}

// Retailer returns the tuning entry for a retailer, or zero defaults.
func (c *Config) Retailer(name string) RetailerConfig {
	return c.Retailers[name]
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
