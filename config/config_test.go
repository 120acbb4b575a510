package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		OutputDir: "output",
		Retailers: map[string]RetailerConfig{},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "minimal config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing output dir",
			mutate:  func(c *Config) { c.OutputDir = "" },
			wantErr: ErrMissingOutputDir,
		},
		{
			name: "sftp host without credentials",
			mutate: func(c *Config) {
				c.SFTP.Host = "sftp.example.com"
			},
			wantErr: ErrSFTPPartialConfig,
		},
		{
			name: "complete sftp config",
			mutate: func(c *Config) {
				c.SFTP = SFTPConfig{Host: "sftp.example.com", User: "feeds", Password: "secret"}
			},
		},
		{
			name: "report from without to",
			mutate: func(c *Config) {
				c.ReportFromEmail = "runs@example.com"
			},
			wantErr: ErrReportPartialConfig,
		},
		{
			name: "negative page size",
			mutate: func(c *Config) {
				c.Retailers["nike"] = RetailerConfig{PageSize: -1}
			},
			wantErr: ErrInvalidPageSize,
		},
		{
			name: "negative delay",
			mutate: func(c *Config) {
				c.Retailers["zara"] = RetailerConfig{DelayMs: -100}
			},
			wantErr: ErrInvalidDelay,
		},
		{
			name: "retry with zero attempts",
			mutate: func(c *Config) {
				c.Retailers["hm"] = RetailerConfig{Retry: RetryConfig{MaxAttempts: 0, BackoffMultiplier: 2}}
			},
			wantErr: ErrInvalidMaxAttempts,
		},
		{
			name: "retry with shrinking backoff",
			mutate: func(c *Config) {
				c.Retailers["hm"] = RetailerConfig{Retry: RetryConfig{MaxAttempts: 3, BackoffMultiplier: 0.5}}
			},
			wantErr: ErrInvalidBackoff,
		},
		{
			name: "zero retry block is allowed",
			mutate: func(c *Config) {
				c.Retailers["hm"] = RetailerConfig{PageSize: 36}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRetailerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	content := `
retailers:
  nike:
    country: US
    page_size: 60
    max_products: 500
    delay_ms: 1000
    jitter_ms: 500
    retry:
      max_attempts: 4
      initial_delay_ms: 500
      max_delay_ms: 10000
      backoff_multiplier: 2.0
  partstown:
    country: US
    page_size: 100
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig()
	if err := cfg.loadRetailerFile(path); err != nil {
		t.Fatalf("loadRetailerFile() error: %v", err)
	}

	nike := cfg.Retailer("nike")
	if nike.PageSize != 60 {
		t.Errorf("nike page_size = %d, want 60", nike.PageSize)
	}
	if nike.MaxProducts != 500 {
		t.Errorf("nike max_products = %d, want 500", nike.MaxProducts)
	}
	if got := nike.Delay(); got != time.Second {
		t.Errorf("nike Delay() = %v, want 1s", got)
	}
	if got := nike.JitterMax(); got != 500*time.Millisecond {
		t.Errorf("nike JitterMax() = %v, want 500ms", got)
	}
	if nike.Retry.MaxAttempts != 4 {
		t.Errorf("nike retry max_attempts = %d, want 4", nike.Retry.MaxAttempts)
	}

	if cfg.Retailer("partstown").PageSize != 100 {
		t.Errorf("partstown page_size = %d, want 100", cfg.Retailer("partstown").PageSize)
	}
}

func TestLoadRetailerFileMissingIsOptional(t *testing.T) {
	cfg := validConfig()
	if err := cfg.loadRetailerFile(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing tuning file should not error, got: %v", err)
	}
	if len(cfg.Retailers) != 0 {
		t.Errorf("expected no retailer entries, got %d", len(cfg.Retailers))
	}
}

func TestLoadRetailerFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	if err := os.WriteFile(path, []byte("retailers: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig()
	if err := cfg.loadRetailerFile(path); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}

func TestRetailerDefaultsToZeroValue(t *testing.T) {
	cfg := validConfig()
	rc := cfg.Retailer("unknown")
	if rc.PageSize != 0 || rc.MaxProducts != 0 || rc.Delay() != 0 {
		t.Errorf("unknown retailer should yield zero tuning, got %+v", rc)
	}
}
