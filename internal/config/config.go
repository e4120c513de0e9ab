// Package config loads service settings from an optional TOML file and
// CANVAS_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tfcanvas/canvas/internal/importer"
)

type Config struct {
	HTTPAddr string `toml:"http_addr"` // CANVAS_HTTP_ADDR (default ":8080")
	NATSURL  string `toml:"nats_url"`  // CANVAS_NATS_URL (optional, empty = no events)

	Log    Log    `toml:"log"`
	Schema Schema `toml:"schema"`
	GitHub GitHub `toml:"github"`
	Graph  Graph  `toml:"graph"`
	Export Export `toml:"export"`
}

type Log struct {
	Level  string `toml:"level"`  // CANVAS_LOG_LEVEL (default "info")
	Format string `toml:"format"` // CANVAS_LOG_FORMAT (json|text, default "json")
}

// Schema selects where provider schema documents come from. Bucket takes
// precedence over Dir; with neither the built-in table is used.
type Schema struct {
	Dir        string `toml:"dir"`         // CANVAS_SCHEMA_DIR
	Version    string `toml:"version"`     // CANVAS_SCHEMA_VERSION (empty = latest)
	S3Bucket   string `toml:"s3_bucket"`   // CANVAS_SCHEMA_S3_BUCKET
	S3Prefix   string `toml:"s3_prefix"`   // CANVAS_SCHEMA_S3_PREFIX
	S3Region   string `toml:"s3_region"`   // CANVAS_SCHEMA_S3_REGION (default "us-east-1")
	S3Endpoint string `toml:"s3_endpoint"` // CANVAS_SCHEMA_S3_ENDPOINT (custom endpoint for MinIO)
}

type GitHub struct {
	APIURL  string   `toml:"api_url"` // CANVAS_GITHUB_API_URL
	Token   string   `toml:"token"`   // CANVAS_GITHUB_TOKEN (optional, empty = unauthenticated)
	Timeout Duration `toml:"timeout"` // CANVAS_GITHUB_TIMEOUT (default 30s)
}

type Graph struct {
	ConnectThreshold float64 `toml:"connect_threshold"` // CANVAS_CONNECT_THRESHOLD (default 30)
	GridColumns      int     `toml:"grid_columns"`      // CANVAS_GRID_COLUMNS (default 4)
}

type Export struct {
	Region          string `toml:"region"`           // CANVAS_EXPORT_REGION (default "us-east-1")
	ProviderVersion string `toml:"provider_version"` // CANVAS_EXPORT_PROVIDER_VERSION (default "~> 5.0")
	EmitTfvars      bool   `toml:"emit_tfvars"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		HTTPAddr: ":8080",
		Log:      Log{Level: "info", Format: "json"},
		Schema:   Schema{S3Region: "us-east-1"},
		GitHub:   GitHub{APIURL: importer.DefaultAPIURL, Timeout: Duration{30 * time.Second}},
		Graph:    Graph{ConnectThreshold: 30, GridColumns: 4},
		Export:   Export{Region: "us-east-1", ProviderVersion: "~> 5.0", EmitTfvars: true},
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	c.HTTPAddr = envOrDefault("CANVAS_HTTP_ADDR", c.HTTPAddr)
	c.NATSURL = envOrDefault("CANVAS_NATS_URL", c.NATSURL)
	c.Log.Level = envOrDefault("CANVAS_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOrDefault("CANVAS_LOG_FORMAT", c.Log.Format)
	c.Schema.Dir = envOrDefault("CANVAS_SCHEMA_DIR", c.Schema.Dir)
	c.Schema.Version = envOrDefault("CANVAS_SCHEMA_VERSION", c.Schema.Version)
	c.Schema.S3Bucket = envOrDefault("CANVAS_SCHEMA_S3_BUCKET", c.Schema.S3Bucket)
	c.Schema.S3Prefix = envOrDefault("CANVAS_SCHEMA_S3_PREFIX", c.Schema.S3Prefix)
	c.Schema.S3Region = envOrDefault("CANVAS_SCHEMA_S3_REGION", c.Schema.S3Region)
	c.Schema.S3Endpoint = envOrDefault("CANVAS_SCHEMA_S3_ENDPOINT", c.Schema.S3Endpoint)
	c.GitHub.APIURL = envOrDefault("CANVAS_GITHUB_API_URL", c.GitHub.APIURL)
	c.GitHub.Token = envOrDefault("CANVAS_GITHUB_TOKEN", c.GitHub.Token)
	c.Export.Region = envOrDefault("CANVAS_EXPORT_REGION", c.Export.Region)
	c.Export.ProviderVersion = envOrDefault("CANVAS_EXPORT_PROVIDER_VERSION", c.Export.ProviderVersion)

	if v := os.Getenv("CANVAS_GITHUB_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CANVAS_GITHUB_TIMEOUT: %w", err)
		}
		c.GitHub.Timeout = Duration{d}
	}
	if v := os.Getenv("CANVAS_CONNECT_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CANVAS_CONNECT_THRESHOLD: %w", err)
		}
		c.Graph.ConnectThreshold = f
	}
	if v := os.Getenv("CANVAS_GRID_COLUMNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CANVAS_GRID_COLUMNS: %w", err)
		}
		c.Graph.GridColumns = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log format %q: must be json or text", c.Log.Format)
	}
	if c.HTTPAddr == "" {
		return errors.New("http address is required")
	}
	if c.Graph.ConnectThreshold <= 0 {
		return fmt.Errorf("connect threshold must be positive, got %v", c.Graph.ConnectThreshold)
	}
	if c.Graph.GridColumns <= 0 {
		return fmt.Errorf("grid columns must be positive, got %d", c.Graph.GridColumns)
	}
	if c.GitHub.Timeout.Duration <= 0 {
		return fmt.Errorf("github timeout must be positive, got %s", c.GitHub.Timeout)
	}
	if c.Export.Region == "" {
		return errors.New("export region is required")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
