package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CaptureConfig holds the capture session settings.
type CaptureConfig struct {
	Interface        string `yaml:"interface"`
	SnapshotInterval string `yaml:"snapshot_interval"`
	SavePath         string `yaml:"save_path"`
}

// ResolverConfig bounds the host resolution pool.
type ResolverConfig struct {
	Workers       int    `yaml:"workers"`
	LookupTimeout string `yaml:"lookup_timeout"`
}

// MmdbConfig points at the optional MaxMind databases.
type MmdbConfig struct {
	CountryPath string `yaml:"country_path"`
	AsnPath     string `yaml:"asn_path"`
}

// APIConfig holds the HTTP API settings.
type APIConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// NATSConfig holds the traffic update publisher settings.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// ClickHouseConfig holds the snapshot writer settings.
type ClickHouseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Capture    CaptureConfig    `yaml:"capture"`
	Resolver   ResolverConfig   `yaml:"resolver"`
	Mmdb       MmdbConfig       `yaml:"mmdb"`
	API        APIConfig        `yaml:"api"`
	NATS       NATSConfig       `yaml:"nats"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}

// SnapshotIntervalDuration parses the capture emission cadence,
// defaulting to one second.
func (c *CaptureConfig) SnapshotIntervalDuration() time.Duration {
	return parseDuration(c.SnapshotInterval, time.Second)
}

// LookupTimeoutDuration parses the reverse DNS timeout, defaulting to
// four seconds.
func (c *ResolverConfig) LookupTimeoutDuration() time.Duration {
	return parseDuration(c.LookupTimeout, 4*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
