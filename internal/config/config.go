// Package config loads process configuration from environment variables,
// an optional YAML overlay, and a local .env file in development, in that
// precedence order (lowest to highest): built-in defaults, YAML file,
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full set of tunables the ingest and query services read at
// startup.
type Config struct {
	ArchiveBaseURL string   `yaml:"archive_base_url"`
	StoreRegion    string   `yaml:"store_region"`
	MailWorkers    int      `yaml:"mail_workers"`
	DBWorkers      int      `yaml:"db_workers"`
	ThrottleSleep  float64  `yaml:"throttle_sleep"`
	ListenAddr     string   `yaml:"listen_addr"`
	Lists          []string `yaml:"lists"`
}

// Default returns the configuration baseline before any overlay is applied.
func Default() Config {
	return Config{
		ArchiveBaseURL: "https://mail.openjdk.org/pipermail",
		StoreRegion:    "us-west-1",
		MailWorkers:    20,
		DBWorkers:      10,
		ThrottleSleep:  1.5,
		ListenAddr:     ":8080",
		Lists:          DefaultRoster(),
	}
}

// Load builds a Config by starting from Default, applying yamlPath (if
// non-empty and present on disk), loading a .env file from the working
// directory if one exists, then overlaying recognized environment
// variables.
func Load(yamlPath string) (Config, error) {
	cfg := Default()

	if yamlPath != "" {
		if data, err := os.ReadFile(yamlPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", yamlPath, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: read %s: %w", yamlPath, err)
		}
	}

	_ = godotenv.Load() // optional; absent .env in production is not an error

	if v := os.Getenv("ARCHIVE_BASE_URL"); v != "" {
		cfg.ArchiveBaseURL = v
	}
	if v := os.Getenv("STORE_REGION"); v != "" {
		cfg.StoreRegion = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("MAIL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MailWorkers = n
		}
	}
	if v := os.Getenv("DB_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DBWorkers = n
		}
	}
	if v := os.Getenv("THROTTLE_SLEEP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ThrottleSleep = f
		}
	}

	return cfg, nil
}
