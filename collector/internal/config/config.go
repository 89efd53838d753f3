package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fieldlink/fieldlink/pkg/logging"
)

// Default values for the collector configuration.
const (
	DefaultListenAddr  = ":10001"
	DefaultImageDir    = "images"
	DefaultDBPath      = "fieldlink.db"
	DefaultMaxUploadMB = 8
)

// Config holds the collector-side configuration parsed from the
// `collector:` section of the config file.
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
}

// CollectorConfig holds all collector settings.
type CollectorConfig struct {
	// ListenAddr is the HTTP listen address (default ":10001").
	ListenAddr string `yaml:"listen_addr"`

	// MaxUploadMB caps the accepted request body size in MiB.
	MaxUploadMB int `yaml:"max_upload_mb"`

	Storage StorageConfig  `yaml:"storage"`
	Log     logging.Config `yaml:"log"`
}

// StorageConfig configures where received artifacts land.
type StorageConfig struct {
	// ImageDir is the directory that receives JPEG frames, one file per
	// upload with a timestamped name.
	ImageDir string `yaml:"image_dir"`

	// DBPath is the SQLite database file holding the GPS fix log.
	DBPath string `yaml:"db_path"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Collector: CollectorConfig{
			ListenAddr:  DefaultListenAddr,
			MaxUploadMB: DefaultMaxUploadMB,
			Storage: StorageConfig{
				ImageDir: DefaultImageDir,
				DBPath:   DefaultDBPath,
			},
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	c := cfg.Collector

	if c.ListenAddr == "" {
		return fmt.Errorf("collector.listen_addr is required")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("collector.max_upload_mb must be positive")
	}
	if c.Storage.ImageDir == "" {
		return fmt.Errorf("collector.storage.image_dir is required")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("collector.storage.db_path is required")
	}
	return nil
}
