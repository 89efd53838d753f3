package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation settings applied when a log file is configured but the
// corresponding fields are zero.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 14
)

// Config holds the logging section shared by both binaries.
type Config struct {
	// Level is one of: debug | info | warn | error. Empty means info.
	Level string `yaml:"level"`

	// File is an optional log file path. When set, output goes to a
	// size-rotated file instead of stdout.
	File string `yaml:"file"`

	// Rotation settings — only used when File is set.
	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days"`
}

// Setup installs a JSON slog handler as the default logger and returns the
// LevelVar controlling its level, so the level can be changed at runtime
// without rebuilding the handler.
func Setup(cfg Config) (*slog.LevelVar, error) {
	level := new(slog.LevelVar)
	lv, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	level.Set(lv)

	var w io.Writer = os.Stdout
	if cfg.File != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: orDefault(cfg.MaxBackups, DefaultMaxBackups),
			MaxAge:     orDefault(cfg.MaxAgeDays, DefaultMaxAgeDays),
		}
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return level, nil
}

// ParseLevel maps a config string to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", s)
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
