// Package config resolves build settings from INTERNACIA_* environment
// variables. Flags take precedence over the environment; the
// environment takes precedence over the built-in defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvDataDir points at the corpus root holding countries/,
	// intblocks/ and datasets/blocktypes.yaml.
	EnvDataDir = "INTERNACIA_DATA_DIR"
	// EnvOutDir names the artifact output directory.
	EnvOutDir = "INTERNACIA_OUT_DIR"
	// EnvSchemasDir overrides the embedded schema registry.
	EnvSchemasDir = "INTERNACIA_SCHEMAS_DIR"
	// EnvLogLevel sets the log threshold: debug, info, warn or error.
	EnvLogLevel = "INTERNACIA_LOG_LEVEL"
	// EnvFormats is a comma-separated emit format selection.
	EnvFormats = "INTERNACIA_FORMATS"
)

// Config carries the resolved settings.
type Config struct {
	DataDir    string
	OutDir     string
	SchemasDir string
	LogLevel   slog.Level
	Formats    []string
}

// FromEnv reads the environment on top of the defaults. An unreadable
// log level is the only way this can fail.
func FromEnv() (Config, error) {
	cfg := Config{
		DataDir:  "data",
		OutDir:   "dist",
		LogLevel: slog.LevelInfo,
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvOutDir); v != "" {
		cfg.OutDir = v
	}
	if v := os.Getenv(EnvSchemasDir); v != "" {
		cfg.SchemasDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	if v := os.Getenv(EnvFormats); v != "" {
		cfg.Formats = SplitList(v)
	}
	return cfg, nil
}

// CountriesDir is the country tree under the data root.
func (c Config) CountriesDir() string { return filepath.Join(c.DataDir, "countries") }

// IntblocksDir is the categorized block tree under the data root.
func (c Config) IntblocksDir() string { return filepath.Join(c.DataDir, "intblocks") }

// BlocktypesFile is the block type vocabulary under the data root.
func (c Config) BlocktypesFile() string {
	return filepath.Join(c.DataDir, "datasets", "blocktypes.yaml")
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return 0, fmt.Errorf("log level %q: expected debug, info, warn or error", s)
	}
	return level, nil
}

// SplitList splits a comma-separated value, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
