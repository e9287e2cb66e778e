// Package config loads leadbook settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/leadbook/internal/contact"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	EnvConfigPath = "LEADBOOK_CONFIG"
	EnvDBPath     = "LEADBOOK_DB"
	EnvLogLevel   = "LEADBOOK_LOG_LEVEL"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Notes    NotesConfig    `toml:"notes"`
	Contact  ContactConfig  `toml:"contact"`
	Log      LogConfig      `toml:"log"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type NotesConfig struct {
	SaveLatencyMS int `toml:"save_latency_ms"`
}

type ContactConfig struct {
	Region   string `toml:"region"`
	Greeting string `toml:"greeting"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// SaveLatency is the simulated note save delay.
func (n NotesConfig) SaveLatency() time.Duration {
	return time.Duration(n.SaveLatencyMS) * time.Millisecond
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{Path: dbPath},
		Notes:    NotesConfig{SaveLatencyMS: 1500},
		Contact: ContactConfig{
			Region:   "IR",
			Greeting: contact.DefaultGreeting,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load decodes the TOML file at path over defaults. A missing or empty file
// leaves the defaults untouched.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path is required")
	}
	if c.Notes.SaveLatencyMS < 0 {
		return fmt.Errorf("notes.save_latency_ms must be >= 0, got %d", c.Notes.SaveLatencyMS)
	}
	if len(strings.TrimSpace(c.Contact.Region)) != 2 {
		return fmt.Errorf("contact.region must be a two-letter region code: %q", c.Contact.Region)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	return nil
}

// Resolve builds the effective configuration: .env in the working directory,
// then the config file, then LEADBOOK_DB and LEADBOOK_LOG_LEVEL overrides.
func Resolve() (Config, error) {
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".leadbook")

	path := strings.TrimSpace(os.Getenv(EnvConfigPath))
	if path == "" {
		path = filepath.Join(baseDir, "config.toml")
	}

	cfg, err := Load(path, Default(filepath.Join(baseDir, "leadbook.db")))
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		cfg.Database.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
}
