package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DriverLog    = "log"
	DriverSQLite = "sqlite"
)

type Models struct {
	Quality string `json:"quality" yaml:"quality"`
	Fast    string `json:"fast" yaml:"fast"`
}

type Server struct {
	Addr           string   `json:"addr" yaml:"addr"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
	// SessionIdleMinutes evicts sessions not used for this long; 0 keeps them forever.
	SessionIdleMinutes int `json:"session_idle_minutes" yaml:"session_idle_minutes"`
}

type History struct {
	Keep int `json:"keep" yaml:"keep"`
}

type Directory struct {
	File string `json:"file" yaml:"file"`
}

type Submission struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

type Config struct {
	APIKey      string     `json:"api_key" yaml:"api_key"`
	BaseURL     string     `json:"base_url" yaml:"base_url"`
	Models      Models     `json:"models" yaml:"models"`
	Temperature float32    `json:"temperature" yaml:"temperature"`
	Language    string     `json:"language" yaml:"language"`
	Persona     string     `json:"persona" yaml:"persona"`
	LogLevel    string     `json:"log_level" yaml:"log_level"`
	Server      Server     `json:"server" yaml:"server"`
	History     History    `json:"history" yaml:"history"`
	Directory   Directory  `json:"directory" yaml:"directory"`
	Submission  Submission `json:"submission" yaml:"submission"`
}

func Default() *Config {
	return &Config{
		Models: Models{
			Quality: "gpt-4o",
			Fast:    "gpt-4o-mini",
		},
		Temperature: 0.7,
		Language:    "English",
		Persona:     "Camila",
		LogLevel:    "info",
		Server: Server{
			Addr:               ":8000",
			AllowedOrigins:     []string{"http://localhost:3000"},
			SessionIdleMinutes: 120,
		},
		History:    History{Keep: 10},
		Submission: Submission{Driver: DriverLog},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path uses defaults and environment only.
func Load(path string) (*Config, error) {
	conf := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			err = sonic.Unmarshal(data, conf)
		default:
			err = yaml.Unmarshal(data, conf)
		}
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	conf.applyEnv()
	return conf, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("CALLTAKER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: api_key is required", ErrInvalidConfig)
	}
	if c.Models.Quality == "" || c.Models.Fast == "" {
		return fmt.Errorf("%w: models.quality and models.fast are required", ErrInvalidConfig)
	}
	if !slices.Contains([]string{DriverLog, DriverSQLite}, c.Submission.Driver) {
		return fmt.Errorf("%w: unknown submission driver %q", ErrInvalidConfig, c.Submission.Driver)
	}
	if c.Submission.Driver == DriverSQLite && c.Submission.DSN == "" {
		return fmt.Errorf("%w: submission.dsn is required for sqlite", ErrInvalidConfig)
	}
	if c.History.Keep < 5 {
		return fmt.Errorf("%w: history.keep must be at least 5", ErrInvalidConfig)
	}
	if c.Server.SessionIdleMinutes < 0 {
		return fmt.Errorf("%w: server.session_idle_minutes must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	return level, nil
}
