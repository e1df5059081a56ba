// Package config loads and validates the console configuration from YAML
// files and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Schema        SchemaConfig        `yaml:"schema"`
	Render        RenderConfig        `yaml:"render"`
	Submit        SubmitConfig        `yaml:"submit"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig describes HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	HandlerTimeout  time.Duration `yaml:"handler_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SchemaConfig describes where command overlays are loaded from.
type SchemaConfig struct {
	OverlayDir string `yaml:"overlay_dir"`
}

// RenderConfig describes HTML rendering settings.
type RenderConfig struct {
	TemplatesDir string   `yaml:"templates_dir"`
	AssetPrefix  string   `yaml:"asset_prefix"`
	Suggestions  []string `yaml:"suggestions"`
	SubmitLabel  string   `yaml:"submit_label"`
}

// SubmitConfig describes how posted forms are decoded.
type SubmitConfig struct {
	SealedFields  []string `yaml:"sealed_fields"`
	MaxMemory     int64    `yaml:"max_memory"`
	ValidateFiles bool     `yaml:"validate_files"`
}

// ObservabilityConfig describes logging settings.
type ObservabilityConfig struct {
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			HandlerTimeout:  25 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Render: RenderConfig{
			AssetPrefix: "/assets/",
			Suggestions: []string{"evm", "ikhofi", "noop", "remote"},
			SubmitLabel: "Submit",
		},
		Submit: SubmitConfig{
			SealedFields:  []string{"privkey", "sec"},
			MaxMemory:     8 << 20,
			ValidateFiles: true,
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
		},
	}
}

// Load reads a YAML config file, applies environment variable overrides and
// validates the result. An empty path skips the file and uses defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, "server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.HandlerTimeout < 0 {
		errs = append(errs, "server timeouts must not be negative")
	}
	if !strings.HasPrefix(c.Render.AssetPrefix, "/") {
		errs = append(errs, "render.asset_prefix must start with /")
	}
	if c.Submit.MaxMemory <= 0 {
		errs = append(errs, "submit.max_memory must be positive")
	}
	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "observability.log_level must be one of debug, info, warn, error")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// applyEnvOverrides reads CMDFORM_* environment variables and overrides
// config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CMDFORM_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CMDFORM_SCHEMA_OVERLAY_DIR"); v != "" {
		cfg.Schema.OverlayDir = v
	}
	if v := os.Getenv("CMDFORM_RENDER_TEMPLATES_DIR"); v != "" {
		cfg.Render.TemplatesDir = v
	}
	if v := os.Getenv("CMDFORM_RENDER_ASSET_PREFIX"); v != "" {
		cfg.Render.AssetPrefix = v
	}
	if v := os.Getenv("CMDFORM_SUBMIT_SEALED_FIELDS"); v != "" {
		cfg.Submit.SealedFields = splitList(v)
	}
	if v := os.Getenv("CMDFORM_SUBMIT_VALIDATE_FILES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Submit.ValidateFiles = b
		}
	}
	if v := os.Getenv("CMDFORM_OBSERVABILITY_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
