// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// docuchat.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.docuchat/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/docuchat/docuchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docuchat configuration.
type Config struct {
	Version string `toml:"version"`

	// Gemini backend configuration
	Gemini GeminiConfig `toml:"gemini"`

	// Document processing configuration
	Processing ProcessingConfig `toml:"processing"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging"`
}

// GeminiConfig contains the Gemini API configuration.
type GeminiConfig struct {
	// APIKey is the Gemini API key. Usually supplied via the
	// GEMINI_API_KEY environment variable, which takes precedence.
	APIKey string `toml:"api_key"`
	// Model is the Gemini model identifier.
	Model string `toml:"model"`
	// Temperature controls response randomness (0.0-2.0).
	Temperature float64 `toml:"temperature"`
	// BaseURL is the API endpoint, overridable for testing.
	BaseURL string `toml:"base_url"`
	// ConnectTimeoutSecs bounds non-streaming requests.
	// Streaming requests carry no timeout; responses can run long.
	ConnectTimeoutSecs int `toml:"connect_timeout_secs"`
}

// ProcessingConfig contains PDF processing configuration.
type ProcessingConfig struct {
	// MinTextChars is the minimum trimmed text length for a PDF to be
	// accepted. Shorter documents are rejected as likely scanned images.
	MinTextChars int `toml:"min_text_chars"`
	// MaxBatchWorkers bounds parallel file processing.
	MaxBatchWorkers int `toml:"max_batch_workers"`
	// ThumbnailWidth is the pixel width previews are downscaled to.
	ThumbnailWidth int `toml:"thumbnail_width"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowTokens displays the aggregate token estimate in the sidebar.
	ShowTokens bool `toml:"show_tokens"`
	// WordWrap is the rendering width for markdown responses.
	WordWrap int `toml:"word_wrap"`
}

// LoggingConfig contains file-logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `toml:"level"`
	// Path is the log file location (empty = default ~/.docuchat/docuchat.log).
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Gemini: GeminiConfig{
			APIKey:             "",
			Model:              "gemini-2.5-flash",
			Temperature:        0.3,
			BaseURL:            "https://generativelanguage.googleapis.com",
			ConnectTimeoutSecs: 30,
		},

		Processing: ProcessingConfig{
			MinTextChars:    50,
			MaxBatchWorkers: 4,
			ThumbnailWidth:  300,
		},

		UI: UIConfig{
			Theme:      "dark",
			ShowTokens: true,
			WordWrap:   80,
		},

		Logging: LoggingConfig{
			Level: "info",
			Path:  "",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the docuchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".docuchat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the effective log file path for the given config.
func (c *Config) LogPath() string {
	if c.Logging.Path != "" {
		return c.Logging.Path
	}
	dir, err := ConfigDir()
	if err != nil {
		return "docuchat.log"
	}
	return filepath.Join(dir, "docuchat.log")
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults.
// Environment overrides are applied last, then the result is validated.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	// Best effort; permissions might not be fixable on all systems.
	_ = ensureSecurePermissions(path)

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Used by tests and the --config flag.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# docuchat configuration file\n")
	buf.WriteString("# Generated by docuchat - edit with care\n")
	buf.WriteString("\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
// The API key is deliberately not validated here; its absence is a
// runtime state the application surfaces in the UI, not a config error.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Gemini.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "gemini.model",
			Message: "model must not be empty",
		})
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "gemini.temperature",
			Message: fmt.Sprintf("must be between 0.0 and 2.0, got %g", c.Gemini.Temperature),
		})
	}
	if !strings.HasPrefix(c.Gemini.BaseURL, "http://") && !strings.HasPrefix(c.Gemini.BaseURL, "https://") {
		errs = append(errs, ValidationError{
			Field:   "gemini.base_url",
			Message: fmt.Sprintf("invalid URL '%s'", c.Gemini.BaseURL),
		})
	}

	if c.Processing.MinTextChars < 0 {
		errs = append(errs, ValidationError{
			Field:   "processing.min_text_chars",
			Message: "must be non-negative",
		})
	}
	if c.Processing.MaxBatchWorkers < 1 || c.Processing.MaxBatchWorkers > 64 {
		errs = append(errs, ValidationError{
			Field:   "processing.max_batch_workers",
			Message: fmt.Sprintf("must be 1-64, got %d", c.Processing.MaxBatchWorkers),
		})
	}
	if c.Processing.ThumbnailWidth < 16 || c.Processing.ThumbnailWidth > 2048 {
		errs = append(errs, ValidationError{
			Field:   "processing.thumbnail_width",
			Message: fmt.Sprintf("must be 16-2048, got %d", c.Processing.ThumbnailWidth),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = defaults.Gemini.Model
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaults.Gemini.BaseURL
	}
	if c.Gemini.ConnectTimeoutSecs == 0 {
		c.Gemini.ConnectTimeoutSecs = defaults.Gemini.ConnectTimeoutSecs
	}

	if c.Processing.MinTextChars == 0 {
		c.Processing.MinTextChars = defaults.Processing.MinTextChars
	}
	if c.Processing.MaxBatchWorkers == 0 {
		c.Processing.MaxBatchWorkers = defaults.Processing.MaxBatchWorkers
	}
	if c.Processing.ThumbnailWidth == 0 {
		c.Processing.ThumbnailWidth = defaults.Processing.ThumbnailWidth
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = defaults.UI.WordWrap
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - GEMINI_API_KEY: overrides gemini.api_key (the standard credential path)
//   - DOCUCHAT_MODEL: overrides gemini.model
//   - DOCUCHAT_BASE_URL: overrides gemini.base_url
//   - DOCUCHAT_LOG_LEVEL: overrides logging.level
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("DOCUCHAT_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if baseURL := os.Getenv("DOCUCHAT_BASE_URL"); baseURL != "" {
		c.Gemini.BaseURL = baseURL
	}
	if level := os.Getenv("DOCUCHAT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// HasAPIKey reports whether a Gemini credential is configured.
func (c *Config) HasAPIKey() bool {
	return c.Gemini.APIKey != ""
}

// String returns a string representation of the config for debugging.
// SECURITY: Redacts the API key to prevent accidental exposure in logs.
func (c *Config) String() string {
	safe := *c
	if safe.Gemini.APIKey != "" {
		safe.Gemini.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Fall back to pure defaults; validation errors surface later
			// through the UI, never on stderr (the TUI owns the terminal).
			cfg = Default()
			cfg.ApplyEnvOverrides()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
