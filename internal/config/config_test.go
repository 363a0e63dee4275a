// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q, want gemini-2.5-flash", cfg.Gemini.Model)
	}
	if cfg.Gemini.Temperature != 0.3 {
		t.Errorf("Temperature = %g, want 0.3", cfg.Gemini.Temperature)
	}
	if cfg.Processing.MinTextChars != 50 {
		t.Errorf("MinTextChars = %d, want 50", cfg.Processing.MinTextChars)
	}
	if cfg.Processing.MaxBatchWorkers != 4 {
		t.Errorf("MaxBatchWorkers = %d, want 4", cfg.Processing.MaxBatchWorkers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Gemini.Model = "" }},
		{"negative temperature", func(c *Config) { c.Gemini.Temperature = -0.1 }},
		{"temperature too high", func(c *Config) { c.Gemini.Temperature = 2.5 }},
		{"bad base url", func(c *Config) { c.Gemini.BaseURL = "not-a-url" }},
		{"zero workers", func(c *Config) { c.Processing.MaxBatchWorkers = 0 }},
		{"bad theme", func(c *Config) { c.UI.Theme = "rainbow" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should have failed")
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DOCUCHAT_MODEL", "gemini-test-model")

	cfg := Default()
	cfg.Gemini.APIKey = "file-key"
	cfg.ApplyEnvOverrides()

	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("APIKey = %q, env must win over file", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-test-model" {
		t.Errorf("Model = %q, want env override", cfg.Gemini.Model)
	}
}

func TestHasAPIKey(t *testing.T) {
	cfg := Default()
	if cfg.HasAPIKey() {
		t.Error("HasAPIKey should be false with empty key")
	}
	cfg.Gemini.APIKey = "k"
	if !cfg.HasAPIKey() {
		t.Error("HasAPIKey should be true with a key set")
	}
}

func TestSetDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Gemini.Model == "" {
		t.Error("SetDefaults should fill model")
	}
	if cfg.Processing.MinTextChars != 50 {
		t.Errorf("MinTextChars = %d, want 50", cfg.Processing.MinTextChars)
	}
	if cfg.UI.WordWrap != 80 {
		t.Errorf("WordWrap = %d, want 80", cfg.UI.WordWrap)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[gemini]
model = "gemini-2.0-flash"
temperature = 0.7

[processing]
min_text_chars = 100
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q, want file value", cfg.Gemini.Model)
	}
	if cfg.Gemini.Temperature != 0.7 {
		t.Errorf("Temperature = %g, want 0.7", cfg.Gemini.Temperature)
	}
	if cfg.Processing.MinTextChars != 100 {
		t.Errorf("MinTextChars = %d, want 100", cfg.Processing.MinTextChars)
	}
	// Unset fields come from defaults.
	if cfg.Processing.MaxBatchWorkers != 4 {
		t.Errorf("MaxBatchWorkers = %d, want default 4", cfg.Processing.MaxBatchWorkers)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Gemini.Model = "gemini-saved"
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Gemini.Model != "gemini-saved" {
		t.Errorf("Model = %q after reload, want gemini-saved", loaded.Gemini.Model)
	}
}

func TestStringRedactsAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Gemini.APIKey = "super-secret"

	s := cfg.String()
	if strings.Contains(s, "super-secret") {
		t.Error("String() must not expose the API key")
	}
	if !strings.Contains(s, "[REDACTED]") {
		t.Error("String() should mark the key as redacted")
	}
}
