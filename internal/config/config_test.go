package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        120 * time.Second,
			ShutDownTimeout:    5 * time.Second,
			RequestTimeout:     2 * time.Second,
			CORSAllowedOrigins: "*",
		},
		Data: DataConfig{
			Dir:            "/tmp/quillpad",
			PrefsFilePath:  "/tmp/quillpad/preferences.json",
			AutosaveQuiet:  500 * time.Millisecond,
			PrefsDebounce:  200 * time.Millisecond,
			DefaultDocName: "Untitled.md",
		},
		Misc: MiscConfig{
			LogLevel: "info",
			GinMode:  "release",
		},
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"empty data dir", func(c *Config) { c.Data.Dir = "" }},
		{"empty prefs path", func(c *Config) { c.Data.PrefsFilePath = "" }},
		{"zero autosave quiet", func(c *Config) { c.Data.AutosaveQuiet = 0 }},
		{"negative prefs debounce", func(c *Config) { c.Data.PrefsDebounce = -time.Second }},
		{"empty default doc name", func(c *Config) { c.Data.DefaultDocName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Data.AutosaveQuiet != 500*time.Millisecond {
		t.Errorf("expected default autosave quiet 500ms, got %v", cfg.Data.AutosaveQuiet)
	}
	if cfg.Data.DefaultDocName != "Untitled.md" {
		t.Errorf("expected default doc name Untitled.md, got %q", cfg.Data.DefaultDocName)
	}
	if cfg.Misc.GinMode != "release" {
		t.Errorf("expected default gin mode release, got %q", cfg.Misc.GinMode)
	}
}
