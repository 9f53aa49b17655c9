package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins string
}

// DataConfig holds document and preference storage settings.
type DataConfig struct {
	// Dir is the local application-storage directory. Autosave fallback
	// copies land here when a document has no save target yet.
	Dir            string
	PrefsFilePath  string
	AutosaveQuiet  time.Duration
	PrefsDebounce  time.Duration
	DefaultDocName string
}

// MiscConfig holds everything else.
type MiscConfig struct {
	LogLevel string
	GinMode  string
}

// Config is the full application configuration.
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Misc   MiscConfig
}

// LoadConfig reads configuration from ./config/config.yaml (optional) with
// QUILLPAD_* environment variables overriding file values.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")

	// Defaults to allow running without config file
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 10*time.Second)
	viper.SetDefault("server.idle_timeout", 120*time.Second)
	viper.SetDefault("server.shutdown_timeout", 5*time.Second)
	viper.SetDefault("server.request_timeout", 2*time.Second)
	viper.SetDefault("server.cors_allowed_origins", "*")
	viper.SetDefault("data.dir", "./data")
	viper.SetDefault("data.prefs_file_path", "./data/preferences.json")
	viper.SetDefault("data.autosave_quiet", 500*time.Millisecond)
	viper.SetDefault("data.prefs_debounce", 200*time.Millisecond)
	viper.SetDefault("data.default_doc_name", "Untitled.md")
	viper.SetDefault("misc.log_level", "info")
	viper.SetDefault("misc.gin_mode", "release")

	// Environment variables automatically override config file values,
	// e.g. QUILLPAD_SERVER_PORT overrides server.port.
	viper.AutomaticEnv()
	viper.SetEnvPrefix("QUILLPAD")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               viper.GetInt("server.port"),
			ReadTimeout:        viper.GetDuration("server.read_timeout"),
			WriteTimeout:       viper.GetDuration("server.write_timeout"),
			IdleTimeout:        viper.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    viper.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     viper.GetDuration("server.request_timeout"),
			CORSAllowedOrigins: viper.GetString("server.cors_allowed_origins"),
		},
		Data: DataConfig{
			Dir:            viper.GetString("data.dir"),
			PrefsFilePath:  viper.GetString("data.prefs_file_path"),
			AutosaveQuiet:  viper.GetDuration("data.autosave_quiet"),
			PrefsDebounce:  viper.GetDuration("data.prefs_debounce"),
			DefaultDocName: viper.GetString("data.default_doc_name"),
		},
		Misc: MiscConfig{
			LogLevel: viper.GetString("misc.log_level"),
			GinMode:  viper.GetString("misc.gin_mode"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Data.Dir == "" {
		return errors.New("data dir is required")
	}
	if c.Data.PrefsFilePath == "" {
		return errors.New("preferences file path is required")
	}
	if c.Data.AutosaveQuiet <= 0 {
		return fmt.Errorf("autosave quiet period must be positive, got %v", c.Data.AutosaveQuiet)
	}
	if c.Data.PrefsDebounce <= 0 {
		return fmt.Errorf("prefs debounce must be positive, got %v", c.Data.PrefsDebounce)
	}
	if c.Data.DefaultDocName == "" {
		return errors.New("default document name is required")
	}
	return nil
}
