// Package config loads pacer settings from defaults, an optional YAML file,
// a .env file and PACER_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ohare93/pacer/internal/logging"
)

const (
	configName = "config"
	envPrefix  = "PACER"
)

// Config is the full application configuration.
type Config struct {
	DataDir string         `mapstructure:"data_dir" validate:"required"`
	Storage StorageConfig  `mapstructure:"storage"`
	LLM     LLMConfig      `mapstructure:"llm"`
	Intake  IntakeConfig   `mapstructure:"intake"`
	Server  ServerConfig   `mapstructure:"server"`
	Log     logging.Config `mapstructure:"log"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend    string `mapstructure:"backend" validate:"oneof=json sqlite"`
	SQLiteFile string `mapstructure:"sqlite_file" validate:"required"`
}

// LLMConfig configures the optional checklist model.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=openai ollama anthropic gemini none"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// IntakeConfig tunes project creation.
type IntakeConfig struct {
	DefaultSpanDays int `mapstructure:"default_span_days" validate:"min=1,max=365"`
}

// ServerConfig configures `pacer serve`.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Options control where Load looks.
type Options struct {
	// File is an explicit config path; empty searches the default locations.
	File string
	// DotEnv loads ./.env into the process environment first.
	DotEnv bool
}

var validate = validator.New()

// Load builds the configuration.
func Load(opts Options) (*Config, error) {
	if opts.DotEnv {
		// A missing .env file is fine.
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pacer"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyProviderEnv(&cfg.LLM)
	if cfg.Storage.SQLiteFile != "" && !filepath.IsAbs(cfg.Storage.SQLiteFile) {
		cfg.Storage.SQLiteFile = filepath.Join(cfg.DataDir, cfg.Storage.SQLiteFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration without reading any source.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	cfg.Storage.SQLiteFile = filepath.Join(cfg.DataDir, cfg.Storage.SQLiteFile)
	return &cfg
}

// Validate checks the populated configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("storage.backend", "json")
	v.SetDefault("storage.sqlite_file", "pacer.db")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "8s")
	v.SetDefault("intake.default_span_days", 7)
	v.SetDefault("server.addr", "127.0.0.1:8765")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pacer"
	}
	return filepath.Join(home, ".pacer")
}

// applyProviderEnv fills credentials from the provider's conventional
// environment variables when the config leaves them empty.
func applyProviderEnv(c *LLMConfig) {
	if c.APIKey == "" {
		switch c.Provider {
		case "openai":
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "gemini":
			c.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
		}
	}
	if c.BaseURL == "" && c.Provider == "ollama" {
		if host := os.Getenv("OLLAMA_HOST"); host != "" {
			if !strings.Contains(host, "://") {
				host = "http://" + host
			}
			c.BaseURL = host
		}
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
