// Package config loads the command line tool's settings from defaults, an
// optional cartomap.yaml and CARTOMAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/beetlebugorg/cartomap/internal/logging"
	"github.com/beetlebugorg/cartomap/pkg/naturalearth"
)

// Config holds all tool configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Data    DataConfig    `mapstructure:"data"`
	Render  RenderConfig  `mapstructure:"render"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DataConfig struct {
	CacheDir      string        `mapstructure:"cache_dir"`
	BaseURL       string        `mapstructure:"base_url"`
	CacheSizeMB   int64         `mapstructure:"cache_size_mb"`
	KeepExtracted bool          `mapstructure:"keep_extracted"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type RenderConfig struct {
	Width   int     `mapstructure:"width"`
	Height  int     `mapstructure:"height"`
	Margin  float64 `mapstructure:"margin"`
	Workers int     `mapstructure:"workers"`
}

type MetricsConfig struct {
	File string `mapstructure:"file"`
}

// Load reads configuration. path names an explicit config file; when empty
// cartomap.yaml is looked up in the working directory and the user config
// directory, and a missing file is not an error.
//
// Environment variables override the file: CARTOMAP_DATA_CACHE_DIR sets
// data.cache_dir.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("data.cache_dir", "")
	v.SetDefault("data.base_url", naturalearth.DefaultBaseURL)
	v.SetDefault("data.cache_size_mb", 256)
	v.SetDefault("data.keep_extracted", true)
	v.SetDefault("data.timeout", 2*time.Minute)
	v.SetDefault("render.width", 800)
	v.SetDefault("render.height", 600)
	v.SetDefault("render.margin", 10.0)
	v.SetDefault("render.workers", 4)
	v.SetDefault("metrics.file", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("cartomap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/cartomap")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CARTOMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, "log.level: "+err.Error())
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or console, got %q", c.Log.Format))
	}
	if c.Data.BaseURL == "" {
		errs = append(errs, "data.base_url is required")
	}
	if c.Data.CacheSizeMB <= 0 {
		errs = append(errs, fmt.Sprintf("data.cache_size_mb must be positive, got %d", c.Data.CacheSizeMB))
	}
	if c.Data.Timeout < 0 {
		errs = append(errs, "data.timeout must not be negative")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Sprintf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.Margin < 0 {
		errs = append(errs, "render.margin must not be negative")
	}
	if c.Render.Workers <= 0 {
		errs = append(errs, fmt.Sprintf("render.workers must be positive, got %d", c.Render.Workers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ProviderOptions converts the data settings into provider options.
func (c *Config) ProviderOptions() naturalearth.ProviderOptions {
	opts := naturalearth.DefaultProviderOptions()
	if c.Data.CacheDir != "" {
		opts.CacheDir = c.Data.CacheDir
	}
	opts.BaseURL = c.Data.BaseURL
	opts.CacheSize = c.Data.CacheSizeMB * 1024 * 1024
	opts.KeepExtracted = c.Data.KeepExtracted
	if c.Data.Timeout > 0 {
		opts.HTTPClient = &http.Client{Timeout: c.Data.Timeout}
	}
	return opts
}
