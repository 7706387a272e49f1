package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all trackviz settings.
type Config struct {
	Render  RenderConfig  `mapstructure:"render" yaml:"render"`
	Basemap BasemapConfig `mapstructure:"basemap" yaml:"basemap"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

type RenderConfig struct {
	Width  int     `mapstructure:"width" yaml:"width" validate:"gte=16,lte=16384"`
	Height int     `mapstructure:"height" yaml:"height" validate:"gte=16,lte=16384"`
	Scale  float64 `mapstructure:"scale" yaml:"scale" validate:"gt=0"`
	Margin float64 `mapstructure:"margin" yaml:"margin" validate:"gte=0,lt=1"`
}

type BasemapConfig struct {
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint" validate:"required,url"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	Cache      string        `mapstructure:"cache" yaml:"cache" validate:"oneof=none memory valkey"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl" validate:"gte=0"`
	ValkeyAddr string        `mapstructure:"valkey_addr" yaml:"valkey_addr" validate:"required_if=Cache valkey"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

type MetricsConfig struct {
	// Textfile, when set, receives the metrics in text exposition format on exit.
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{Width: 800, Height: 800, Scale: 100.0 / 72.0, Margin: 0.05},
		Basemap: BasemapConfig{
			Endpoint: "https://overpass-api.de/api/interpreter",
			Timeout:  60 * time.Second,
			Cache:    "memory",
			CacheTTL: 24 * time.Hour,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"width":     "render.width",
	"height":    "render.height",
	"overpass":  "basemap.endpoint",
	"cache":     "basemap.cache",
	"log-level": "log.level",
	"metrics":   "metrics.textfile",
}

// Load reads defaults, an optional YAML file, TRACKVIZ_* environment
// variables and flags, in increasing priority. An empty path searches for
// trackviz.yaml in the working directory and $HOME/.config/trackviz.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.scale", d.Render.Scale)
	v.SetDefault("render.margin", d.Render.Margin)
	v.SetDefault("basemap.endpoint", d.Basemap.Endpoint)
	v.SetDefault("basemap.timeout", d.Basemap.Timeout)
	v.SetDefault("basemap.cache", d.Basemap.Cache)
	v.SetDefault("basemap.cache_ttl", d.Basemap.CacheTTL)
	v.SetDefault("basemap.valkey_addr", d.Basemap.ValkeyAddr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("trackviz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/trackviz")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// TRACKVIZ_BASEMAP_CACHE -> basemap.cache
	v.SetEnvPrefix("TRACKVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// WriteDefault writes the default configuration as YAML.
func WriteDefault(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Default()); err != nil {
		return err
	}
	return enc.Close()
}
