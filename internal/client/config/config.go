package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// PETALERT_SERVER_URL.
const EnvPrefix = "PETALERT"

// Config holds runtime settings for the PetAlert CLI.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig points at the remote PetAlert API.
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig selects the local key/value backend.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"` // sqlite, redis
	Path        string `mapstructure:"path"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is non-empty.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Server.URL = "http://localhost:5000/api"
	c.Server.Timeout = 30 * time.Second
	c.Storage.Backend = "sqlite"
	c.Storage.Path = "petalert.db"
	c.Storage.RedisAddr = "localhost:6379"
	c.Storage.RedisPrefix = "petalert:metadata:"
	c.Log.Level = "error"
	c.Metrics.Addr = ""
}

// flagKeys maps persistent CLI flags onto config keys.
var flagKeys = map[string]string{
	"server":       "server.url",
	"storage":      "storage.backend",
	"db":           "storage.path",
	"redis-addr":   "storage.redis_addr",
	"log-level":    "log.level",
	"metrics-addr": "metrics.addr",
}

// Load builds a Config from, in increasing precedence: defaults, the
// optional config file, PETALERT_* environment variables and the flags in fs
// that were explicitly set. An empty configFile looks for petalert.{yaml,json}
// in the working directory and tolerates its absence.
func Load(configFile string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("petalert")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %q: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.URL == "" {
		return nil, errors.New("server url must not be empty")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	var d Config
	d.LoadDefaults()

	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.redis_addr", d.Storage.RedisAddr)
	v.SetDefault("storage.redis_prefix", d.Storage.RedisPrefix)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}
