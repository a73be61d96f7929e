// Package config loads rfd settings from .env, an optional config.yaml and
// RFD_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override: http.timeout is
// read from RFD_HTTP_TIMEOUT.
const EnvPrefix = "RFD"

// DefaultBaseURL is the forum the client talks to.
const DefaultBaseURL = "https://forums.redflagdeals.com"

// Config is the resolved application configuration.
type Config struct {
	BaseURL  string         `mapstructure:"base_url"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Pushover PushoverConfig `mapstructure:"pushover"`
	Discord  DiscordConfig  `mapstructure:"discord"`
}

// HTTPConfig holds backend client settings.
type HTTPConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 disables the limiter
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// PushoverConfig holds Pushover credentials. Both are needed to notify.
type PushoverConfig struct {
	Token string `mapstructure:"token"`
	User  string `mapstructure:"user"`
}

// DiscordConfig holds the Discord webhook target.
type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			RequestsPerSecond: 4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// SearchPaths returns the directories searched for config.yaml, most
// specific first.
func SearchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "rfd"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "rfd"))
	}
	return append(paths, ".")
}

// Load reads .env from the working directory and config.yaml from
// SearchPaths. Neither file is required.
func Load() (*Config, error) {
	return LoadFrom(".env", SearchPaths())
}

// LoadFrom is Load with explicit locations. envFile may be empty to skip
// dotenv loading. Variables already set in the environment win over the
// dotenv file.
func LoadFrom(envFile string, searchPaths []string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// appear in no config file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.requests_per_second", d.HTTP.RequestsPerSecond)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("pushover.token", "")
	v.SetDefault("pushover.user", "")
	v.SetDefault("discord.webhook_url", "")
}
