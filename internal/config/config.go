package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/richgang/fxpulse/internal/core"
	"github.com/spf13/viper"
)

// EnvAPIURL is the single environment variable selecting the backend host.
const EnvAPIURL = "FXPULSE_API_URL"

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Token   TokenConfig   `mapstructure:"token"`
	Poll    PollConfig    `mapstructure:"poll"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Symbols []string      `mapstructure:"symbols"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TokenConfig holds token storage settings.
type TokenConfig struct {
	Path string `mapstructure:"path"` // empty means the default user config dir slot
}

// PollConfig holds the per-view refresh intervals.
type PollConfig struct {
	DashboardInterval time.Duration `mapstructure:"dashboard_interval"`
	ChartInterval     time.Duration `mapstructure:"chart_interval"`
}

// MetricsConfig holds the optional local metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file. A .env file in the working
// directory is loaded first so FXPULSE_API_URL can live there.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverride(&cfg)
	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	cfg := &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000/api",
			Timeout: 10 * time.Second,
		},
		Poll: PollConfig{
			DashboardInterval: 5 * time.Second,
			ChartInterval:     30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9190",
			Path:    "/metrics",
		},
		Symbols: append([]string(nil), core.Symbols...),
	}
	applyEnvOverride(cfg)
	return cfg
}

// applyEnvOverride lets FXPULSE_API_URL win over file and defaults.
func applyEnvOverride(cfg *Config) {
	_ = godotenv.Load()
	if u := os.Getenv(EnvAPIURL); u != "" {
		cfg.API.BaseURL = u
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("api base_url (or %s) is required", EnvAPIURL))
	}
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("api base_url: %w", err))
	}
	if c.API.Timeout <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("api timeout must be positive, got %s", c.API.Timeout))
	}
	if c.Poll.DashboardInterval <= 0 || c.Poll.ChartInterval <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("poll intervals must be positive"))
	}
	for _, s := range c.Symbols {
		if !core.ValidSymbol(s) {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown symbol %q", s))
		}
	}
	return nil
}
