// Package config loads the dashboard configuration from defaults, an optional yaml file and
// ENVMONITOR_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const EnvPrefix = "ENVMONITOR"

type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Server      ServerConfig     `mapstructure:"server"`
	Data        DataConfig       `mapstructure:"data"`
	Models      ModelsConfig     `mapstructure:"models"`
	Forecast    ForecastConfig   `mapstructure:"forecast"`
	Prediction  PredictionConfig `mapstructure:"prediction"`
	Chart       ChartConfig      `mapstructure:"chart"`
	Developer   DeveloperConfig  `mapstructure:"developer"`
	Profile     ProfileConfig    `mapstructure:"profile"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DataConfig struct {
	Path     string `mapstructure:"path"`
	Timezone string `mapstructure:"timezone"`
}

type ModelsConfig struct {
	Dir       string `mapstructure:"dir"`
	Separator string `mapstructure:"separator"`
	Suffix    string `mapstructure:"suffix"`
	Extension string `mapstructure:"extension"`
	Cache     bool   `mapstructure:"cache"`
}

type ForecastConfig struct {
	Horizon int    `mapstructure:"horizon"`
	Step    string `mapstructure:"step"`
}

type PredictionConfig struct {
	ProjectToTarget    bool `mapstructure:"project_to_target"`
	MaxProjectionSteps int  `mapstructure:"max_projection_steps"`
}

type ChartConfig struct {
	PanelHeight int `mapstructure:"panel_height"`
}

// DeveloperConfig is shown on the developer page.
type DeveloperConfig struct {
	Name        string `mapstructure:"name"`
	Affiliation string `mapstructure:"affiliation"`
	Phone       string `mapstructure:"phone"`
	Email       string `mapstructure:"email"`
	LinkedIn    string `mapstructure:"linkedin"`
	GitHub      string `mapstructure:"github"`
}

type ProfileConfig struct {
	Mode string `mapstructure:"mode"`
	Path string `mapstructure:"path"`
}

// StepDuration returns the parsed forecast step. Load has already validated it.
func (c *Config) StepDuration() time.Duration {
	d, _ := time.ParseDuration(c.Forecast.Step)
	return d
}

// Location returns the timezone historical timestamps are interpreted in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Data.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadDotEnv loads environment variables from the given files, ".env" by default. Missing files
// are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("unable to load %s, %w", f, err)
		}
	}
	return nil
}

// Load reads config.yaml from ./configs or the working directory if present, applies
// environment overrides and validates the result.
func Load() (*Config, error) {
	return LoadFrom("./configs", ".")
}

// LoadFrom is Load with explicit config file search paths.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config, %w", err)
	}
	cfg.Environment = strings.ToLower(cfg.Environment)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.Forecast.Horizon <= 0 {
		return fmt.Errorf("forecast.horizon must be positive, got %d, %w", c.Forecast.Horizon, ErrInvalidConfig)
	}
	step, err := time.ParseDuration(c.Forecast.Step)
	if err != nil {
		return fmt.Errorf("forecast.step %q, %w: %w", c.Forecast.Step, ErrInvalidConfig, err)
	}
	if step <= 0 {
		return fmt.Errorf("forecast.step must be positive, got %s, %w", step, ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Data.Timezone); err != nil {
		return fmt.Errorf("data.timezone %q, %w: %w", c.Data.Timezone, ErrInvalidConfig, err)
	}
	if c.Chart.PanelHeight <= 0 {
		return fmt.Errorf("chart.panel_height must be positive, got %d, %w", c.Chart.PanelHeight, ErrInvalidConfig)
	}
	if c.Prediction.MaxProjectionSteps <= 0 {
		return fmt.Errorf(
			"prediction.max_projection_steps must be positive, got %d, %w",
			c.Prediction.MaxProjectionSteps, ErrInvalidConfig,
		)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range, got %d, %w", c.Server.Port, ErrInvalidConfig)
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("profile.mode must be cpu, mem or empty, got %q, %w", c.Profile.Mode, ErrInvalidConfig)
	}
	if c.Models.Dir == "" {
		return fmt.Errorf("models.dir is required, %w", ErrInvalidConfig)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.port", 8501)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8501"})

	v.SetDefault("data.path", "data.csv")
	v.SetDefault("data.timezone", "UTC")

	v.SetDefault("models.dir", "models")
	v.SetDefault("models.separator", "_")
	v.SetDefault("models.suffix", "3")
	v.SetDefault("models.extension", ".json")
	v.SetDefault("models.cache", true)

	v.SetDefault("forecast.horizon", 10)
	v.SetDefault("forecast.step", "1m")

	v.SetDefault("prediction.project_to_target", false)
	v.SetDefault("prediction.max_projection_steps", 1440)

	v.SetDefault("chart.panel_height", 300)

	v.SetDefault("developer.name", "")
	v.SetDefault("developer.affiliation", "")
	v.SetDefault("developer.phone", "")
	v.SetDefault("developer.email", "")
	v.SetDefault("developer.linkedin", "")
	v.SetDefault("developer.github", "")

	v.SetDefault("profile.mode", "")
	v.SetDefault("profile.path", ".")
}
