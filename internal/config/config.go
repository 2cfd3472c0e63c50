package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nicobailon/debugdeck/internal/logging"
	"github.com/spf13/viper"
)

const (
	defaultFrameRate          = 30
	defaultFPSRefreshInterval = 500 * time.Millisecond
	defaultCloseLabel         = "Close"
	defaultConsoleCapacity    = 500
	defaultLogLevel           = "info"
	defaultTheme              = "catppuccin-mocha"

	maxFrameRate = 240
	envPrefix    = "DEBUGDECK"
)

type Config struct {
	FrameRate          int           `mapstructure:"frame_rate"`
	FPSRefreshInterval time.Duration `mapstructure:"fps_refresh_interval"`
	StartCollapsed     bool          `mapstructure:"start_collapsed"`
	CloseLabel         string        `mapstructure:"close_label"`
	ConsoleCapacity    int           `mapstructure:"console_capacity"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFile            string        `mapstructure:"log_file"`
	FailFast           bool          `mapstructure:"fail_fast"`
	Theme              string        `mapstructure:"theme"`
}

func defaultConfig() *Config {
	return &Config{
		FrameRate:          defaultFrameRate,
		FPSRefreshInterval: defaultFPSRefreshInterval,
		CloseLabel:         defaultCloseLabel,
		ConsoleCapacity:    defaultConsoleCapacity,
		LogLevel:           defaultLogLevel,
		FailFast:           true,
		Theme:              defaultTheme,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("frame_rate", defaultFrameRate)
	v.SetDefault("fps_refresh_interval", defaultFPSRefreshInterval)
	v.SetDefault("start_collapsed", false)
	v.SetDefault("close_label", defaultCloseLabel)
	v.SetDefault("console_capacity", defaultConsoleCapacity)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("fail_fast", true)
	v.SetDefault("theme", defaultTheme)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config.yaml from the XDG config dir, then config.toml, and
// falls back to defaults. DEBUGDECK_* environment variables override files.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "debugdeck"))
	}
	v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "debugdeck"))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		// fallback to TOML if yaml missing
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, err
		}
	}
	return decode(v)
}

// LoadFile reads an explicit config file; the format follows its extension.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf)
}

var ErrInvalid = errors.New("invalid config")

func (c *Config) Validate() error {
	var problems []string
	if c.FrameRate < 1 || c.FrameRate > maxFrameRate {
		problems = append(problems, fmt.Sprintf("frame_rate %d not in [1,%d]", c.FrameRate, maxFrameRate))
	}
	if c.FPSRefreshInterval <= 0 {
		problems = append(problems, "fps_refresh_interval must be positive")
	}
	if c.ConsoleCapacity < 1 {
		problems = append(problems, "console_capacity must be at least 1")
	}
	if c.LogLevel != "" {
		if _, ok := logging.ParseLevel(c.LogLevel); !ok {
			problems = append(problems, fmt.Sprintf("log_level %q is not a known level", c.LogLevel))
		}
	}
	if strings.TrimSpace(c.CloseLabel) == "" {
		problems = append(problems, "close_label must not be empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// FrameInterval is the host tick period.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
