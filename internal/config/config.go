package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds demo application configuration.
type Config struct {
	Demo  DemoConfig
	Debug DebugConfig
}

// DemoConfig holds the demo screens' timing settings.
type DemoConfig struct {
	TickEvery     time.Duration `mapstructure:"tick_every"`
	CountdownFrom int           `mapstructure:"countdown_from"`
}

// DebugConfig controls the action-log middleware.
type DebugConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	LogPath string `mapstructure:"log_path"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// JASKFLUX_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("demo.tick_every", "1s")
	v.SetDefault("demo.countdown_from", 10)
	v.SetDefault("debug.enabled", false)
	v.SetDefault("debug.log_path", filepath.Join(os.Getenv("HOME"), ".local", "state", "jaskflux", "debug.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("JASKFLUX_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "jaskflux"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JASKFLUX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Demo.TickEvery <= 0 {
		return Config{}, fmt.Errorf("demo.tick_every must be positive, got %s", c.Demo.TickEvery)
	}
	if c.Demo.CountdownFrom <= 0 {
		return Config{}, fmt.Errorf("demo.countdown_from must be positive, got %d", c.Demo.CountdownFrom)
	}
	return c, nil
}
