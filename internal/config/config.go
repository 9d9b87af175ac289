package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Roster RosterConfig `mapstructure:"roster"`
	Timing TimingConfig `mapstructure:"timing"`
	UI     UIConfig     `mapstructure:"ui"`
}

// RosterConfig holds driver-table settings.
type RosterConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// TimingConfig controls the simulated assistant latency.
type TimingConfig struct {
	// LatencyScale multiplies every scripted delay. 0 disables delays
	// entirely, which the tests rely on.
	LatencyScale float64 `mapstructure:"latency_scale"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Announce     bool   `mapstructure:"announce"`
	CompanyName  string `mapstructure:"company_name"`
	AssistantTag string `mapstructure:"assistant_tag"`
}

// Load reads configuration from file and env. Env var overrides use prefix FLEETASSIST_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("roster.page_size", 10)
	v.SetDefault("timing.latency_scale", 1.0)
	v.SetDefault("ui.announce", true)
	v.SetDefault("ui.company_name", "Acme Logistics")
	v.SetDefault("ui.assistant_tag", "AI")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FLEETASSIST_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "fleetassist"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FLEETASSIST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Roster.PageSize < 1 {
		return Config{}, fmt.Errorf("roster.page_size must be at least 1, got %d", c.Roster.PageSize)
	}
	if c.Timing.LatencyScale < 0 {
		return Config{}, fmt.Errorf("timing.latency_scale must not be negative, got %v", c.Timing.LatencyScale)
	}
	return c, nil
}

// ScaleDelay applies the configured latency scale to a scripted delay.
func (c Config) ScaleDelay(d time.Duration) time.Duration {
	return time.Duration(float64(d) * c.Timing.LatencyScale)
}
