// Package config is the system-wide settings coordinator. Values come
// from three layers with file > environment > defaults precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable the application wires at startup.
type Config struct {
	Store     *StoreConfig     `json:"store"`
	Bus       *BusConfig       `json:"bus"`
	Countdown *CountdownConfig `json:"countdown"`
	Ocean     *OceanConfig     `json:"ocean"`
	Archive   *ArchiveConfig   `json:"archive"`
	Log       *LogConfig       `json:"log"`
}

// StoreConfig tunes the session registry.
type StoreConfig struct {
	// RetentionWindow is how long closed sessions stay registered
	// before the startup sweep removes them.
	RetentionWindow time.Duration `json:"retention_window"`
}

// BusConfig tunes the event/polling bus.
type BusConfig struct {
	TickInterval time.Duration `json:"tick_interval"`
}

// CountdownConfig tunes the session timer display.
type CountdownConfig struct {
	CheckInterval time.Duration `json:"check_interval"`
}

// OceanConfig tunes the visualization.
type OceanConfig struct {
	FrameInterval time.Duration `json:"frame_interval"`
	SinkDuration  time.Duration `json:"sink_duration"`
}

// ArchiveConfig selects the persistence backend.
type ArchiveConfig struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// LogConfig sets the global log level.
type LogConfig struct {
	Level string `json:"level"`
}

// DefaultConfig returns the settings a classroom round runs with out
// of the box: half-second polling, one-second countdown checks, the
// display-refresh animation cadence, and a day of session retention.
func DefaultConfig() *Config {
	return &Config{
		Store: &StoreConfig{
			RetentionWindow: 24 * time.Hour,
		},
		Bus: &BusConfig{
			TickInterval: 500 * time.Millisecond,
		},
		Countdown: &CountdownConfig{
			CheckInterval: time.Second,
		},
		Ocean: &OceanConfig{
			FrameInterval: 33 * time.Millisecond,
			SinkDuration:  1500 * time.Millisecond,
		},
		Archive: &ArchiveConfig{
			Backend: "memory",
			Path:    "./bottlemessage-data",
		},
		Log: &LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.Store == nil || c.Bus == nil || c.Countdown == nil || c.Ocean == nil || c.Archive == nil || c.Log == nil {
		return fmt.Errorf("every configuration section is required")
	}

	if c.Store.RetentionWindow <= 0 {
		return fmt.Errorf("store retention window must be positive")
	}
	if c.Bus.TickInterval <= 0 {
		return fmt.Errorf("bus tick interval must be positive")
	}
	if c.Countdown.CheckInterval <= 0 {
		return fmt.Errorf("countdown check interval must be positive")
	}
	if c.Ocean.FrameInterval <= 0 {
		return fmt.Errorf("ocean frame interval must be positive")
	}
	if c.Ocean.SinkDuration <= 0 {
		return fmt.Errorf("ocean sink duration must be positive")
	}

	switch c.Archive.Backend {
	case "memory":
	case "sqlite", "pebble":
		if c.Archive.Path == "" {
			return fmt.Errorf("archive path is required for the %s backend", c.Archive.Backend)
		}
	default:
		return fmt.Errorf("unknown archive backend %q", c.Archive.Backend)
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// LoadFromEnv overlays BOTTLEMESSAGE_* environment variables on the
// defaults. Durations use Go syntax ("500ms", "24h").
func LoadFromEnv() *Config {
	config := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("BOTTLEMESSAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.retention_window", config.Store.RetentionWindow)
	v.SetDefault("bus.tick_interval", config.Bus.TickInterval)
	v.SetDefault("countdown.check_interval", config.Countdown.CheckInterval)
	v.SetDefault("ocean.frame_interval", config.Ocean.FrameInterval)
	v.SetDefault("ocean.sink_duration", config.Ocean.SinkDuration)
	v.SetDefault("archive.backend", config.Archive.Backend)
	v.SetDefault("archive.path", config.Archive.Path)
	v.SetDefault("log.level", config.Log.Level)

	config.Store.RetentionWindow = v.GetDuration("store.retention_window")
	config.Bus.TickInterval = v.GetDuration("bus.tick_interval")
	config.Countdown.CheckInterval = v.GetDuration("countdown.check_interval")
	config.Ocean.FrameInterval = v.GetDuration("ocean.frame_interval")
	config.Ocean.SinkDuration = v.GetDuration("ocean.sink_duration")
	config.Archive.Backend = v.GetString("archive.backend")
	config.Archive.Path = v.GetString("archive.path")
	config.Log.Level = v.GetString("log.level")

	return config
}

// configFile is the JSON file shape: durations travel as strings.
type configFile struct {
	Store *struct {
		RetentionWindow string `json:"retention_window"`
	} `json:"store"`
	Bus *struct {
		TickInterval string `json:"tick_interval"`
	} `json:"bus"`
	Countdown *struct {
		CheckInterval string `json:"check_interval"`
	} `json:"countdown"`
	Ocean *struct {
		FrameInterval string `json:"frame_interval"`
		SinkDuration  string `json:"sink_duration"`
	} `json:"ocean"`
	Archive *struct {
		Backend string `json:"backend"`
		Path    string `json:"path"`
	} `json:"archive"`
	Log *struct {
		Level string `json:"level"`
	} `json:"log"`
}

// LoadFromFile reads a JSON config file over the defaults and
// validates the result.
func LoadFromFile(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var file configFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filepath, err)
	}

	config := DefaultConfig()

	if file.Store != nil {
		overlayDuration(&config.Store.RetentionWindow, file.Store.RetentionWindow)
	}
	if file.Bus != nil {
		overlayDuration(&config.Bus.TickInterval, file.Bus.TickInterval)
	}
	if file.Countdown != nil {
		overlayDuration(&config.Countdown.CheckInterval, file.Countdown.CheckInterval)
	}
	if file.Ocean != nil {
		overlayDuration(&config.Ocean.FrameInterval, file.Ocean.FrameInterval)
		overlayDuration(&config.Ocean.SinkDuration, file.Ocean.SinkDuration)
	}
	if file.Archive != nil {
		if file.Archive.Backend != "" {
			config.Archive.Backend = file.Archive.Backend
		}
		if file.Archive.Path != "" {
			config.Archive.Path = file.Archive.Path
		}
	}
	if file.Log != nil && file.Log.Level != "" {
		config.Log.Level = file.Log.Level
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", filepath, err)
	}
	return config, nil
}

func overlayDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

// LoadConfigWithPrecedence resolves the effective configuration:
// file > environment > defaults. File errors fall back silently to
// the environment layer so a missing file never blocks startup.
func LoadConfigWithPrecedence(filepath string) *Config {
	config := LoadFromEnv()

	if filepath != "" {
		if fileConfig, err := LoadFromFile(filepath); err == nil {
			config = fileConfig
		}
	}
	return config
}
