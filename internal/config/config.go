package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// ReapInterval and InactivityThreshold are independent knobs: the
	// threshold being shorter than the interval means a participant can sit
	// inactive for up to roughly their sum before removal.
	ReapInterval        time.Duration `mapstructure:"reap_interval" yaml:"reap_interval"`
	InactivityThreshold time.Duration `mapstructure:"inactivity_threshold" yaml:"inactivity_threshold"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:                ":5000",
		ReadHeaderTimeout:   5 * time.Second,
		ShutdownTimeout:     5 * time.Second,
		DatabasePath:        "batepapo.db",
		LogLevel:            "info",
		ReapInterval:        15 * time.Second,
		InactivityThreshold: 10 * time.Second,
	}
}
