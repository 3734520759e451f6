package config

import (
	"fo-go/internal/fo"
)

// ColorMode controls whether log levels are colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds the run settings shared by both tools.
// It is built from command-line flags; no configuration file is read.
type Config struct {
	Verbose     bool      `toml:"verbose"`
	Color       ColorMode `toml:"color"`
	LogFile     string    `toml:"log_file,omitempty"`     // appended to in addition to stderr
	ReportPath  string    `toml:"report_path,omitempty"`  // TOML run report, written on success and failure
	Exclude     []string  `toml:"exclude,omitempty"`      // glob patterns skipped during enumeration
	ExcludeFrom string    `toml:"exclude_from,omitempty"` // file with one exclude pattern per line
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{Color: ColorAuto}
}

// Validate checks settings that flags cannot constrain on their own.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return &fo.ValidationError{Field: "color", Value: string(c.Color), Reason: "must be one of auto, always, never"}
	}
	return nil
}
