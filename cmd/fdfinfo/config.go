// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings for fdfinfo.
// Flags given on the command line override the values read from a config file.
type Config struct {
	// Format is one of yaml, json or cbor.
	Format string `yaml:"format"`

	// Digest adds a BLAKE3 digest of the native order payload to the report.
	Digest bool `yaml:"digest"`

	// Stats adds min/max/mean/stddev of the pixel values to the report.
	Stats bool `yaml:"stats"`

	Verbose bool `yaml:"verbose"`

	// LimitHeaderBytes is passed on to the decoder. 0 means the decoder default.
	LimitHeaderBytes int64 `yaml:"limitHeaderBytes"`
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Format: "yaml",
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Format {
	case "yaml", "json", "cbor":
	default:
		return fmt.Errorf("unknown format %q, expected yaml, json or cbor", c.Format)
	}
	if c.LimitHeaderBytes < 0 {
		return fmt.Errorf("limitHeaderBytes must not be negative")
	}
	return nil
}
