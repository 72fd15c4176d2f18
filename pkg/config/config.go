// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads the tslprog YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Thermoquad/tslprog/pkg/persistent"
)

// Environment variables that override the file
const (
	EnvSchema    = "TSLPROG_SCHEMA"
	EnvFlasher   = "TSLPROG_FLASHER"
	EnvRelayPort = "TSLPROG_RELAY_PORT"
)

// Config represents the tslprog configuration
type Config struct {
	Record  Record  `yaml:"record"`
	Flasher Flasher `yaml:"flasher"`
	Relay   Relay   `yaml:"relay"`
	Log     Log     `yaml:"log"`
	Archive Archive `yaml:"archive"`
}

// Record selects how persistent records are laid out and interpreted
type Record struct {
	Schema      string `yaml:"schema"`
	Century     int    `yaml:"century"`
	BaseAddress uint32 `yaml:"base_address"`
}

// Flasher locates the MSP430Flasher executable
type Flasher struct {
	Path string `yaml:"path"`
}

// Relay is the serial port of the power relay controller
type Relay struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// Log configures local log verbosity and the remote log endpoint
type Log struct {
	Endpoint string `yaml:"endpoint"`
	Level    string `yaml:"level"`
}

// Archive is where record snapshots are kept
type Archive struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a default configuration. The record schema is left
// empty on purpose: every site must choose one.
func DefaultConfig() *Config {
	archiveDir := "./archive"
	if home, err := os.UserHomeDir(); err == nil {
		archiveDir = filepath.Join(home, ".local", "share", "tslprog", "archive")
	}

	return &Config{
		Record: Record{
			Century:     persistent.DefaultCentury,
			BaseAddress: persistent.DefaultBaseAddress,
		},
		Flasher: Flasher{
			Path: "MSP430Flasher",
		},
		Relay: Relay{
			Baud: 9600,
		},
		Log: Log{
			Level: "info",
		},
		Archive: Archive{
			Dir: archiveDir,
		},
	}
}

// LoadConfig loads configuration from the specified path. Options absent
// from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of DefaultConfig
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Archive.Dir = ExpandHome(cfg.Archive.Dir)
	return cfg, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns ~/.config/tslprog/config.yaml
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./tslprog.yaml"
	}
	return filepath.Join(homeDir, ".config", "tslprog", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}

// ApplyEnv returns a copy of cfg with environment overrides applied.
// lookup is normally os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) *Config {
	out := *cfg
	if v, ok := lookup(EnvSchema); ok && v != "" {
		out.Record.Schema = v
	}
	if v, ok := lookup(EnvFlasher); ok && v != "" {
		out.Flasher.Path = v
	}
	if v, ok := lookup(EnvRelayPort); ok && v != "" {
		out.Relay.Port = v
	}
	return &out
}

// ExpandHome replaces a leading "~/" with the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Schema returns the parsed record schema
func (c *Config) Schema() (persistent.Schema, error) {
	return persistent.ParseSchema(c.Record.Schema)
}
