// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/Thermoquad/tslprog/pkg/persistent"
)

// ErrMissingOption is returned by Require for an unset option
var ErrMissingOption = errors.New("missing required option")

// Validate checks the configuration and reports every problem at once.
// It never modifies cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	var err error

	if _, e := persistent.ParseSchema(cfg.Record.Schema); e != nil {
		err = multierr.Append(err, fmt.Errorf("record.schema: %w", e))
	}

	if cfg.Record.Century <= 0 || cfg.Record.Century%100 != 0 {
		err = multierr.Append(err, fmt.Errorf("record.century: %d is not a century (e.g. 2000)", cfg.Record.Century))
	}

	// MSP430 FRAM parts address up to 20 bits
	if cfg.Record.BaseAddress > 0xFFFFF {
		err = multierr.Append(err, fmt.Errorf("record.base_address: 0x%X exceeds the 20-bit address space", cfg.Record.BaseAddress))
	}

	if cfg.Relay.Port != "" && cfg.Relay.Baud <= 0 {
		err = multierr.Append(err, fmt.Errorf("relay.baud: must be positive, got %d", cfg.Relay.Baud))
	}

	if cfg.Log.Level != "" {
		if _, e := logrus.ParseLevel(cfg.Log.Level); e != nil {
			err = multierr.Append(err, fmt.Errorf("log.level: %w", e))
		}
	}

	if cfg.Log.Endpoint != "" {
		u, e := url.Parse(cfg.Log.Endpoint)
		switch {
		case e != nil:
			err = multierr.Append(err, fmt.Errorf("log.endpoint: %w", e))
		case u.Scheme != "http" && u.Scheme != "https":
			err = multierr.Append(err, fmt.Errorf("log.endpoint: scheme must be http or https, got %q", u.Scheme))
		case u.Host == "":
			err = multierr.Append(err, fmt.Errorf("log.endpoint: missing host"))
		}
	}

	return err
}

var optionGetters = map[string]func(*Config) string{
	"record.schema": func(c *Config) string { return c.Record.Schema },
	"flasher.path":  func(c *Config) string { return c.Flasher.Path },
	"relay.port":    func(c *Config) string { return c.Relay.Port },
	"log.endpoint":  func(c *Config) string { return c.Log.Endpoint },
	"log.level":     func(c *Config) string { return c.Log.Level },
	"archive.dir":   func(c *Config) string { return c.Archive.Dir },
}

// Keys lists the option names accepted by Require
func Keys() []string {
	keys := make([]string, 0, len(optionGetters))
	for k := range optionGetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Require fails if any of the named options is empty
func Require(cfg *Config, keys ...string) error {
	var missing []string
	for _, key := range keys {
		get, ok := optionGetters[key]
		if !ok {
			return fmt.Errorf("unknown option %q", key)
		}
		if strings.TrimSpace(get(cfg)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingOption, strings.Join(missing, ", "))
	}
	return nil
}

// ResolveFlasher finds the flasher executable on PATH
func ResolveFlasher(cfg *Config) (string, error) {
	if err := Require(cfg, "flasher.path"); err != nil {
		return "", err
	}
	path, err := exec.LookPath(cfg.Flasher.Path)
	if err != nil {
		return "", fmt.Errorf("flasher.path: %w", err)
	}
	return path, nil
}
