// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/Thermoquad/tslprog/pkg/persistent"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Record.Schema = "v2"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Record.Schema)
	assert.Equal(t, 2000, cfg.Record.Century)
	assert.Equal(t, uint32(0x1800), cfg.Record.BaseAddress)
	assert.Equal(t, "MSP430Flasher", cfg.Flasher.Path)
	assert.Equal(t, 9600, cfg.Relay.Baud)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Archive.Dir)
}

func TestParse(t *testing.T) {
	t.Run("hex base address and partial file", func(t *testing.T) {
		cfg, err := Parse([]byte("record:\n  schema: v1\n  base_address: 0x1900\nrelay:\n  port: /dev/ttyUSB1\n"))
		require.NoError(t, err)

		assert.Equal(t, "v1", cfg.Record.Schema)
		assert.Equal(t, uint32(0x1900), cfg.Record.BaseAddress)
		assert.Equal(t, 2000, cfg.Record.Century)
		assert.Equal(t, "/dev/ttyUSB1", cfg.Relay.Port)
		assert.Equal(t, 9600, cfg.Relay.Baud)

		schema, err := cfg.Schema()
		require.NoError(t, err)
		assert.Equal(t, persistent.SchemaV1, schema)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("record: [unterminated"))
		assert.Error(t, err)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("save then load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		want := validConfig()
		want.Log.Endpoint = "https://logs.example.com/ingest"
		want.Archive.Dir = "/var/lib/tslprog"

		require.NoError(t, SaveConfig(want, path))
		assert.True(t, ConfigExists(path))

		got, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvSchema:    "v1",
		EnvFlasher:   "/opt/ti/MSP430Flasher",
		EnvRelayPort: "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	base := validConfig()
	base.Relay.Port = "/dev/ttyACM0"
	out := ApplyEnv(base, lookup)

	assert.Equal(t, "v1", out.Record.Schema)
	assert.Equal(t, "/opt/ti/MSP430Flasher", out.Flasher.Path)
	assert.Equal(t, "/dev/ttyACM0", out.Relay.Port, "empty override must not clear the port")
	assert.Equal(t, "v2", base.Record.Schema, "input must not change")
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(validConfig()))
	})

	t.Run("schema required", func(t *testing.T) {
		err := Validate(DefaultConfig())
		require.Error(t, err)
		assert.True(t, errors.Is(err, persistent.ErrUnsupportedSchema))
	})

	t.Run("aggregates every problem", func(t *testing.T) {
		cfg := validConfig()
		cfg.Record.Schema = "legacy"
		cfg.Record.Century = 1950
		cfg.Record.BaseAddress = 0x200000
		cfg.Relay.Port = "/dev/ttyUSB0"
		cfg.Relay.Baud = 0
		cfg.Log.Level = "chatty"
		cfg.Log.Endpoint = "ftp://logs"

		before := *cfg
		err := Validate(cfg)
		require.Error(t, err)
		assert.Len(t, multierr.Errors(err), 6)
		assert.Equal(t, before, *cfg)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Error(t, Validate(nil))
	})
}

func TestRequire(t *testing.T) {
	cfg := validConfig()

	assert.NoError(t, Require(cfg, "record.schema", "flasher.path"))

	err := Require(cfg, "relay.port", "log.endpoint")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingOption))
	assert.Contains(t, err.Error(), "relay.port, log.endpoint")

	assert.Error(t, Require(cfg, "no.such.key"))
	assert.Contains(t, Keys(), "archive.dir")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "data"), ExpandHome("~/data"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
}
