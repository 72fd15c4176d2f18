// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/tslprog/pkg/config"
)

var (
	// Global flags
	configPath string
	schemaName string
	century    int
	logLevel   string

	// Loaded by PersistentPreRunE
	settings *config.Config
	logger   = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "tslprog",
	Short: "TSL persistent record toolkit",
	Long: `tslprog - Inspect, validate and normalize the persistent data block of
TSL units at the production station.

The persistent block lives in MSP430 information memory (0x1800 by default)
and is exchanged as TI-TXT, the format MSP430Flasher reads and writes.

Two firmware layouts exist and they are not compatible:
  v1: 36 bytes, no porsolt counter
  v2: 38 bytes, porsolt counter after launched_flag

There is no default layout. Set record.schema in the config file, the
TSLPROG_SCHEMA environment variable, or pass --schema.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVarP(&schemaName, "schema", "s", "", "Record layout: v1 or v2")
	rootCmd.PersistentFlags().IntVar(&century, "century", 0, "Century for two-digit RTC years (default from config, 2000)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
}

// loadSettings resolves configuration in order: defaults, file, environment, flags
func loadSettings(cmd *cobra.Command, args []string) error {
	path := configPath
	explicit := path != ""
	if !explicit {
		path = config.GetDefaultConfigPath()
	}

	var cfg *config.Config
	switch {
	case config.ConfigExists(path):
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	case explicit:
		return fmt.Errorf("config file does not exist: %s", path)
	default:
		cfg = config.DefaultConfig()
	}

	cfg = config.ApplyEnv(cfg, os.LookupEnv)
	if schemaName != "" {
		cfg.Record.Schema = schemaName
	}
	if century != 0 {
		cfg.Record.Century = century
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)

	logger.WithField("path", path).Debug("configuration loaded")
	settings = cfg
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
