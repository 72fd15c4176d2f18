// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Thermoquad/tslprog/pkg/config"
)

var (
	configInitForce  bool
	configCheckTools bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a new configuration file",
	Long: `Write a configuration file with default values. The record layout has no
default and must be given with --schema (or TSLPROG_SCHEMA).

Example:
  tslprog config init --schema v2`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after the file, environment and flags are applied.`,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective configuration",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configValidateCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")

	configValidateCmd.Flags().BoolVar(&configCheckTools, "tools", false, "Also check that the flasher is on PATH")
}

func effectiveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.GetDefaultConfigPath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := effectiveConfigPath()
	if config.ConfigExists(path) && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	cfg.Record.Schema = settings.Record.Schema
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	err := config.Validate(settings)
	if configCheckTools {
		_, lookErr := config.ResolveFlasher(settings)
		err = multierr.Append(err, lookErr)
	}

	if err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Printf("  [ERROR] %v\n", e)
		}
		return fmt.Errorf("configuration has %d problem(s)", len(multierr.Errors(err)))
	}

	fmt.Println("Configuration OK")
	return nil
}
