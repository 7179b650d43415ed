// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the spacer-audit CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the spacer-audit CLI.
var rootCmd = &cobra.Command{
	Use:   "spacer-audit",
	Short: "Audit lathe programs for wheel spacer dimension errors",
	Long: `spacer-audit cross-validates the dimensions written in a program's title
against the dimensions implied by its motion and tooling commands, grades
every disagreement against the shop's tolerance rules, and flags parts
that cannot be produced correctly.

Each stage is a subcommand: parse audits one program, scan audits a
directory, and catalog stores and queries past audits.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./spacer-audit.yaml or ~/.config/spacer-audit/config.yaml)")
	rootCmd.PersistentFlags().String("lathe", "", "lathe assignment for feasibility checks: st20 or st30")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("spacer-audit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "spacer-audit"))
		}
	}

	viper.SetEnvPrefix("SPACER_AUDIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig returns the shop defaults overlaid with any "engine"
// section from the config file.
func engineConfig() types.EngineConfig {
	cfg := types.DefaultEngineConfig()
	if viper.IsSet("engine") {
		if err := viper.UnmarshalKey("engine", &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: invalid engine config, using defaults: %v\n", err)
			return types.DefaultEngineConfig()
		}
	}
	return cfg
}

// latheFlag resolves the persistent --lathe flag.
func latheFlag(cmd *cobra.Command) types.Lathe {
	l, _ := cmd.Flags().GetString("lathe")
	return types.Lathe(l)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
