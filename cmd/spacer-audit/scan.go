// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/spacer-audit/internal/scan"
	"github.com/pdiddy/spacer-audit/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Audit every NC program under a directory",
	Long: `Scan walks a directory for .nc programs and audits each through a
bounded worker pool. A program under a subdirectory named after a lathe
(st20, st30) is checked against that machine; --lathe sets the fallback.

With --output-dir, one audit YAML per program is written for catalog
ingestion.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("programs-dir", "programs", "directory walked for .nc programs")
	scanCmd.Flags().Int("workers", 4, "parse worker pool size")
	scanCmd.Flags().String("output-dir", "", "directory for per-program audit YAML files")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	programsDir, _ := cmd.Flags().GetString("programs-dir")
	workers, _ := cmd.Flags().GetInt("workers")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	cfg := types.ScanConfig{
		ProgramsDir: programsDir,
		Workers:     workers,
		OutputDir:   outputDir,
	}
	if err := scan.EnsureOutputDir(cfg); err != nil {
		return err
	}

	summary, err := scan.Run(context.Background(), cfg, engineConfig(), latheFlag(cmd), os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d program(s) failed to parse", summary.Failed)
	}
	return nil
}
