// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/spacer-audit/internal/engine"
	"github.com/pdiddy/spacer-audit/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [program.nc]",
	Short: "Audit a single NC program",
	Long: `Parse reads one NC program, extracts the specified dimensions from its
title and the observed dimensions from its commands, cross-validates the
two sets, and prints the findings.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("json", false, "output the full audit record as JSON")
	parseCmd.Flags().String("out", "", "also write the audit record as YAML to this directory")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	prog, err := engine.ReadProgram(args[0])
	if err != nil {
		return err
	}

	res, err := engine.Parse(prog.ID, prog.Title, prog.Lines, latheFlag(cmd), engineConfig())
	if err != nil {
		return err
	}

	if outDir, _ := cmd.Flags().GetString("out"); outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		path := filepath.Join(outDir, engine.ResultFileName(res.ProgramNumber))
		if err := engine.WriteResult(path, res); err != nil {
			return err
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printResult(res)
	return nil
}

func printResult(res *types.ParseResult) {
	fmt.Printf("O%s  %s\n", res.ProgramNumber, res.Title)
	fmt.Printf("type: %s (%s confidence)  status: %s\n", res.SpacerType, res.Confidence, res.Status)

	printDim := func(name string, d *types.Dimension, obs *float64) {
		if d == nil && obs == nil {
			return
		}
		fmt.Printf("  %-22s", name)
		if d != nil {
			fmt.Printf("  title %8.2f mm", d.MM)
		} else {
			fmt.Printf("  title %11s", "-")
		}
		if obs != nil {
			fmt.Printf("  program %8.2f mm", *obs)
		}
		fmt.Println()
	}

	printDim("outer diameter", res.OD, res.ODObserved)
	printDim("thickness", res.Thickness, nil)
	printDim("center bore", res.CB, res.CBObserved)
	printDim("outer bore", res.OB, res.OBObserved)
	printDim("hub height", res.HubHeight, nil)
	printDim("counterbore diameter", res.CounterboreDiameter, res.CounterboreObserved)
	if res.DrillDepth != nil {
		op := "single op"
		if res.TwoOpDrill {
			op = "two op"
		}
		fmt.Printf("  %-22s  drill %8.2f mm (%s)\n", "drill depth", *res.DrillDepth, op)
	}

	if len(res.Findings) == 0 {
		fmt.Println("no findings")
		return
	}
	fmt.Printf("findings (%d):\n", len(res.Findings))
	for _, f := range res.Findings {
		fmt.Printf("  %-8s  %-20s  %s\n", f.Severity, f.Category, f.Message)
	}
}
