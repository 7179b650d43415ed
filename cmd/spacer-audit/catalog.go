// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/spacer-audit/internal/catalog"
	"github.com/pdiddy/spacer-audit/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the audit catalog (store, query, export)",
	Long: `Catalog manages a local SQLite database of past audits. Use subcommands
to ingest audit files, query them by title text, status, or archetype, or
export the catalog.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest audit YAML files into the catalog",
	Long: `Store reads per-program audit files produced by scan or parse and
upserts them into the catalog. Files unchanged since the last ingest are
skipped.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	resultsDir, _ := cmd.Flags().GetString("results-dir")

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), resultsDir, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d audit file(s) failed ingestion", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var catalogQueryCmd = &cobra.Command{
	Use:   "query [title text]",
	Short: "Query the catalog by title, status, or archetype",
	Long: `Query searches stored audits with full-text search over titles and
exact filters on status and spacer type. Results come back worst status
first.`,
	RunE: runCatalogQuery,
}

func runCatalogQuery(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide title text, --status, or --type")
	}

	rows, err := store.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(rows, jsonOutput)
}

func formatQueryOutput(rows []catalog.Row, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-14s  %-12s  %-5s  %-5s  %s\n",
		"Program", "Type", "Status", "Crit", "Warn", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range rows {
		title := r.Title
		if len(title) > 48 {
			title = title[:45] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-8s  %-14s  %-12s  %-5d  %-5d  %s\n",
			r.ProgramNumber, r.SpacerType, r.Status, r.CriticalCount, r.WarningCount, title)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(rows))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (or a filtered subset) to
catalog/index/export.yaml or export.json. Supports the same filter flags
as query.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := catalog.NewStore(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := store.Export(context.Background(), queryOptsFromFlags(cmd, args), format)
	if err != nil {
		return err
	}
	fmt.Println("exported to", path)
	return nil
}

// --- shared flag plumbing ---

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	dir, _ := cmd.Flags().GetString("catalog-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return types.CatalogConfig{CatalogDir: dir, MaxResults: maxResults}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	status, _ := cmd.Flags().GetString("status")
	spacerType, _ := cmd.Flags().GetString("type")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return catalog.QueryOptions{
		Text:       strings.Join(args, " "),
		Status:     status,
		Type:       spacerType,
		MaxResults: maxResults,
	}
}

func init() {
	for _, c := range []*cobra.Command{catalogStoreCmd, catalogQueryCmd, catalogExportCmd} {
		c.Flags().String("catalog-dir", "catalog", "base directory for the catalog (contains index/)")
		c.Flags().Int("max-results", 50, "maximum number of query results")
	}

	catalogStoreCmd.Flags().String("results-dir", "audits", "directory of *-audit.yaml files to ingest")

	catalogQueryCmd.Flags().String("status", "", "filter by status: pass, warning, dimensional, bore_warning, critical")
	catalogQueryCmd.Flags().String("type", "", "filter by spacer type")
	catalogQueryCmd.Flags().Bool("json", false, "output results as JSON")

	catalogExportCmd.Flags().String("status", "", "filter by status")
	catalogExportCmd.Flags().String("type", "", "filter by spacer type")
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogQueryCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
