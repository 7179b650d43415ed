// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

// exportFile is the set of records written by Export, with the filter
// that produced it.
type exportFile struct {
	Filter   exportFilter        `json:"filter" yaml:"filter"`
	Programs []types.ParseResult `json:"programs" yaml:"programs"`
}

type exportFilter struct {
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Export writes the catalog (or the filtered subset) to
// catalogDir/index/export.yaml or export.json and returns the path.
func (s *Store) Export(ctx context.Context, opts QueryOptions, format string) (string, error) {
	if format != "yaml" && format != "json" {
		return "", fmt.Errorf("unsupported export format %q (yaml or json)", format)
	}

	if opts.MaxResults <= 0 {
		opts.MaxResults = 1 << 20
	}
	rows, err := s.Query(ctx, opts)
	if err != nil {
		return "", err
	}

	out := exportFile{
		Filter:   exportFilter{Text: opts.Text, Status: opts.Status, Type: opts.Type},
		Programs: make([]types.ParseResult, 0, len(rows)),
	}
	for _, r := range rows {
		res, err := s.Get(ctx, r.ProgramNumber)
		if err != nil {
			return "", err
		}
		out.Programs = append(out.Programs, *res)
	}

	var data []byte
	if format == "json" {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = yaml.Marshal(out)
	}
	if err != nil {
		return "", fmt.Errorf("marshaling export: %w", err)
	}

	path := filepath.Join(s.catalogDir, indexDir, "export."+format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
