// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

// Program is one NC file split into the engine's input parts.
type Program struct {
	// ID is the program number from the O-word, without the letter.
	ID string

	// Title is the human-written comment on the O-line (or the first
	// comment line when the O-line carries none).
	Title string

	// Lines is the command stream after the O-line.
	Lines []string
}

var oLine = regexp.MustCompile(`^[%\s]*O?([0-9]{3,5})`)

// ReadProgram loads an NC file. An empty or unreadable file is the
// unrecoverable case; everything else is left to the parse.
func ReadProgram(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("program %s: %w", path, ErrEmptyInput)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	p := &Program{}
	body := lines
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "%" {
			continue
		}
		if m := oLine.FindStringSubmatch(trimmed); m != nil {
			p.ID = m[1]
			if open := strings.IndexByte(trimmed, '('); open >= 0 {
				p.Title = strings.Trim(trimmed[open:], "() ")
			}
			body = lines[i+1:]
		}
		break
	}

	// Some programs put the title on its own comment line under the O-line.
	if p.Title == "" {
		for _, line := range body {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "(") {
				p.Title = strings.Trim(trimmed, "() ")
			}
			break
		}
	}

	p.Lines = body
	return p, nil
}

// WriteResult writes one audit record as YAML, the form the catalog
// ingests.
func WriteResult(path string, res *types.ParseResult) error {
	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ResultFileName is the canonical per-program audit file name.
func ResultFileName(programID string) string {
	return programID + "-audit.yaml"
}
