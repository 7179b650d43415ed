// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

func writeNC(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const goodProgram = "O0123 (7.0 OD X 1.0 74MM)\nT0101 (TURN)\nG1 X7.0 Z-1.0 F0.012\nM30\n"

func TestRun(t *testing.T) {
	tmpDir := t.TempDir()
	programsDir := filepath.Join(tmpDir, "programs")
	writeNC(t, programsDir, "a.nc", goodProgram)
	writeNC(t, programsDir, "b.nc", "O0124 (6.0 X 1.25 90MM/74MM)\nM30\n")
	writeNC(t, programsDir, "empty.nc", "  \n")
	writeNC(t, programsDir, "notes.txt", "not a program")

	cfg := types.ScanConfig{
		ProgramsDir: programsDir,
		Workers:     2,
		OutputDir:   filepath.Join(tmpDir, "audits"),
	}
	if err := EnsureOutputDir(cfg); err != nil {
		t.Fatal(err)
	}

	var buf strings.Builder
	summary, err := Run(context.Background(), cfg, types.DefaultEngineConfig(), types.LatheNone, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Parsed != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 2 parsed, 1 failed\n%s", summary, buf.String())
	}
	if summary.Total() != 3 {
		t.Errorf("Total = %d, want 3", summary.Total())
	}
	if !summary.HasFailures() {
		t.Error("HasFailures = false")
	}
	if summary.ByStatus[types.StatusPass] != 2 {
		t.Errorf("ByStatus = %+v", summary.ByStatus)
	}

	for _, f := range []string{"0123-audit.yaml", "0124-audit.yaml"} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, f)); err != nil {
			t.Errorf("audit file %s missing: %v", f, err)
		}
	}

	// Output order follows the sorted paths regardless of worker timing.
	out := buf.String()
	if strings.Index(out, "a.nc") > strings.Index(out, "b.nc") {
		t.Errorf("output not path-ordered:\n%s", out)
	}
}

func TestRunLatheFromSubdirectory(t *testing.T) {
	tmpDir := t.TempDir()
	programsDir := filepath.Join(tmpDir, "programs")

	// 10.5 in OD exceeds the ST-20 chuck; the st20 subdirectory assigns
	// the machine.
	writeNC(t, filepath.Join(programsDir, "st20"), "big.nc",
		"O0200 (10.5 OD X 1.0 74MM)\nM30\n")

	var buf strings.Builder
	summary, err := Run(context.Background(), types.ScanConfig{ProgramsDir: programsDir},
		types.DefaultEngineConfig(), types.LatheNone, &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.ByStatus[types.StatusCritical] != 1 {
		t.Errorf("ByStatus = %+v, want one critical\n%s", summary.ByStatus, buf.String())
	}
}

func TestRunNoPrograms(t *testing.T) {
	var buf strings.Builder
	_, err := Run(context.Background(), types.ScanConfig{ProgramsDir: t.TempDir()},
		types.DefaultEngineConfig(), types.LatheNone, &buf)
	if err == nil {
		t.Fatal("expected error for an empty programs directory")
	}
}

func TestRunCancelled(t *testing.T) {
	tmpDir := t.TempDir()
	programsDir := filepath.Join(tmpDir, "programs")
	for _, name := range []string{"a.nc", "b.nc", "c.nc"} {
		writeNC(t, programsDir, name, goodProgram)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf strings.Builder
	_, err := Run(ctx, types.ScanConfig{ProgramsDir: programsDir},
		types.DefaultEngineConfig(), types.LatheNone, &buf)
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestLatheFor(t *testing.T) {
	cfg := types.DefaultEngineConfig()

	tests := []struct {
		path string
		want types.Lathe
	}{
		{"programs/st20/a.nc", types.LatheST20},
		{"programs/ST30/b.nc", types.LatheST30},
		{"programs/misc/c.nc", types.LatheNone},
		{"d.nc", types.LatheNone},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := latheFor(tt.path, cfg, types.LatheNone); got != tt.want {
				t.Errorf("latheFor = %q, want %q", got, tt.want)
			}
		})
	}
}
