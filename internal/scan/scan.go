// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan drives batch auditing of a program directory. Each file's
// parse is independent of every other, so files are fanned out to a
// bounded worker pool and the results collected with no coordination
// beyond the channel.
package scan

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/spacer-audit/internal/engine"
	"github.com/pdiddy/spacer-audit/pkg/types"
)

const defaultWorkers = 4

// Summary holds counts from one scan run.
type Summary struct {
	Parsed int
	Failed int

	// ByStatus tallies parsed programs per terminal status.
	ByStatus map[types.Status]int
}

// Total returns the number of files processed.
func (s Summary) Total() int { return s.Parsed + s.Failed }

// HasFailures reports whether any files failed to parse.
func (s Summary) HasFailures() bool { return s.Failed > 0 }

// Outcome is the result of one file's parse.
type Outcome struct {
	Path   string
	Result *types.ParseResult
	Err    error
}

// Run walks cfg.ProgramsDir for NC files and parses them through the
// worker pool. A file under a subdirectory named after a configured lathe
// is checked against that lathe; everything else uses defaultLathe. When
// cfg.OutputDir is set, one audit YAML per parsed program is written
// there for the catalog to ingest.
func Run(ctx context.Context, cfg types.ScanConfig, engineCfg types.EngineConfig, defaultLathe types.Lathe, w io.Writer) (Summary, error) {
	files, err := listPrograms(cfg.ProgramsDir)
	if err != nil {
		return Summary{}, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	jobs := make(chan string)
	results := make(chan Outcome, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- parseFile(path, engineCfg, latheFor(path, engineCfg, defaultLathe))
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, f := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- f:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, 0, len(files))
	for o := range results {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Path < outcomes[j].Path })

	summary := Summary{ByStatus: make(map[types.Status]int)}
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", o.Path, o.Err)
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "parsed  %s  O%s  %s  %s\n", o.Path, o.Result.ProgramNumber, o.Result.SpacerType, o.Result.Status)
		summary.Parsed++
		summary.ByStatus[o.Result.Status]++

		if cfg.OutputDir != "" {
			out := filepath.Join(cfg.OutputDir, engine.ResultFileName(o.Result.ProgramNumber))
			if err := engine.WriteResult(out, o.Result); err != nil {
				fmt.Fprintf(w, "warning: %s: %v\n", o.Path, err)
			}
		}
	}

	fmt.Fprintf(w, "\nparsed: %d, failed: %d", summary.Parsed, summary.Failed)
	for _, st := range []types.Status{types.StatusPass, types.StatusWarning, types.StatusBoreWarning, types.StatusDimensional, types.StatusCritical} {
		if n := summary.ByStatus[st]; n > 0 {
			fmt.Fprintf(w, ", %s: %d", st, n)
		}
	}
	fmt.Fprintln(w)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func parseFile(path string, cfg types.EngineConfig, lathe types.Lathe) Outcome {
	prog, err := engine.ReadProgram(path)
	if err != nil {
		return Outcome{Path: path, Err: err}
	}
	res, err := engine.Parse(prog.ID, prog.Title, prog.Lines, lathe, cfg)
	return Outcome{Path: path, Result: res, Err: err}
}

// latheFor assigns a lathe from the file's parent directory name when it
// matches a configured machine.
func latheFor(path string, cfg types.EngineConfig, fallback types.Lathe) types.Lathe {
	parent := types.Lathe(strings.ToLower(filepath.Base(filepath.Dir(path))))
	if _, ok := cfg.Lathes[parent]; ok {
		return parent
	}
	return fallback
}

// listPrograms collects .nc files under root, sorted for deterministic
// output.
func listPrograms(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".nc") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking programs directory %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .nc programs under %s", root)
	}
	sort.Strings(files)
	return files, nil
}

// EnsureOutputDir creates the audit output directory when one is set.
func EnsureOutputDir(cfg types.ScanConfig) error {
	if cfg.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}
