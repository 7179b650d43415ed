// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists audit records in a SQLite database with
// full-text search over program titles. The catalog never re-derives
// dimensions; it stores what the engine produced.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/spacer-audit/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "catalog.db"
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int
}

// NewStore opens or creates the catalog database at
// catalogDir/index/catalog.db, creating the schema if needed.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.CatalogDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, catalogDir: cfg.CatalogDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS programs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			program_number TEXT NOT NULL UNIQUE,
			title TEXT,
			spacer_type TEXT,
			confidence TEXT,
			status TEXT,
			material TEXT,
			od REAL,
			thickness REAL,
			cb REAL,
			findings TEXT,
			critical_count INTEGER,
			warning_count INTEGER,
			record TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_programs_status ON programs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_programs_type ON programs(spacer_type)`,
		`CREATE TABLE IF NOT EXISTS scan_status (
			program_number TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='programs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE programs_fts USING fts5(title, content=programs, content_rowid=rowid)`,
			`CREATE TRIGGER programs_ai AFTER INSERT ON programs BEGIN
				INSERT INTO programs_fts(rowid, title) VALUES (new.rowid, new.title);
			END`,
			`CREATE TRIGGER programs_ad AFTER DELETE ON programs BEGIN
				INSERT INTO programs_fts(programs_fts, rowid, title) VALUES('delete', old.rowid, old.title);
			END`,
			`CREATE TRIGGER programs_au AFTER UPDATE ON programs BEGIN
				INSERT INTO programs_fts(programs_fts, rowid, title) VALUES('delete', old.rowid, old.title);
				INSERT INTO programs_fts(rowid, title) VALUES (new.rowid, new.title);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a catalog ingestion run.
type IngestSummary struct {
	Stored  int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Stored + s.Updated + s.Skipped + s.Failed
}

// Ingest reads audit YAML files from resultsDir and upserts them into the
// catalog. Files unchanged since the last ingest are skipped by mod-time.
func (s *Store) Ingest(ctx context.Context, resultsDir string, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading results directory %s: %w", resultsDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "-audit.yaml") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		programID := strings.TrimSuffix(entry.Name(), "-audit.yaml")
		filePath := filepath.Join(resultsDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", programID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM scan_status WHERE program_number = ?`, programID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", programID)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", programID, err)
			summary.Failed++
			continue
		}

		var res types.ParseResult
		if err := yaml.Unmarshal(data, &res); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", programID, err)
			summary.Failed++
			continue
		}

		if err := s.Put(ctx, &res, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", programID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%s)\n", programID, res.Status)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "stored  %s (%s)\n", programID, res.Status)
			summary.Stored++
		}
	}

	fmt.Fprintf(w, "\nstored: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Stored, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

// Put upserts one audit record.
func (s *Store) Put(ctx context.Context, res *types.ParseResult, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	findingsJSON, _ := json.Marshal(res.Findings)
	record, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	criticals, warnings := 0, 0
	for _, f := range res.Findings {
		switch f.Severity {
		case types.SeverityCritical:
			criticals++
		case types.SeverityWarning:
			warnings++
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO programs (program_number, title, spacer_type, confidence, status, material,
			od, thickness, cb, findings, critical_count, warning_count, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(program_number) DO UPDATE SET
			title=excluded.title, spacer_type=excluded.spacer_type,
			confidence=excluded.confidence, status=excluded.status,
			material=excluded.material, od=excluded.od, thickness=excluded.thickness,
			cb=excluded.cb, findings=excluded.findings,
			critical_count=excluded.critical_count, warning_count=excluded.warning_count,
			record=excluded.record`,
		res.ProgramNumber, res.Title, string(res.SpacerType), string(res.Confidence),
		string(res.Status), res.Material,
		dimValue(res.OD), dimValue(res.Thickness), dimValue(res.CB),
		string(findingsJSON), criticals, warnings, string(record),
	)
	if err != nil {
		return fmt.Errorf("upserting program: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scan_status (program_number, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(program_number) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		res.ProgramNumber, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating scan status: %w", err)
	}

	return tx.Commit()
}

func dimValue(d *types.Dimension) any {
	if d == nil {
		return nil
	}
	return d.MM
}

// QueryOptions filters catalog queries. Text searches titles through
// FTS5; Status and Type are exact filters.
type QueryOptions struct {
	Text       string
	Status     string
	Type       string
	MaxResults int
}

// IsEmpty reports whether no filter is set.
func (o QueryOptions) IsEmpty() bool {
	return o.Text == "" && o.Status == "" && o.Type == ""
}

// Row is one catalog query result.
type Row struct {
	ProgramNumber string `json:"program_number"`
	Title         string `json:"title"`
	SpacerType    string `json:"spacer_type"`
	Status        string `json:"status"`
	CriticalCount int    `json:"critical_count"`
	WarningCount  int    `json:"warning_count"`
}

// Query returns catalog rows matching the options, worst status first.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Row, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	var sb strings.Builder
	var args []any

	if opts.Text != "" {
		sb.WriteString(`SELECT p.program_number, p.title, p.spacer_type, p.status, p.critical_count, p.warning_count
			FROM programs_fts f JOIN programs p ON p.rowid = f.rowid
			WHERE programs_fts MATCH ?`)
		args = append(args, opts.Text)
	} else {
		sb.WriteString(`SELECT p.program_number, p.title, p.spacer_type, p.status, p.critical_count, p.warning_count
			FROM programs p WHERE 1=1`)
	}

	if opts.Status != "" {
		sb.WriteString(` AND p.status = ?`)
		args = append(args, opts.Status)
	}
	if opts.Type != "" {
		sb.WriteString(` AND p.spacer_type = ?`)
		args = append(args, opts.Type)
	}

	sb.WriteString(` ORDER BY p.critical_count DESC, p.warning_count DESC, p.program_number LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ProgramNumber, &r.Title, &r.SpacerType, &r.Status, &r.CriticalCount, &r.WarningCount); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns the full audit record for one program.
func (s *Store) Get(ctx context.Context, programNumber string) (*types.ParseResult, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM programs WHERE program_number = ?`, programNumber,
	).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("program %s not in catalog", programNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}

	var res types.ParseResult
	if err := yaml.Unmarshal([]byte(record), &res); err != nil {
		return nil, fmt.Errorf("unmarshaling record: %w", err)
	}
	return &res, nil
}
