// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index loads structured outputs into a SQLite database with a
// full-text index over heading and paragraph text. Files are re-ingested
// only when their modification time changes.
//
// Full-text search needs the sqlite_fts5 build tag for mattn/go-sqlite3.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdfstruct/internal/output"
	"github.com/pdiddy/pdfstruct/pkg/types"
)

const (
	dbFile            = "pdfstruct.db"
	defaultMaxResults = 20
)

// Store manages the index database.
type Store struct {
	db         *sql.DB
	outputDir  string
	indexDir   string
	maxResults int
}

// NewStore opens or creates the database at IndexDir/pdfstruct.db and
// creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if cfg.IndexDir == "" {
		return nil, fmt.Errorf("index directory is required")
	}
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		outputDir:  cfg.OutputDir,
		indexDir:   cfg.IndexDir,
		maxResults: maxResults,
	}
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

// Path returns the database file path.
func (s *Store) Path() string {
	return filepath.Join(s.indexDir, dbFile)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			file TEXT NOT NULL,
			headings INTEGER NOT NULL DEFAULT 0,
			paragraphs INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL REFERENCES documents(id),
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			UNIQUE(doc_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_type ON items(type)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			doc_id TEXT PRIMARY KEY,
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
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='items_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE items_fts USING fts5(content, content=items, content_rowid=rowid)`,
		`CREATE TRIGGER items_ai AFTER INSERT ON items BEGIN
			INSERT INTO items_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER items_ad AFTER DELETE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, content) VALUES('delete', old.rowid, old.content);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return ftsError(err)
		}
	}
	return nil
}

// ftsError wraps a failure to create the FTS5 table, pointing at the build
// tag when the driver was compiled without FTS5.
func ftsError(err error) error {
	if strings.Contains(err.Error(), "no such module: fts5") {
		return fmt.Errorf("creating FTS infrastructure: %w (rebuild with -tags sqlite_fts5)", err)
	}
	return fmt.Errorf("creating FTS infrastructure: %w", err)
}

// IngestSummary holds counts from one indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads every *_structured.json file in the output directory and
// loads it into the database. New files are indexed, files whose
// modification time changed are replaced, and unchanged files are skipped.
// A file that cannot be read or decoded is reported and counted as failed.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading output directory %s: %w", s.outputDir, err)
	}

	var summary IngestSummary
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !output.IsStructuredName(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		docID := output.StemFromStructured(entry.Name())
		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var stored string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE doc_id = ?`, docID,
		).Scan(&stored)
		if err == nil && stored == modTime {
			fmt.Fprintf(w, "skipped %s\n", docID)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		data, err := os.ReadFile(filepath.Join(s.outputDir, entry.Name()))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		items, err := output.DecodeStructured(data)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		res := types.DocumentResult{Source: entry.Name(), Items: items}
		if err := s.ingestDocument(ctx, docID, res, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d items)\n", docID, len(items))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d items)\n", docID, len(items))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

func (s *Store) ingestDocument(ctx context.Context, docID string, res types.DocumentResult, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE doc_id = ?`, docID); err != nil {
		return fmt.Errorf("deleting old items: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, file, headings, paragraphs) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			file=excluded.file, headings=excluded.headings, paragraphs=excluded.paragraphs`,
		docID, res.Source, res.Headings(), res.Paragraphs(),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (doc_id, position, type, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range res.Items {
		if _, err := stmt.ExecContext(ctx, docID, i+1, string(item.Kind), item.Text); err != nil {
			return fmt.Errorf("inserting item %d: %w", i+1, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (doc_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		docID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// Stats summarizes the index contents.
type Stats struct {
	Documents  int `json:"documents" yaml:"documents"`
	Headings   int `json:"headings" yaml:"headings"`
	Paragraphs int `json:"paragraphs" yaml:"paragraphs"`
}

// Stats counts indexed documents and items.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*), coalesce(sum(headings), 0), coalesce(sum(paragraphs), 0) FROM documents`,
	).Scan(&st.Documents, &st.Headings, &st.Paragraphs)
	if err != nil {
		return Stats{}, fmt.Errorf("counting index contents: %w", err)
	}
	return st, nil
}
