// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfstruct/internal/output"
	"github.com/pdiddy/pdfstruct/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "output")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	store, err := NewStore(types.IndexConfig{
		OutputDir:  outDir,
		IndexDir:   filepath.Join(tmpDir, "index"),
		MaxResults: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, outDir
}

func heading(s string) types.ContentItem {
	return types.ContentItem{Kind: types.KindHeading, Text: s}
}

func paragraph(s string) types.ContentItem {
	return types.ContentItem{Kind: types.KindParagraph, Text: s}
}

// writeOutput writes items to outDir/<stem>_structured.json in keyed or
// list form and returns the path.
func writeOutput(t *testing.T, outDir, stem string, keyed bool, items ...types.ContentItem) string {
	t.Helper()
	path := filepath.Join(outDir, output.StructuredName(stem+".pdf"))
	var v any = items
	if keyed {
		v = output.Keyed(items)
	}
	require.NoError(t, output.WriteJSON(path, v))
	return path
}

func sampleOutputs(t *testing.T, outDir string) {
	t.Helper()
	writeOutput(t, outDir, "alpha", true,
		heading("INTRODUCTION"),
		paragraph("Transformers dominate sequence modeling."),
		heading("Method"),
		paragraph("We train a convolutional baseline."),
	)
	writeOutput(t, outDir, "beta", false,
		heading("Background"),
		paragraph("Recurrent networks preceded transformers."),
	)
}

// --- store ---

func TestNewStore_CreatesDB(t *testing.T) {
	store, _ := testSetup(t)
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)

	var n int
	require.NoError(t, store.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE name IN ('documents','items','items_fts','indexing_status')`,
	).Scan(&n))
	assert.Equal(t, 4, n)
}

func TestNewStore_RequiresIndexDir(t *testing.T) {
	_, err := NewStore(types.IndexConfig{OutputDir: t.TempDir()})
	assert.Error(t, err)
}

func TestNewStore_ReopenKeepsSchema(t *testing.T) {
	dir := t.TempDir()
	cfg := types.IndexConfig{OutputDir: dir, IndexDir: filepath.Join(dir, "index")}
	s1, err := NewStore(cfg)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := NewStore(cfg)
	require.NoError(t, err)
	assert.NoError(t, s2.Close())
}

func TestIngest(t *testing.T) {
	store, outDir := testSetup(t)
	sampleOutputs(t, outDir)
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "gamma.json"), []byte(`{"source_file":"gamma.pdf"}`), 0o644))

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), &buf)
	require.NoError(t, err)

	assert.Equal(t, IngestSummary{Indexed: 2}, summary)
	assert.Equal(t, 2, summary.Total())
	assert.Contains(t, buf.String(), "indexing alpha (4 items)")
	assert.Contains(t, buf.String(), "indexing beta (2 items)")
	assert.Contains(t, buf.String(), "indexed: 2, updated: 0, skipped: 0, failed: 0")

	st, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Documents: 2, Headings: 3, Paragraphs: 3}, st)
}

func TestIngest_KeyedPositionsFollowFileOrder(t *testing.T) {
	store, outDir := testSetup(t)
	sampleOutputs(t, outDir)
	_, err := store.Ingest(context.Background(), &strings.Builder{})
	require.NoError(t, err)

	results, err := store.Retrieve(context.Background(), QueryOptions{Doc: "alpha"})
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, i+1, r.Position)
	}
	assert.Equal(t, types.KindHeading, results[2].Kind)
	assert.Equal(t, "Method", results[2].Text)
}

func TestIngest_SkipsUnchanged(t *testing.T) {
	store, outDir := testSetup(t)
	sampleOutputs(t, outDir)

	_, err := store.Ingest(context.Background(), &strings.Builder{})
	require.NoError(t, err)

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Skipped: 2}, summary)
	assert.Contains(t, buf.String(), "skipped alpha")
}

func TestIngest_UpdatesChanged(t *testing.T) {
	store, outDir := testSetup(t)
	path := writeOutput(t, outDir, "paper", false, heading("Old Title"), paragraph("old text."))

	_, err := store.Ingest(context.Background(), &strings.Builder{})
	require.NoError(t, err)

	writeOutput(t, outDir, "paper", true, paragraph("replacement text."))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	summary, err := store.Ingest(context.Background(), &strings.Builder{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	results, err := store.Retrieve(context.Background(), QueryOptions{Doc: "paper"})
	require.NoError(t, err)
	require.Len(t, results, 1, "old items should be removed")
	assert.Equal(t, "replacement text.", results[0].Text)

	hits, err := store.Retrieve(context.Background(), QueryOptions{Query: "old"})
	require.NoError(t, err)
	assert.Empty(t, hits, "full-text index should drop replaced items")
}

func TestIngest_CorruptFileCountedAsFailed(t *testing.T) {
	store, outDir := testSetup(t)
	sampleOutputs(t, outDir)
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "broken_structured.json"), []byte("{not json"), 0o644))

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Indexed)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, buf.String(), "failed  broken")
}

func TestIngest_MissingOutputDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(types.IndexConfig{OutputDir: filepath.Join(dir, "nope"), IndexDir: dir})
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Ingest(context.Background(), &strings.Builder{})
	assert.Error(t, err)
}

// --- retrieve ---

func ingested(t *testing.T) *Store {
	t.Helper()
	store, outDir := testSetup(t)
	sampleOutputs(t, outDir)
	_, err := store.Ingest(context.Background(), &strings.Builder{})
	require.NoError(t, err)
	return store
}

func TestRetrieve(t *testing.T) {
	store := ingested(t)

	tests := []struct {
		name  string
		opts  QueryOptions
		wantN int
		check func(t *testing.T, rs []Result)
	}{
		{
			name:  "full text",
			opts:  QueryOptions{Query: "transformers"},
			wantN: 2,
		},
		{
			name:  "full text with doc filter",
			opts:  QueryOptions{Query: "transformers", Doc: "beta"},
			wantN: 1,
			check: func(t *testing.T, rs []Result) {
				assert.Equal(t, "beta", rs[0].Doc)
			},
		},
		{
			name:  "kind filter",
			opts:  QueryOptions{Kind: types.KindHeading},
			wantN: 3,
			check: func(t *testing.T, rs []Result) {
				for _, r := range rs {
					assert.Equal(t, types.KindHeading, r.Kind)
				}
			},
		},
		{
			name:  "structured order",
			opts:  QueryOptions{},
			wantN: 6,
			check: func(t *testing.T, rs []Result) {
				assert.Equal(t, "alpha", rs[0].Doc)
				assert.Equal(t, 1, rs[0].Position)
				assert.Equal(t, "beta", rs[5].Doc)
			},
		},
		{
			name:  "max results",
			opts:  QueryOptions{MaxResults: 2},
			wantN: 2,
		},
		{
			name:  "no match",
			opts:  QueryOptions{Query: "zeppelin"},
			wantN: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := store.Retrieve(context.Background(), tt.opts)
			require.NoError(t, err)
			require.Len(t, rs, tt.wantN)
			if tt.check != nil {
				tt.check(t, rs)
			}
		})
	}
}

// --- export ---

func TestExportYAML(t *testing.T) {
	store := ingested(t)

	path, err := store.Export(context.Background(), FormatYAML, QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.indexDir, "export.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var docs []ExportDocument
	require.NoError(t, yaml.Unmarshal(data, &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "alpha", docs[0].Doc)
	assert.Len(t, docs[0].Items, 4)
	assert.Equal(t, ExportItem{Type: "heading", Text: "Background"}, docs[1].Items[0])
}

func TestExportJSON_Filtered(t *testing.T) {
	store := ingested(t)

	path, err := store.Export(context.Background(), FormatJSON, QueryOptions{Kind: types.KindParagraph, Query: "ignored"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var docs []ExportDocument
	require.NoError(t, json.Unmarshal(data, &docs))
	require.Len(t, docs, 2)
	for _, d := range docs {
		for _, it := range d.Items {
			assert.Equal(t, "paragraph", it.Type)
		}
	}
}

func TestExport_EmptyIndex(t *testing.T) {
	store, _ := testSetup(t)
	path, err := store.ExportJSON(context.Background(), QueryOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestExport_UnknownFormat(t *testing.T) {
	store, _ := testSetup(t)
	_, err := store.Export(context.Background(), "csv", QueryOptions{})
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestFTSError(t *testing.T) {
	cause := errors.New("no such module: fts5")
	err := ftsError(cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, "-tags sqlite_fts5")

	other := ftsError(errors.New("disk I/O error"))
	assert.NotContains(t, other.Error(), "sqlite_fts5")
}
