// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfstruct/internal/output"
)

const exportLimit = 1000000

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportDocument groups the indexed items of one document.
type ExportDocument struct {
	Doc   string       `json:"doc" yaml:"doc"`
	Items []ExportItem `json:"items" yaml:"items"`
}

// ExportItem is one heading or paragraph in an export.
type ExportItem struct {
	Type string `json:"type" yaml:"type"`
	Text string `json:"text" yaml:"text"`
}

// Export writes the index to IndexDir/export.<format> and returns the file
// path. It accepts the same filters as Retrieve; Query is ignored so that
// items stay in document order.
func (s *Store) Export(ctx context.Context, format string, opts QueryOptions) (string, error) {
	switch format {
	case FormatYAML:
		return s.ExportYAML(ctx, opts)
	case FormatJSON:
		return s.ExportJSON(ctx, opts)
	default:
		return "", fmt.Errorf("unsupported export format %q: use %s or %s", format, FormatYAML, FormatJSON)
	}
}

// ExportYAML writes the index to IndexDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	docs, err := s.exportDocuments(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.indexDir, "export.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ExportJSON writes the index to IndexDir/export.json.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	docs, err := s.exportDocuments(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.indexDir, "export.json")
	if err := output.WriteJSON(path, docs); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) exportDocuments(ctx context.Context, opts QueryOptions) ([]ExportDocument, error) {
	opts.Query = ""
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	docs := []ExportDocument{}
	for _, r := range results {
		if n := len(docs); n == 0 || docs[n-1].Doc != r.Doc {
			docs = append(docs, ExportDocument{Doc: r.Doc})
		}
		last := &docs[len(docs)-1]
		last.Items = append(last.Items, ExportItem{Type: string(r.Kind), Text: r.Text})
	}
	return docs, nil
}
