// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/pdfstruct/pkg/types"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is an FTS5 match expression. Empty lists items in document order.
	Query string

	// Kind restricts results to headings or paragraphs.
	Kind types.ItemKind

	// Doc restricts results to one document stem.
	Doc string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Result is one indexed item with its location.
type Result struct {
	Doc      string         `json:"doc" yaml:"doc"`
	Position int            `json:"position" yaml:"position"`
	Kind     types.ItemKind `json:"type" yaml:"type"`
	Text     string         `json:"text" yaml:"text"`
}

// Retrieve queries the index. Full-text queries are ranked by relevance;
// filter-only queries return items by document and position.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT i.doc_id, i.position, i.type, i.content
			FROM items_fts
			JOIN items i ON i.rowid = items_fts.rowid
			WHERE items_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT i.doc_id, i.position, i.type, i.content
			FROM items i
			WHERE 1=1`)
	}

	if opts.Kind != "" {
		qb.WriteString(` AND i.type = ?`)
		args = append(args, string(opts.Kind))
	}
	if opts.Doc != "" {
		qb.WriteString(` AND i.doc_id = ?`)
		args = append(args, opts.Doc)
	}

	if useFTS {
		qb.WriteString(` ORDER BY items_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY i.doc_id, i.position`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r    Result
			kind string
		)
		if err := rows.Scan(&r.Doc, &r.Position, &kind, &r.Text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Kind = types.ItemKind(kind)
		results = append(results, r)
	}
	return results, rows.Err()
}
