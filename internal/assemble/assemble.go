// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble turns the block stream of a PDF into an ordered list of
// headings and paragraphs. Consecutive paragraph blocks are merged, which
// rejoins paragraphs the extractor split at column or page boundaries.
package assemble

import (
	"github.com/pdiddy/pdfstruct/internal/classify"
	"github.com/pdiddy/pdfstruct/internal/normalize"
	"github.com/pdiddy/pdfstruct/pkg/types"
)

// Builder accumulates content items one block at a time. The zero value is
// ready to use. A Builder belongs to a single document.
type Builder struct {
	items []types.ContentItem
}

// Add normalizes and classifies one block and appends it to the result.
// A paragraph directly following another paragraph is merged into it with
// a single space, regardless of page boundaries. Blocks that normalize to
// empty text are ignored. Add reports whether the block contributed text.
func (b *Builder) Add(block types.RawBlock) bool {
	text := normalize.Normalize(block.Text)
	if text == "" {
		return false
	}

	kind := classify.Classify(text)
	if kind == types.KindParagraph && len(b.items) > 0 {
		last := &b.items[len(b.items)-1]
		if last.Kind == types.KindParagraph {
			last.Text += " " + text
			return true
		}
	}

	b.items = append(b.items, types.ContentItem{Kind: kind, Text: text})
	return true
}

// Items returns the content items assembled so far.
func (b *Builder) Items() []types.ContentItem {
	return b.items
}

// Len returns the number of items assembled so far.
func (b *Builder) Len() int {
	return len(b.items)
}

// Assemble runs every block through a fresh Builder in order and returns
// the resulting items.
func Assemble(blocks []types.RawBlock) []types.ContentItem {
	var b Builder
	for _, block := range blocks {
		b.Add(block)
	}
	return b.Items()
}
