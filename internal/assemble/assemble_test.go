// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdfstruct/pkg/types"
)

func blocks(texts ...string) []types.RawBlock {
	out := make([]types.RawBlock, len(texts))
	for i, t := range texts {
		out[i] = types.RawBlock{Text: t, Source: "doc.pdf"}
	}
	return out
}

func heading(text string) types.ContentItem {
	return types.ContentItem{Kind: types.KindHeading, Text: text}
}

func paragraph(text string) types.ContentItem {
	return types.ContentItem{Kind: types.KindParagraph, Text: text}
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name   string
		blocks []types.RawBlock
		want   []types.ContentItem
	}{
		{
			name:   "no blocks",
			blocks: nil,
			want:   nil,
		},
		{
			name:   "heading then body",
			blocks: blocks("INTRODUCTION", "This is the body text of the document."),
			want: []types.ContentItem{
				heading("INTRODUCTION"),
				paragraph("This is the body text of the document."),
			},
		},
		{
			name:   "consecutive paragraphs merge",
			blocks: blocks("foo", "bar"),
			want:   []types.ContentItem{paragraph("foo bar")},
		},
		{
			name:   "paragraph heading paragraph stay separate",
			blocks: blocks("first body text here.", "METHODS", "second body text here."),
			want: []types.ContentItem{
				paragraph("first body text here."),
				heading("METHODS"),
				paragraph("second body text here."),
			},
		},
		{
			name:   "headings never merge",
			blocks: blocks("PART ONE", "Chapter Two"),
			want:   []types.ContentItem{heading("PART ONE"), heading("Chapter Two")},
		},
		{
			name:   "empty blocks skipped and do not break merges",
			blocks: blocks("one piece of text.", "   ", "\n", "another piece of text."),
			want:   []types.ContentItem{paragraph("one piece of text. another piece of text.")},
		},
		{
			name:   "block text normalized before classification",
			blocks: blocks("Results\nSection", "the model was\ntrained. the model was\ntrained."),
			want: []types.ContentItem{
				heading("Results Section"),
				paragraph("the model was trained."),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assemble(tt.blocks))
		})
	}
}

func TestAssemble_MergesAcrossPages(t *testing.T) {
	in := []types.RawBlock{
		{Text: "the experiment continued", Page: 0},
		{Text: "on the next page.", Page: 1},
	}
	got := Assemble(in)
	require.Len(t, got, 1)
	assert.Equal(t, "the experiment continued on the next page.", got[0].Text)
}

func TestBuilder_Add(t *testing.T) {
	var b Builder
	assert.False(t, b.Add(types.RawBlock{Text: " \n "}))
	assert.Equal(t, 0, b.Len())

	assert.True(t, b.Add(types.RawBlock{Text: "ABSTRACT"}))
	assert.True(t, b.Add(types.RawBlock{Text: "we propose a method."}))
	assert.True(t, b.Add(types.RawBlock{Text: "it works well."}))
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, "we propose a method. it works well.", b.Items()[1].Text)
}

func TestAssemble_ItemInvariant(t *testing.T) {
	got := Assemble(blocks("  Padded Heading  ", "\tpadded body text.\n", "", "x"))
	for _, it := range got {
		assert.NotEmpty(t, it.Text)
		assert.Equal(t, strings.TrimSpace(it.Text), it.Text)
	}
}
