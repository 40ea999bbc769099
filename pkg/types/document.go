// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the pdfstruct stages.
package types

// BBox is an axis-aligned rectangle in PDF user-space points. Y grows
// upward, so Y1 is the top edge.
type BBox struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// Union returns the smallest box containing both b and o. A zero box is
// treated as empty.
func (b BBox) Union(o BBox) BBox {
	if b == (BBox{}) {
		return o
	}
	if o == (BBox{}) {
		return b
	}
	return BBox{
		X0: min(b.X0, o.X0),
		Y0: min(b.Y0, o.Y0),
		X1: max(b.X1, o.X1),
		Y1: max(b.Y1, o.Y1),
	}
}

// RawBlock is one text block as segmented by the PDF layer. Text may
// contain embedded newlines between the lines of the block.
type RawBlock struct {
	// Text is the block content, lines separated by "\n".
	Text string `json:"text" yaml:"text"`

	// Page is the 0-based page index the block was found on.
	Page int `json:"page" yaml:"page"`

	// Source identifies the document (its file name).
	Source string `json:"source" yaml:"source"`

	// BBox is the block's bounding box on its page.
	BBox BBox `json:"bbox" yaml:"bbox"`
}

// ItemKind labels a ContentItem.
type ItemKind string

const (
	KindHeading   ItemKind = "heading"
	KindParagraph ItemKind = "paragraph"
)

// ContentItem is one unit of structured output. Text is never empty and
// carries no leading or trailing whitespace.
type ContentItem struct {
	Kind ItemKind `json:"type" yaml:"type"`
	Text string   `json:"text" yaml:"text"`
}

// DocumentResult is the ordered structure recovered from one PDF.
type DocumentResult struct {
	// Source is the input file name the result was produced from.
	Source string `json:"source" yaml:"source"`

	// Items are the content items in reading order.
	Items []ContentItem `json:"items" yaml:"items"`
}

// Headings returns the number of heading items in the result.
func (r DocumentResult) Headings() int {
	n := 0
	for _, it := range r.Items {
		if it.Kind == KindHeading {
			n++
		}
	}
	return n
}

// Paragraphs returns the number of paragraph items in the result.
func (r DocumentResult) Paragraphs() int {
	return len(r.Items) - r.Headings()
}

// RawDump is the raw text export of one PDF.
type RawDump struct {
	SourceFile    string `json:"source_file" yaml:"source_file"`
	ExtractedText string `json:"extracted_text" yaml:"extracted_text"`
}
