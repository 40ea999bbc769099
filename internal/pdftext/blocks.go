// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"math"
	"strings"

	"github.com/pdiddy/pdfstruct/pkg/types"
)

// BlockConfig controls how positioned glyphs are grouped into lines and
// lines into blocks. Factors are relative to the font size.
type BlockConfig struct {
	// LineTolerance is the baseline difference still treated as the same
	// line (default: 0.5).
	LineTolerance float64

	// LineGapFactor is the largest baseline distance between two lines of
	// one block (default: 1.5).
	LineGapFactor float64

	// SpaceGapFactor is the horizontal gap between glyphs that is rendered
	// as a space (default: 0.15).
	SpaceGapFactor float64

	// FontSizeChange is the relative font size difference that starts a
	// new block (default: 0.2).
	FontSizeChange float64
}

// DefaultBlockConfig returns the grouping thresholds used by the
// ledongthuc backend.
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		LineTolerance:  0.5,
		LineGapFactor:  1.5,
		SpaceGapFactor: 0.15,
		FontSizeChange: 0.2,
	}
}

const defaultFontSize = 10.0

// glyph is one positioned text run as reported by the content stream.
// Y is the baseline.
type glyph struct {
	X, Y, W float64
	Size    float64
	S       string
}

func (g glyph) size() float64 {
	if g.Size <= 0 {
		return defaultFontSize
	}
	return g.Size
}

// line is a run of glyphs sharing a baseline.
type line struct {
	glyphs []glyph
	y      float64
	size   float64
	x0, x1 float64
}

func (l *line) add(g glyph) {
	if len(l.glyphs) == 0 {
		l.y, l.size, l.x0, l.x1 = g.Y, g.size(), g.X, g.X+g.W
	} else {
		l.size = max(l.size, g.size())
		l.x0 = min(l.x0, g.X)
		l.x1 = max(l.x1, g.X+g.W)
	}
	l.glyphs = append(l.glyphs, g)
}

func (l *line) text(spaceGap float64) string {
	var b strings.Builder
	for i, g := range l.glyphs {
		if i > 0 {
			prev := l.glyphs[i-1]
			gap := g.X - (prev.X + prev.W)
			if gap > g.size()*spaceGap && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	return b.String()
}

// groupLines walks glyphs in content-stream order and starts a new line
// whenever the baseline moves by more than the tolerance or the text jumps
// back to the left of the current line.
func groupLines(glyphs []glyph, cfg BlockConfig) []*line {
	var lines []*line
	var cur *line
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil {
			sameBaseline := math.Abs(g.Y-cur.y) <= cur.size*cfg.LineTolerance
			forward := g.X >= cur.x1-cur.size
			if sameBaseline && forward {
				cur.add(g)
				continue
			}
		}
		cur = &line{}
		cur.add(g)
		lines = append(lines, cur)
	}
	return lines
}

// sameBlock reports whether next continues the block whose last line is
// prev: it sits just below prev, overlaps it horizontally, and uses a
// similar font size.
func sameBlock(prev, next *line, cfg BlockConfig) bool {
	drop := prev.y - next.y
	if drop <= 0 || drop > max(prev.size, next.size)*cfg.LineGapFactor {
		return false
	}
	if next.x0 > prev.x1 || prev.x0 > next.x1 {
		return false
	}
	return math.Abs(prev.size-next.size) <= max(prev.size, next.size)*cfg.FontSizeChange
}

// groupBlocks builds the raw blocks of one page. Lines inside a block are
// joined by "\n". Blocks whose text is entirely whitespace are dropped.
func groupBlocks(glyphs []glyph, page int, source string, cfg BlockConfig) []types.RawBlock {
	lines := groupLines(glyphs, cfg)
	if len(lines) == 0 {
		return nil
	}

	var blocks []types.RawBlock
	var texts []string
	var box types.BBox

	flush := func() {
		text := strings.Join(texts, "\n")
		if strings.TrimSpace(text) != "" {
			blocks = append(blocks, types.RawBlock{Text: text, Page: page, Source: source, BBox: box})
		}
		texts, box = nil, types.BBox{}
	}

	for i, l := range lines {
		if i > 0 && !sameBlock(lines[i-1], l, cfg) {
			flush()
		}
		texts = append(texts, l.text(cfg.SpaceGapFactor))
		box = box.Union(types.BBox{X0: l.x0, Y0: l.y, X1: l.x1, Y1: l.y + l.size})
	}
	flush()
	return blocks
}
