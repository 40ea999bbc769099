// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdfstruct/pkg/types"
)

// LedongthucOpener reads PDFs with github.com/ledongthuc/pdf. Blocks are
// built from the positioned glyphs of each page using Config.
type LedongthucOpener struct {
	Config BlockConfig
}

// NewLedongthucOpener returns an opener with DefaultBlockConfig.
func NewLedongthucOpener() *LedongthucOpener {
	return &LedongthucOpener{Config: DefaultBlockConfig()}
}

func (o *LedongthucOpener) Name() string { return string(types.BackendLedongthuc) }

// newReader is pdf.NewReader, replaceable in tests.
var newReader = pdf.NewReader

// Open opens the PDF at path. The returned document owns the file handle;
// on any failure, including a library panic, the file is closed.
func (o *LedongthucOpener) Open(path string) (doc Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("opening %s: malformed PDF: %v", path, r)
		}
		if err != nil {
			f.Close()
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	r, err := newReader(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &ledongthucDocument{
		file:   f,
		reader: r,
		source: filepath.Base(path),
		config: o.Config,
	}, nil
}

type ledongthucDocument struct {
	file   *os.File
	reader *pdf.Reader
	source string
	config BlockConfig
}

func (d *ledongthucDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *ledongthucDocument) page(i int) (pdf.Page, bool) {
	p := d.reader.Page(i + 1)
	return p, !p.V.IsNull()
}

func (d *ledongthucDocument) glyphs(p pdf.Page) []glyph {
	content := p.Content()
	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
	}
	return glyphs
}

// PageText returns the lines of page i joined by "\n". Lines are built the
// same way as for PageBlocks, so separate text objects and kerned runs keep
// their word gaps.
func (d *ledongthucDocument) PageText(i int) (text string, err error) {
	defer recoverTo(&err, fmt.Sprintf("page %d", i+1))

	p, ok := d.page(i)
	if !ok {
		return "", nil
	}
	lines := groupLines(d.glyphs(p), d.config)
	texts := make([]string, len(lines))
	for j, l := range lines {
		texts[j] = l.text(d.config.SpaceGapFactor)
	}
	return strings.Join(texts, "\n"), nil
}

func (d *ledongthucDocument) PageBlocks(i int) (blocks []types.RawBlock, err error) {
	defer recoverTo(&err, fmt.Sprintf("page %d", i+1))

	p, ok := d.page(i)
	if !ok {
		return nil, nil
	}
	return groupBlocks(d.glyphs(p), i, d.source, d.config), nil
}

func (d *ledongthucDocument) Close() error {
	return d.file.Close()
}
