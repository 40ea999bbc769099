// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsawler/tabula/layout"
	"github.com/tsawler/tabula/reader"

	"github.com/pdiddy/pdfstruct/pkg/types"
)

// TabulaOpener reads PDFs with github.com/tsawler/tabula and uses its
// geometric block detector to segment each page.
type TabulaOpener struct {
	Config layout.BlockConfig
}

// NewTabulaOpener returns an opener with tabula's default block settings.
func NewTabulaOpener() *TabulaOpener {
	return &TabulaOpener{Config: layout.DefaultBlockConfig()}
}

func (o *TabulaOpener) Name() string { return string(types.BackendTabula) }

// Open opens the PDF at path and loads its page tree.
func (o *TabulaOpener) Open(path string) (doc Document, err error) {
	defer recoverTo(&err, "opening "+path)

	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	n, err := r.PageCount()
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("reading page tree of %s: %w", path, err)
	}
	return &tabulaDocument{
		reader:   r,
		pages:    n,
		source:   filepath.Base(path),
		detector: layout.NewBlockDetectorWithConfig(o.Config),
	}, nil
}

type tabulaDocument struct {
	reader   *reader.Reader
	pages    int
	source   string
	detector *layout.BlockDetector
}

func (d *tabulaDocument) NumPages() int { return d.pages }

func (d *tabulaDocument) detect(i int) (*layout.BlockLayout, error) {
	page, err := d.reader.GetPage(i)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", i+1, err)
	}
	fragments, err := d.reader.ExtractTextFragments(page)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", i+1, err)
	}
	width, _ := page.Width()
	height, _ := page.Height()
	return d.detector.Detect(fragments, width, height), nil
}

func (d *tabulaDocument) PageText(i int) (text string, err error) {
	defer recoverTo(&err, fmt.Sprintf("page %d", i+1))

	l, err := d.detect(i)
	if err != nil {
		return "", err
	}
	return l.GetText(), nil
}

func (d *tabulaDocument) PageBlocks(i int) (blocks []types.RawBlock, err error) {
	defer recoverTo(&err, fmt.Sprintf("page %d", i+1))

	l, err := d.detect(i)
	if err != nil {
		return nil, err
	}
	for _, b := range l.Blocks {
		text := b.GetText()
		if strings.TrimSpace(text) == "" {
			continue
		}
		blocks = append(blocks, types.RawBlock{
			Text:   text,
			Page:   i,
			Source: d.source,
			BBox: types.BBox{
				X0: b.BBox.X,
				Y0: b.BBox.Y,
				X1: b.BBox.X + b.BBox.Width,
				Y1: b.BBox.Y + b.BBox.Height,
			},
		})
	}
	return blocks, nil
}

func (d *tabulaDocument) Close() error {
	return d.reader.Close()
}
