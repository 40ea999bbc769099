// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext opens PDF files and reads their text, either as the full
// text of each page or as an ordered list of text blocks with geometry.
// Two parsing backends are available: ledongthuc/pdf and tabula.
package pdftext

import (
	"errors"
	"fmt"

	"github.com/pdiddy/pdfstruct/pkg/types"
)

// ErrInvalidPDF is returned when a file fails structural validation.
var ErrInvalidPDF = errors.New("invalid PDF")

// Document is an open PDF. Pages are addressed by 0-based index and are
// read in order. Close must be called on every path once reading is done.
type Document interface {
	// NumPages returns the number of pages in the document.
	NumPages() int

	// PageText returns the full text of page i.
	PageText(i int) (string, error)

	// PageBlocks returns the text blocks of page i in the order the
	// backend yields them.
	PageBlocks(i int) ([]types.RawBlock, error)

	// Close releases the underlying file.
	Close() error
}

// Opener opens documents with a specific parsing backend.
type Opener interface {
	// Name returns the backend name.
	Name() string

	// Open opens the PDF at path.
	Open(path string) (Document, error)
}

// NewOpener returns the Opener for backend. An empty backend selects
// ledongthuc.
func NewOpener(backend types.Backend) (Opener, error) {
	switch backend {
	case types.BackendLedongthuc, "":
		return NewLedongthucOpener(), nil
	case types.BackendTabula:
		return NewTabulaOpener(), nil
	default:
		return nil, fmt.Errorf("unsupported backend %q: use %s or %s",
			backend, types.BackendLedongthuc, types.BackendTabula)
	}
}

// recoverTo turns a panic raised by a parsing library into an error stored
// in *err. Both backends panic on some malformed inputs.
func recoverTo(err *error, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: malformed PDF: %v", op, r)
	}
}
