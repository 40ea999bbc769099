// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the PDF-to-JSON batch: it discovers PDFs in the
// input directory and, for each one, extracts text, recovers the heading /
// paragraph structure and writes one JSON file to the output directory.
// A failing document is logged and skipped; the batch always continues.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/pdfstruct/internal/assemble"
	"github.com/pdiddy/pdfstruct/internal/output"
	"github.com/pdiddy/pdfstruct/internal/pdftext"
	"github.com/pdiddy/pdfstruct/pkg/types"
)

// Error kinds carried by DocumentError.
var (
	// ErrParse marks a document that could not be opened, validated or read.
	ErrParse = errors.New("parse failure")

	// ErrWrite marks a document whose output file could not be written.
	ErrWrite = errors.New("write failure")

	// ErrNoContent marks a document with no extractable text. Such
	// documents are skipped without output.
	ErrNoContent = errors.New("no text content")
)

// DocumentError reports why one document produced no output.
type DocumentError struct {
	Path string
	Kind error
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", filepath.Base(e.Path), e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", filepath.Base(e.Path), e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause to
// errors.Is and errors.As.
func (e *DocumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func docError(path string, kind, err error) *DocumentError {
	return &DocumentError{Path: path, Kind: kind, Err: err}
}

// Status is the outcome of converting one document.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// Errors holds the DocumentError of every failed document in order.
	Errors []error
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline converts PDFs according to a PipelineConfig. It holds no state
// between documents.
type Pipeline struct {
	cfg      types.PipelineConfig
	opener   pdftext.Opener
	log      *slog.Logger
	validate func(path string) error
}

// NewPipeline checks cfg and resolves its directories to absolute paths.
// A nil logger discards diagnostics.
func NewPipeline(cfg types.PipelineConfig, opener pdftext.Opener, log *slog.Logger) (*Pipeline, error) {
	switch cfg.Mode {
	case types.ModeRaw, types.ModeList, types.ModeKeyed:
	default:
		return nil, fmt.Errorf("unsupported mode %q: use %s, %s, or %s",
			cfg.Mode, types.ModeRaw, types.ModeList, types.ModeKeyed)
	}
	if opener == nil {
		return nil, errors.New("no PDF backend configured")
	}
	if cfg.InputDir == "" || cfg.OutputDir == "" {
		return nil, errors.New("input and output directories are required")
	}

	var err error
	if cfg.InputDir, err = filepath.Abs(cfg.InputDir); err != nil {
		return nil, fmt.Errorf("resolving input directory: %w", err)
	}
	if cfg.OutputDir, err = filepath.Abs(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}

	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Pipeline{cfg: cfg, opener: opener, log: log}
	if cfg.Validate {
		p.validate = pdftext.Validate
	}
	return p, nil
}

// Config returns the resolved configuration.
func (p *Pipeline) Config() types.PipelineConfig {
	return p.cfg
}

// Run creates the output directory, lists the PDFs in the input directory
// and converts them in file-name order. Only a missing input directory or
// an output directory that cannot be created fail the run as a whole.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) (BatchResult, error) {
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory %s: %w", p.cfg.OutputDir, err)
	}

	paths, err := ListPDFs(p.cfg.InputDir)
	if err != nil {
		return BatchResult{}, err
	}
	fmt.Fprintf(w, "Searching for PDFs in: %s (%d found)\n", p.cfg.InputDir, len(paths))

	return p.ConvertBatch(ctx, paths, w)
}

// ConvertBatch converts each path in order, printing per-file status to w
// and returning a summary. The context is checked between documents.
func (p *Pipeline) ConvertBatch(ctx context.Context, paths []string, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		status, err := p.ConvertDocument(path, w)
		switch status {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
			result.Errors = append(result.Errors, err)
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// ConvertDocument converts the PDF at path and writes its JSON file to the
// output directory. Empty documents are skipped; any other problem is
// returned as a *DocumentError with StatusFailed.
func (p *Pipeline) ConvertDocument(path string, w io.Writer) (Status, error) {
	name := filepath.Base(path)
	p.log.Debug("processing", "file", name, "mode", p.cfg.Mode, "backend", p.opener.Name())

	var (
		outName string
		payload any
		err     error
	)
	if !p.cfg.Mode.Structured() {
		outName = output.RawName(path)
		payload, err = p.RawText(path)
	} else {
		outName = output.StructuredName(path)
		var res types.DocumentResult
		res, err = p.Structure(path)
		payload = p.structuredPayload(res)
		if err == nil {
			p.log.Debug("assembled", "file", name, "headings", res.Headings(), "paragraphs", res.Paragraphs())
		}
	}

	if errors.Is(err, ErrNoContent) {
		fmt.Fprintf(w, "skipped: %s (no text content)\n", name)
		return StatusSkipped, nil
	}
	if err != nil {
		return p.fail(w, err)
	}

	outPath := filepath.Join(p.cfg.OutputDir, outName)
	if err := output.WriteJSON(outPath, payload); err != nil {
		return p.fail(w, docError(path, ErrWrite, err))
	}

	fmt.Fprintf(w, "converted: %s -> %s\n", name, outName)
	return StatusConverted, nil
}

func (p *Pipeline) fail(w io.Writer, err error) (Status, error) {
	var de *DocumentError
	kind := "error"
	path := ""
	if errors.As(err, &de) {
		kind = de.Kind.Error()
		path = de.Path
	}
	p.log.Error("document failed", "file", filepath.Base(path), "kind", kind, "err", err)
	fmt.Fprintf(w, "failed:  %v\n", err)
	return StatusFailed, err
}

func (p *Pipeline) structuredPayload(res types.DocumentResult) any {
	if p.cfg.Mode == types.ModeKeyed {
		return output.Keyed(res.Items)
	}
	if res.Items == nil {
		return []types.ContentItem{}
	}
	return res.Items
}

// open validates (when configured) and opens path. The caller must close
// the returned document.
func (p *Pipeline) open(path string) (pdftext.Document, error) {
	if p.validate != nil {
		if err := p.validate(path); err != nil {
			return nil, docError(path, ErrParse, err)
		}
	}
	doc, err := p.opener.Open(path)
	if err != nil {
		return nil, docError(path, ErrParse, err)
	}
	return doc, nil
}

// closeDoc closes doc, logging rather than returning a close failure since
// the document has already been read.
func (p *Pipeline) closeDoc(path string, doc pdftext.Document) {
	if err := doc.Close(); err != nil {
		p.log.Warn("closing document", "file", filepath.Base(path), "err", err)
	}
}

// Structure extracts the blocks of every page of path in order and
// assembles them into headings and paragraphs. It returns ErrNoContent
// (wrapped) when no block carries text.
func (p *Pipeline) Structure(path string) (res types.DocumentResult, err error) {
	res.Source = filepath.Base(path)

	doc, err := p.open(path)
	if err != nil {
		return res, err
	}
	defer p.closeDoc(path, doc)
	defer guard(path, &err)

	var b assemble.Builder
	for i := 0; i < doc.NumPages(); i++ {
		blocks, err := doc.PageBlocks(i)
		if err != nil {
			return res, docError(path, ErrParse, err)
		}
		for _, block := range blocks {
			b.Add(block)
		}
	}

	res.Items = b.Items()
	if len(res.Items) == 0 {
		return res, docError(path, ErrNoContent, nil)
	}
	return res, nil
}

// RawText concatenates the text of every page of path, ending each page
// with a newline, and trims the result. It
// returns ErrNoContent (wrapped) when the trimmed text is empty.
func (p *Pipeline) RawText(path string) (dump types.RawDump, err error) {
	dump.SourceFile = filepath.Base(path)

	doc, err := p.open(path)
	if err != nil {
		return dump, err
	}
	defer p.closeDoc(path, doc)
	defer guard(path, &err)

	var sb strings.Builder
	for i := 0; i < doc.NumPages(); i++ {
		text, err := doc.PageText(i)
		if err != nil {
			return dump, docError(path, ErrParse, err)
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}

	dump.ExtractedText = strings.TrimSpace(sb.String())
	if dump.ExtractedText == "" {
		return dump, docError(path, ErrNoContent, nil)
	}
	return dump, nil
}

// guard converts a panic during extraction into a parse failure.
func guard(path string, err *error) {
	if r := recover(); r != nil {
		*err = docError(path, ErrParse, fmt.Errorf("panic: %v", r))
	}
}

// ListPDFs returns the regular files in dir whose extension is .pdf in any
// letter case, sorted by name. Symlinks are followed.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}
