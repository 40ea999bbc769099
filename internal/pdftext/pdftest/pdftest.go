// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftest builds small, uncompressed PDF files for tests. Every page
// uses the standard Helvetica font and places each line with its own text
// object.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Line is one line of text at (X, Y) in points, Y being the baseline.
type Line struct {
	Text string
	Size float64
	X, Y float64
}

// Page is the ordered lines of one page.
type Page []Line

// charWidth is the glyph width, in thousandths of the font size, declared
// for every character.
const charWidth = 556

var textEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// Build renders pages into a PDF 1.4 file with a classic xref table.
func Build(pages ...Page) []byte {
	// Object numbers: 1 catalog, 2 page tree, 3 font, then a page object
	// and a content stream per page.
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))

	widths := make([]string, 126-32+1)
	for i := range widths {
		widths[i] = fmt.Sprint(charWidth)
	}
	objects = append(objects, fmt.Sprintf(
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding"+
			" /FirstChar 32 /LastChar 126 /Widths [%s] >>", strings.Join(widths, " ")))

	for i, page := range pages {
		var content strings.Builder
		for _, l := range page {
			fmt.Fprintf(&content, "BT /F1 %g Tf %g %g Td (%s) Tj ET\n",
				l.Size, l.X, l.Y, textEscaper.Replace(l.Text))
		}
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]"+
				" /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream",
			content.Len(), content.String()))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xref)
	return buf.Bytes()
}

// WriteFile writes the PDF built from pages to path.
func WriteFile(path string, pages ...Page) error {
	return os.WriteFile(path, Build(pages...), 0o644)
}

// Heading returns a page with an 18pt heading above one 11pt body line,
// far enough apart to form separate blocks.
func Heading(heading, body string) Page {
	return Page{
		{Text: heading, Size: 18, X: 72, Y: 720},
		{Text: body, Size: 11, X: 72, Y: 650},
	}
}

// Text returns a page with a single 11pt line.
func Text(s string) Page {
	return Page{{Text: s, Size: 11, X: 72, Y: 720}}
}
