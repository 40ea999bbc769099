// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output serializes extraction results to JSON files: the raw text
// dump, the ordered list form, and the keyed h1/p1 form.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/pdfstruct/pkg/types"
)

const (
	indent          = "    "
	rawSuffix       = ".json"
	structSuffix    = "_structured.json"
	headingPrefix   = "h"
	paragraphPrefix = "p"
)

// Entry is one key/value pair of a KeyedDocument.
type Entry struct {
	Key  string
	Text string
}

// KeyedDocument maps h1, h2, ... to headings and p1, p2, ... to paragraphs.
// Entries keep the order of the items they were built from, and that order
// is preserved when the document is marshaled.
type KeyedDocument []Entry

// Keyed re-indexes items by type-local sequence numbers. Heading and
// paragraph counters are independent and start at 1 for every call.
func Keyed(items []types.ContentItem) KeyedDocument {
	doc := make(KeyedDocument, 0, len(items))
	headings, paragraphs := 0, 0
	for _, it := range items {
		var key string
		switch it.Kind {
		case types.KindHeading:
			headings++
			key = headingPrefix + strconv.Itoa(headings)
		case types.KindParagraph:
			paragraphs++
			key = paragraphPrefix + strconv.Itoa(paragraphs)
		default:
			continue
		}
		doc = append(doc, Entry{Key: key, Text: it.Text})
	}
	return doc
}

// Get returns the text stored under key.
func (d KeyedDocument) Get(key string) (string, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Text, true
		}
	}
	return "", false
}

// Keys returns the keys in order.
func (d KeyedDocument) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON writes the entries as a JSON object in order.
func (d KeyedDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalString(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := marshalString(e.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping its key order.
func (d *KeyedDocument) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("keyed document: expected object, got %v", tok)
	}

	var doc KeyedDocument
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("keyed document: unexpected key %v", tok)
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("keyed document: value for %s: %w", key, err)
		}
		doc = append(doc, Entry{Key: key, Text: text})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = doc
	return nil
}

// Items converts the keyed form back to content items, taking the kind
// from the key prefix. Entries with an unknown prefix are dropped.
func (d KeyedDocument) Items() []types.ContentItem {
	items := make([]types.ContentItem, 0, len(d))
	for _, e := range d {
		switch {
		case strings.HasPrefix(e.Key, headingPrefix):
			items = append(items, types.ContentItem{Kind: types.KindHeading, Text: e.Text})
		case strings.HasPrefix(e.Key, paragraphPrefix):
			items = append(items, types.ContentItem{Kind: types.KindParagraph, Text: e.Text})
		}
	}
	return items
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode renders v as indented JSON with non-ASCII and HTML characters
// written literally, followed by a newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON encodes v with Encode and writes it to path.
func WriteJSON(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Stem returns the file name of pdfPath without directory and extension.
func Stem(pdfPath string) string {
	base := filepath.Base(pdfPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RawName returns the raw dump file name for pdfPath: <stem>.json.
func RawName(pdfPath string) string {
	return Stem(pdfPath) + rawSuffix
}

// StructuredName returns the structured output file name for pdfPath:
// <stem>_structured.json.
func StructuredName(pdfPath string) string {
	return Stem(pdfPath) + structSuffix
}

// IsStructuredName reports whether name is a structured output file.
func IsStructuredName(name string) bool {
	return strings.HasSuffix(name, structSuffix)
}

// StemFromStructured strips the structured suffix from name.
func StemFromStructured(name string) string {
	return strings.TrimSuffix(filepath.Base(name), structSuffix)
}

// DecodeStructured reads a structured output file in either list or keyed
// form and returns its items in order.
func DecodeStructured(data []byte) ([]types.ContentItem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decoding structured output: empty input")
	}
	switch trimmed[0] {
	case '[':
		var items []types.ContentItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decoding list form: %w", err)
		}
		return items, nil
	case '{':
		var doc KeyedDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decoding keyed form: %w", err)
		}
		return doc.Items(), nil
	default:
		return nil, fmt.Errorf("decoding structured output: unexpected %q", trimmed[0])
	}
}
