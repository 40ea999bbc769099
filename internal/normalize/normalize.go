// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize cleans the raw text of a PDF block: line breaks become
// spaces, surrounding whitespace is trimmed, and sentences repeated within
// the block are dropped.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Normalize returns raw with line breaks flattened, surrounding whitespace
// trimmed, and duplicate sentences removed (first occurrence wins). The
// surviving sentences are joined by a single space. Empty or all-whitespace
// input yields "".
func Normalize(raw string) string {
	text := strings.TrimSpace(lineBreaks.Replace(raw))
	if text == "" {
		return ""
	}

	sentences := Sentences(text)
	seen := make(map[string]struct{}, len(sentences))
	kept := sentences[:0]
	for _, s := range sentences {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		kept = append(kept, s)
	}
	return strings.Join(kept, " ")
}

// Sentences splits text at every whitespace run that directly follows '.',
// '!' or '?'. The terminator stays with its sentence and the whitespace run
// is dropped. Text without such a boundary is returned as one sentence.
// Empty pieces are never returned.
func Sentences(text string) []string {
	var out []string
	start := 0
	prev := rune(0)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) && isTerminator(prev) {
			if s := text[start:i]; s != "" {
				out = append(out, s)
			}
			j := i
			for j < len(text) {
				r2, size2 := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += size2
			}
			i, start, prev = j, j, 0
			continue
		}
		prev = r
		i += size
	}
	if s := text[start:]; s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
