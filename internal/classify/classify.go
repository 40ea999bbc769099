// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether a normalized text block reads like a
// heading. The decision uses only the text itself; font size and position
// are ignored.
package classify

import (
	"strings"
	"unicode"

	"github.com/pdiddy/pdfstruct/pkg/types"
)

const (
	// MaxHeadingWords is the largest word count a heading may have.
	MaxHeadingWords = 15

	// MinCapitalizedRatio is the minimum share of Title-case or ALL-CAPS
	// words in a heading.
	MinCapitalizedRatio = 0.5
)

// IsHeading reports whether text looks like a heading: non-empty, not
// ending in '.', at most MaxHeadingWords words, and at least
// MinCapitalizedRatio of the words in Title-case or ALL-CAPS.
func IsHeading(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if strings.HasSuffix(text, ".") {
		return false
	}

	words := strings.Fields(text)
	if len(words) == 0 || len(words) > MaxHeadingWords {
		return false
	}

	capitalized := 0
	for _, w := range words {
		if isTitle(w) || isUpper(w) {
			capitalized++
		}
	}
	return float64(capitalized)/float64(len(words)) >= MinCapitalizedRatio
}

// Classify returns the item kind IsHeading assigns to text.
func Classify(text string) types.ItemKind {
	if IsHeading(text) {
		return types.KindHeading
	}
	return types.KindParagraph
}

// isLower and isUpperCase follow the Unicode Lowercase and Uppercase
// properties, which include Other_Lowercase ("ʰ", "ª") and
// Other_Uppercase ("Ⓐ") beyond the Ll and Lu categories.
func isLower(r rune) bool {
	return unicode.In(r, unicode.Lower, unicode.Other_Lowercase)
}

func isUpperCase(r rune) bool {
	return unicode.In(r, unicode.Upper, unicode.Other_Uppercase)
}

// isTitle reports whether every uppercase or titlecase letter in w follows
// an uncased character and every lowercase letter follows a cased one.
// "Hello", "Hello-World" and "A1" qualify; "HeLLo" and "hello" do not.
func isTitle(w string) bool {
	cased, prevCased := false, false
	for _, r := range w {
		switch {
		case isUpperCase(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case isLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

// isUpper reports whether w has at least one uppercase letter and no
// lowercase or titlecase letters.
func isUpper(w string) bool {
	cased := false
	for _, r := range w {
		if isLower(r) || unicode.IsTitle(r) {
			return false
		}
		if isUpperCase(r) {
			cased = true
		}
	}
	return cased
}
