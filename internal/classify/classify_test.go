// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/pdfstruct/pkg/types"
)

func TestIsHeading(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "all caps", text: "INTRODUCTION", want: true},
		{name: "title case", text: "Related Work", want: true},
		{name: "numbered section", text: "2 Background And Motivation", want: true},
		{name: "half capitalized passes", text: "Results and Discussion of", want: true},
		{name: "ends with period", text: "INTRODUCTION.", want: false},
		{name: "sentence", text: "This is the body text of the document.", want: false},
		{name: "mostly lowercase", text: "a study of things", want: false},
		{name: "below half capitalized", text: "Methods for the analysis of", want: false},
		{name: "question mark allowed", text: "Why Now?", want: true},
		{name: "empty", text: "", want: false},
		{name: "whitespace only", text: " \t\n ", want: false},
		{name: "unicode whitespace only", text: "\u2003\u00a0", want: false},
		{name: "digits only", text: "2024", want: false},
		{name: "hyphenated title", text: "Self-Attention Layers", want: true},
		{name: "mixed case word", text: "McDonald report", want: false},
		{name: "non-ascii capitals", text: "ÜBERSICHT", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHeading(tt.text))
		})
	}
}

func TestIsHeading_WordLimit(t *testing.T) {
	fifteen := strings.TrimSpace(strings.Repeat("Word ", MaxHeadingWords))
	sixteen := fifteen + " Word"

	assert.True(t, IsHeading(fifteen))
	assert.False(t, IsHeading(sixteen))
}

func TestIsHeading_NeverTrueWithPeriod(t *testing.T) {
	for _, s := range []string{"A.", "TITLE.", "Chapter One.", "x."} {
		assert.False(t, IsHeading(s), s)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, types.KindHeading, Classify("ABSTRACT"))
	assert.Equal(t, types.KindParagraph, Classify("we show that it works."))
}

func TestIsTitle(t *testing.T) {
	cases := map[string]bool{
		"Hello":       true,
		"Hello-World": true,
		"A1":          true,
		"(Appendix)":  true,
		"hello":       false,
		"HeLLo":       false,
		"HELLO":       false,
		"123":         false,
		"\u02b0A":     false, // modifier letter h is lowercase
		"A\u02b0":     true,
		"\u24b6":      true, // circled A is uppercase
	}
	for w, want := range cases {
		assert.Equal(t, want, isTitle(w), w)
	}
}

func TestIsUpper(t *testing.T) {
	cases := map[string]bool{
		"HELLO": true,
		"A1":    true,
		"R&D":   true,
		"Hello": false,
		"123":   false,
		"":      false,
		"ÉCOLE": true,

		"AB\u00aa":     false, // feminine ordinal is lowercase
		"\u24b6\u24b7": true,
	}
	for w, want := range cases {
		assert.Equal(t, want, isUpper(w), w)
	}
}

func TestIsHeading_OtherLowercaseLetters(t *testing.T) {
	assert.False(t, IsHeading("\u02b0Intro \u02b0Part"))
	assert.False(t, IsHeading("NOTE\u00aa SECTION\u00aa"))
	assert.True(t, IsHeading("Results \u02b0x"))
}
