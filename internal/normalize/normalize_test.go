// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \n\t \r\n ", want: ""},
		{name: "line breaks become spaces", in: "first line\nsecond line", want: "first line second line"},
		{name: "crlf line breaks", in: "first\r\nsecond\rthird", want: "first second third"},
		{name: "trims surrounding whitespace", in: "  Title  \n", want: "Title"},
		{name: "duplicate sentences dropped", in: "A. A. B.", want: "A. B."},
		{name: "first occurrence order kept", in: "B is here. A is here. B is here.", want: "B is here. A is here."},
		{name: "all terminators split", in: "Stop! Really? Yes. Stop!", want: "Stop! Really? Yes."},
		{name: "whitespace run after terminator collapses", in: "One.   Two.\n\nThree.", want: "One. Two. Three."},
		{name: "inner whitespace without terminator kept", in: "no  boundary  here", want: "no  boundary  here"},
		{name: "terminator without whitespace is not a boundary", in: "e.g.this and v1.2 stay", want: "e.g.this and v1.2 stay"},
		{name: "exact match only", in: "Hello. hello. Hello.", want: "Hello. hello."},
		{name: "trailing fragment without terminator", in: "Body text. More", want: "Body text. More"},
		{name: "non-ascii passes through", in: "Über alles. Über alles. Ça va?", want: "Über alles. Ça va?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"A. A. B.",
		"  leading and trailing  ",
		"Line one\nline two. Line one\nline two.",
		"Question?  Answer!\tDone.",
		"x.\n\ny. x. z",
		"no terminator at all",
		"Mixed\r\nbreaks. Mixed\rbreaks.",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_NoNewlines(t *testing.T) {
	inputs := []string{
		"a\nb", "a.\nb.", "\n\n\n", "a\r\n\r\nb", "x. \n y. \n x.",
	}
	for _, in := range inputs {
		out := Normalize(in)
		assert.False(t, strings.ContainsAny(out, "\r\n"), "output %q of %q contains a line break", out, in)
	}
}

func TestSentences(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "single", want: []string{"single"}},
		{in: "One. Two! Three? Four", want: []string{"One.", "Two!", "Three?", "Four"}},
		{in: "Ends with space. ", want: []string{"Ends with space."}},
		{in: "Dots... then more", want: []string{"Dots...", "then more"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sentences(tt.in), "input %q", tt.in)
	}
}
