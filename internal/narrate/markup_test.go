package narrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("a**b**\nc")
	want := []Step{
		{Kind: StepRune, Rune: 'a'},
		{Kind: StepEmphasis},
		{Kind: StepRune, Rune: 'b'},
		{Kind: StepEmphasis},
		{Kind: StepBreak},
		{Kind: StepRune, Rune: 'c'},
	}
	assert.Equal(t, want, got)
}

func TestTokenizeLoneStar(t *testing.T) {
	got := Tokenize("5*3")
	assert.Len(t, got, 3)
	assert.Equal(t, '*', got[1].Rune)
}

func TestTokenizeRunes(t *testing.T) {
	assert.Len(t, Tokenize("アカ"), 2)
}

func TestCleanSpeech(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"emphasis", "Type **'RED'** now", "Type 'RED' now"},
		{"breaks", "one\n\ntwo", "one. two"},
		{"html break", "one<br>two", "one. two"},
		{"tags", "<strong>bold</strong> text", "bold text"},
		{"prompt", "> reset", "reset"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanSpeech(tc.in))
		})
	}
}
