package text_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/voiceforge/internal/text"
)

func TestNormalizeStripsMarkupAndURLs(t *testing.T) {
	n := text.NewNormalizer(0)

	got := n.Normalize("Hello <b>world</b>! Visit http://example.com now.")

	require.Equal(t, "Hello world! Visit now.", got)
}

func TestNormalizeTable(t *testing.T) {
	n := text.NewNormalizer(0)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Just a simple sentence.", "Just a simple sentence."},
		{"https url removed", "See https://example.com/a?b=1 here", "See here"},
		{"nested tags removed", "a <div class=\"x\"><span>b</span></div> c", "a b c"},
		{"entities unescaped then filtered", "Tom &amp; Jerry &lt;3", "Tom Jerry 3"},
		{"brackets removed contents kept", "text [note] (aside) {brace}", "text note aside brace"},
		{"accents decomposed", "café naïve", "cafe naive"},
		{"emoji and symbols removed", "Hello \U0001F30D world ©", "Hello world"},
		{"whitespace collapsed", "  a \t b\n\nc  ", "a b c"},
		{"tamil text preserved", "வணக்கம் hello", "வணக்கம் hello"},
		{"danda terminators kept", "जल। जल॥", "जल। जल॥"},
		{"punctuation whitelist kept", "Wait; really: \"yes\" - don't?!", "Wait; really: \"yes\" - don't?!"},
		{"empty input", "", ""},
		{"whitespace only", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := text.NewNormalizer(0)

	inputs := []string{
		"Hello <b>world</b>! Visit http://example.com now.",
		"Tom &amp; Jerry &lt;3 [2024] {draft}",
		"வணக்கம், hello world ।",
		"café \U0001F30D   spaced\tout",
		"a&amp;amp;b",
	}

	for _, input := range inputs {
		once := n.Normalize(input)
		require.Equal(t, once, n.Normalize(once), "input %q", input)
	}
}

func TestNormalizeBoundariesAndSpacing(t *testing.T) {
	n := text.NewNormalizer(0)

	inputs := []string{
		"  leading and trailing  ",
		"double  spaces   everywhere",
		"<p>markup</p> at [the] edges <br/>",
		"url at end http://x.co/path",
	}

	for _, input := range inputs {
		got := n.Normalize(input)
		require.Equal(t, strings.TrimSpace(got), got)
		require.NotContains(t, got, "  ")
	}
}

func TestNormalizeMemoized(t *testing.T) {
	n := text.NewNormalizer(4)
	input := "same <i>input</i> twice"

	require.Equal(t, n.Normalize(input), n.Normalize(input))
}
