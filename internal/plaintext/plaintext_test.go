package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty", "", ""},
		{"HeadingAndEmphasis", "# Title\n\nSome *bold* text.", "Title\n\nSome bold text."},
		{"BulletList", "- one\n- two\n", "- one\n- two"},
		{"OrderedList", "1. a\n2. b\n", "1. a\n2. b"},
		{"OrderedListCustomStart", "3. c\n4. d\n", "3. c\n4. d"},
		{"NestedList", "- a\n  - b\n- c\n", "- a\n  - b\n- c"},
		{"FencedCode", "Intro\n\n```go\nx := 1\n```\n", "Intro\n\nx := 1"},
		{"SoftBreakKept", "Line one\nline two", "Line one\nline two"},
		{"HTMLBlockDropped", "<div>hi</div>\n\ntext", "text"},
		{"AutoLink", "Visit <https://example.com> today", "Visit https://example.com today"},
		{"BareWWWLinkUnchanged", "Go to www.example.com now", "Go to www.example.com now"},
		{"LinkLabelKept", "[label](https://example.com)", "label"},
		{"ImageAltKept", "![alt text](x.png)", "alt text"},
		{"ThematicBreak", "a\n\n---\n\nb", "a\n\nb"},
		{"Table", "| a | b |\n|---|---|\n| 1 | 2 |\n", "a | b\n1 | 2"},
		{"Strikethrough", "~~gone~~ here", "gone here"},
		{"Blockquote", "> quoted\n\nafter", "quoted\n\nafter"},
		{"EscapedPunctuation", `a\*b\*`, "a*b*"},
		{"EscapedUnderscoreAndDot", `\_private\_ 1\. not a list`, "_private_ 1. not a list"},
		{"NamedEntity", "AT&amp;T", "AT&T"},
		{"CopyrightEntity", "&copy; 2024", "\u00a9 2024"},
		{"NumericEntity", "&#35;1 &#x41;", "#1 A"},
		{"CodeSpanKeepsEscapes", "run `a\\*b &amp;`", "run a\\*b &amp;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Strip(tt.input))
		})
	}
}

func TestFromMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("LinkBecomesURL", func(t *testing.T) {
		t.Parallel()
		got := FromMarkdown("Click [here](https://x.io/a) **now**")
		assert.Equal(t, "Click https://x.io/a now", got)
	})

	t.Run("ImageBecomesURL", func(t *testing.T) {
		t.Parallel()
		got := FromMarkdown("## Welcome\n\n![banner](https://cdn.example.com/banner.png)\n")
		assert.Equal(t, "Welcome\n\nhttps://cdn.example.com/banner.png", got)
	})

	t.Run("PlainTextUnchanged", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "just plain text", FromMarkdown("just plain text"))
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, FromMarkdown(""))
	})

	// Once a link is reduced to its URL, goldmark sees the URL as plain text,
	// so emphasis markers inside it are consumed.
	t.Run("EmphasisInsideURL", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "see https://ex.com/abc ok", FromMarkdown("see [x](https://ex.com/a*b*c) ok"))
	})
}

func TestFromHTML(t *testing.T) {
	t.Parallel()

	t.Run("LinkBecomesURL", func(t *testing.T) {
		t.Parallel()

		got, err := FromHTML(`<p>Read <a href="https://example.com">this</a></p>`)
		require.NoError(t, err)
		assert.Equal(t, "Read https://example.com", got)
	})

	t.Run("EscapedCharactersDecoded", func(t *testing.T) {
		t.Parallel()

		got, err := FromHTML("<p>Price: 5*3 = 15, file_name_here, #1 &amp; more [x] &lt;tag&gt;</p>")
		require.NoError(t, err)
		assert.Equal(t, "Price: 5*3 = 15, file_name_here, #1 & more [x] <tag>", got)
	})
}
