package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		maxLen   int
		expected string
	}{
		{name: "EmptyString", text: "", maxLen: 10, expected: ""},
		{name: "WhitespaceOnly", text: "   ", maxLen: 10, expected: ""},
		{name: "ShorterThanMax", text: "hello", maxLen: 10, expected: "hello"},
		{name: "ExactlyMaxLength", text: "hello", maxLen: 5, expected: "hello"},
		{name: "LongerThanMax", text: "hello world", maxLen: 8, expected: "hello..."},
		{name: "MaxLenTooSmall", text: "testing", maxLen: 3, expected: "testing"},
		{name: "MaxLenNegative", text: "test", maxLen: -5, expected: "test"},
		{name: "UnicodeNotSplit", text: "héllo wörld", maxLen: 8, expected: "héllo..."},
		{name: "CollapsesNewlines", text: "Hello\n\nThanks", maxLen: 20, expected: "Hello Thanks"},
		{name: "TrimsWhitespace", text: "  hello  ", maxLen: 10, expected: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, TruncateText(tt.text, tt.maxLen))
		})
	}
}

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		maxLen   int
		expected string
	}{
		{name: "Short", url: "https://go.dev", maxLen: 20, expected: "https://go.dev"},
		{name: "DropsScheme", url: "https://example.com/a", maxLen: 16, expected: "example.com/a"},
		{name: "Truncates", url: "https://example.com/a/long/path", maxLen: 14, expected: "example.com..."},
		{name: "NoScheme", url: "images/logo-large.png", maxLen: 10, expected: "images/..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, TruncateURL(tt.url, tt.maxLen))
		})
	}
}

func TestCountUniqueStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, CountUniqueStrings(nil))
	assert.Equal(t, 2, CountUniqueStrings([]string{"a", "b", "a"}))
}

func TestPlural(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "file", Plural(1, "file"))
	assert.Equal(t, "files", Plural(0, "file"))
	assert.Equal(t, "links", Plural(3, "link"))
}
