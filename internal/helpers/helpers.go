// Package helpers provides small string utilities shared by the CLI and the TUI.
package helpers

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// TruncateText trims whitespace, collapses line breaks to spaces and shortens
// text to maxLen runes, adding "..." if truncated. A maxLen too small to hold
// the ellipsis leaves the text untouched.
func TruncateText(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	if maxLen <= len(ellipsis) || utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}

// TruncateURL shortens a URL to maxLen runes for display, dropping the
// scheme first.
func TruncateURL(url string, maxLen int) string {
	if utf8.RuneCountInString(url) <= maxLen {
		return url
	}
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
	}
	if maxLen <= len(ellipsis) || utf8.RuneCountInString(url) <= maxLen {
		return url
	}
	runes := []rune(url)
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}

// CountUniqueStrings returns the number of unique strings in a slice.
func CountUniqueStrings(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}

// Plural returns singular when n is 1 and singular+"s" otherwise.
func Plural(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return singular + "s"
}
