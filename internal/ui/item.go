package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/leonardomso/mdstrip/internal/alttext"
	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/helpers"
)

// DocumentItem wraps a convert.Document to implement list.Item interface.
type DocumentItem struct {
	Document convert.Document
}

// FilterValue returns the string used for filtering.
// Implements list.Item interface.
func (i DocumentItem) FilterValue() string {
	return i.Document.FilePath
}

// Title returns the main display text for the item.
// Implements list.DefaultItem interface.
func (i DocumentItem) Title() string {
	if !i.Document.OK() {
		return BadgeError.Render("ERR") + " " + i.Document.FilePath
	}
	return i.Document.FilePath
}

// Description returns secondary text for the item.
// Implements list.DefaultItem interface.
func (i DocumentItem) Description() string {
	d := i.Document
	if !d.OK() {
		return helpers.TruncateText(d.Err.Error(), 60)
	}

	size := fmt.Sprintf("%s → %s", humanize.Bytes(uint64(d.Bytes)), humanize.Bytes(uint64(len(d.Text))))
	if preview := helpers.TruncateText(d.Text, 50); preview != "" {
		return size + " | " + preview
	}
	return size + " | (empty)"
}

// viewMode selects what the detail viewport shows.
type viewMode int

const (
	viewStripped viewMode = iota // Converted text
	viewLinks                    // Links and images found in the source
	viewRendered                 // Source rendered with glamour
)

const viewModeCount = 3

func (v viewMode) String() string {
	switch v {
	case viewStripped:
		return "Stripped"
	case viewLinks:
		return "Links"
	case viewRendered:
		return "Rendered"
	default:
		return "Unknown"
	}
}

func (v viewMode) Next() viewMode {
	return (v + 1) % viewModeCount
}

// needsSource reports whether the view is built from the original source.
func (v viewMode) needsSource() bool {
	return v != viewStripped
}

// strippedView returns the converted text, or the conversion error.
func strippedView(d convert.Document) string {
	if !d.OK() {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", d.Err))
	}
	if d.Text == "" {
		return MutedStyle.Render("(empty)")
	}
	return d.Text
}

// linksView lists the links and images of a Markdown source.
func linksView(markdown string) string {
	links := alttext.Links(markdown)
	if len(links) == 0 {
		return MutedStyle.Render("No links or images found.")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d %s\n\n", len(links), helpers.Plural(len(links), "link")))
	for i, l := range links {
		b.WriteString(fmt.Sprintf("%3d. %s %s\n", i+1, BadgeKind.Render(string(l.Kind)), LinkStyle.Render(l.URL)))
		if alt := helpers.TruncateText(l.Alt, 70); alt != "" {
			b.WriteString(fmt.Sprintf("     %s\n", MutedStyle.Render(alt)))
		}
	}
	return b.String()
}

// DocumentsToItems converts a slice of documents to DocumentItems.
func DocumentsToItems(docs []convert.Document) []DocumentItem {
	items := make([]DocumentItem, len(docs))
	for i, d := range docs {
		items[i] = DocumentItem{Document: d}
	}
	return items
}
