// Package output renders conversion reports in text and structured formats.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/leonardomso/mdstrip/internal/convert"
)

// Format represents an output format type.
type Format string

const (
	// FormatText prints the converted text only.
	FormatText Format = "text"
	// FormatJSON outputs as JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML outputs as TOML.
	FormatTOML Format = "toml"
	// FormatXML outputs as XML.
	FormatXML Format = "xml"
	// FormatMarkdown outputs as a Markdown report.
	FormatMarkdown Format = "markdown"
)

// formats lists every format in display order, with its formatter and
// the file extensions that select it.
var formats = []struct {
	format     Format
	newFunc    func() Formatter
	extensions []string
}{
	{FormatText, func() Formatter { return &TextFormatter{} }, []string{".txt"}},
	{FormatJSON, func() Formatter { return &JSONFormatter{} }, []string{".json"}},
	{FormatYAML, func() Formatter { return &YAMLFormatter{} }, []string{".yaml", ".yml"}},
	{FormatTOML, func() Formatter { return &TOMLFormatter{} }, []string{".toml"}},
	{FormatXML, func() Formatter { return &XMLFormatter{} }, []string{".xml"}},
	{FormatMarkdown, func() Formatter { return &MarkdownFormatter{} }, []string{".md", ".markdown"}},
}

// ValidFormats returns all valid format strings.
func ValidFormats() []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f.format)
	}
	return out
}

// IsValidFormat checks if a format string is valid (case-insensitive).
func IsValidFormat(s string) bool {
	return slices.Contains(ValidFormats(), strings.ToLower(s))
}

// IgnoredLink is an extracted link dropped by filter rules.
type IgnoredLink struct {
	URL    string
	Alt    string
	File   string
	Reason string // "domain", "pattern", or "regex"
	Rule   string // The rule that matched
}

// Report contains all data needed for output formatting.
type Report struct {
	GeneratedAt time.Time
	Mode        convert.Mode
	Documents   []convert.Document
	Summary     convert.Summary
	Ignored     []IgnoredLink
	Stats       map[string]any
}

// NewReport builds a report for docs and fills in the summary.
func NewReport(mode convert.Mode, docs []convert.Document) *Report {
	return &Report{
		GeneratedAt: time.Now(),
		Mode:        mode,
		Documents:   docs,
		Summary:     convert.Summarize(docs),
	}
}

// Formatter is the interface that output formatters implement.
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// GetFormatter returns the appropriate formatter for a format.
func GetFormatter(format Format) (Formatter, error) {
	want := Format(strings.ToLower(string(format)))
	for _, f := range formats {
		if f.format == want {
			return f.newFunc(), nil
		}
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}

// FormatReport formats a report using the specified format.
func FormatReport(report *Report, format Format) ([]byte, error) {
	formatter, err := GetFormatter(format)
	if err != nil {
		return nil, err
	}
	return formatter.Format(report)
}

// InferFormat determines the output format from a filename extension.
func InferFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var supported []string
	for _, f := range formats {
		if slices.Contains(f.extensions, ext) {
			return f.format, nil
		}
		supported = append(supported, f.extensions...)
	}

	return "", fmt.Errorf("cannot infer format from extension %q (supported: %s)",
		ext, strings.Join(supported, ", "))
}

// WriteToFile writes a formatted report to a file.
func WriteToFile(report *Report, filename string) error {
	format, err := InferFormat(filename)
	if err != nil {
		return err
	}

	data, err := FormatReport(report, format)
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}

// errorString returns the document error message, or "".
func errorString(d convert.Document) string {
	if d.Err == nil {
		return ""
	}
	return d.Err.Error()
}
