package output

import (
	"fmt"
	"strings"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/helpers"
)

// MarkdownFormatter formats reports as Markdown.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (*MarkdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder
	b.Grow(report.Summary.BytesOut + len(report.Documents)*120 + 500)

	b.WriteString("# mdstrip Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s  \n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Mode:** %s  \n", report.Mode))
	b.WriteString(fmt.Sprintf("**Files:** %d\n\n", report.Summary.Files))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Count |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Converted | %d |\n", report.Summary.Converted))
	b.WriteString(fmt.Sprintf("| Failed | %d |\n", report.Summary.Failed))
	b.WriteString(fmt.Sprintf("| Links | %d |\n", report.Summary.Links))
	b.WriteString(fmt.Sprintf("| Images | %d |\n", report.Summary.Images))
	b.WriteString(fmt.Sprintf("| Bytes in | %d |\n", report.Summary.BytesIn))
	b.WriteString(fmt.Sprintf("| Bytes out | %d |\n", report.Summary.BytesOut))
	if len(report.Ignored) > 0 {
		b.WriteString(fmt.Sprintf("| Ignored | %d |\n", len(report.Ignored)))
	}
	b.WriteString("\n")

	failed := failedDocuments(report.Documents)
	if len(failed) > 0 {
		b.WriteString(fmt.Sprintf("## Failures (%d)\n\n", len(failed)))
		b.WriteString("| File | Error |\n")
		b.WriteString("|------|-------|\n")
		for _, d := range failed {
			b.WriteString(fmt.Sprintf("| %s | %s |\n",
				escapeMarkdown(d.FilePath), escapeMarkdown(helpers.TruncateText(errorString(d), 80))))
		}
		b.WriteString("\n")
	}

	for _, d := range report.Documents {
		if !d.OK() {
			continue
		}
		b.WriteString(fmt.Sprintf("## %s\n\n", d.FilePath))

		if len(d.Links) > 0 {
			b.WriteString("| Kind | Alt | URL |\n")
			b.WriteString("|------|-----|-----|\n")
			for _, l := range d.Links {
				b.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
					l.Kind, escapeMarkdown(helpers.TruncateText(l.Alt, 40)), escapeMarkdown(helpers.TruncateText(l.URL, 60))))
			}
			b.WriteString("\n")
		}

		fence := codeFence(d.Text)
		b.WriteString(fence + "text\n")
		b.WriteString(d.Text)
		if !strings.HasSuffix(d.Text, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(fence + "\n\n")
	}

	if len(report.Ignored) > 0 {
		b.WriteString(fmt.Sprintf("## Ignored Links (%d)\n\n", len(report.Ignored)))
		b.WriteString("| URL | File | Reason | Rule |\n")
		b.WriteString("|-----|------|--------|------|\n")
		for _, ig := range report.Ignored {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | `%s` |\n",
				escapeMarkdown(helpers.TruncateText(ig.URL, 60)), ig.File, ig.Reason, ig.Rule))
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func failedDocuments(docs []convert.Document) []convert.Document {
	var out []convert.Document
	for _, d := range docs {
		if !d.OK() {
			out = append(out, d)
		}
	}
	return out
}

// codeFence returns a backtick fence longer than any run inside text.
func codeFence(text string) string {
	longest, run := 0, 0
	for i := 0; i < len(text); i++ {
		if text[i] == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}

// escapeMarkdown escapes special markdown characters in a string.
func escapeMarkdown(s string) string {
	// Pipes break tables
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}
