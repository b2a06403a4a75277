package output

import (
	"fmt"
	"strings"

	"github.com/leonardomso/mdstrip/internal/alttext"
)

// TextFormatter writes the converted text of every document.
//
// A single document is printed as-is. Multiple documents get a
// "==> path <==" header each, like head(1). In extract mode the removed
// links are listed below the text.
type TextFormatter struct{}

// Format implements Formatter.
func (*TextFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder
	b.Grow(report.Summary.BytesOut + len(report.Documents)*64)

	headers := len(report.Documents) > 1
	first := true
	for _, d := range report.Documents {
		if !d.OK() {
			continue
		}
		if headers {
			if !first {
				b.WriteString("\n")
			}
			b.WriteString(fmt.Sprintf("==> %s <==\n", d.FilePath))
		}
		first = false

		b.WriteString(d.Text)
		if d.Text != "" && !strings.HasSuffix(d.Text, "\n") {
			b.WriteString("\n")
		}

		if len(d.Links) > 0 {
			b.WriteString("\n")
			for _, l := range d.Links {
				b.WriteString(formatLinkLine(l))
			}
		}
	}

	return []byte(b.String()), nil
}

func formatLinkLine(l alttext.Link) string {
	if l.Alt == "" {
		return fmt.Sprintf("  [%s] %s\n", l.Kind, l.URL)
	}
	return fmt.Sprintf("  [%s] %s: %s\n", l.Kind, l.Alt, l.URL)
}
