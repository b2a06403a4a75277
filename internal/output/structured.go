package output

import (
	"github.com/leonardomso/mdstrip/internal/convert"
)

// document is the shape shared by the JSON, YAML and TOML formatters.
type document struct {
	FilePath string `json:"file_path" yaml:"file_path" toml:"file_path"`
	Text     string `json:"text" yaml:"text" toml:"text"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	Links    []link `json:"links,omitempty" yaml:"links,omitempty" toml:"links,omitempty"`
	Bytes    int    `json:"bytes" yaml:"bytes" toml:"bytes"`
}

type link struct {
	URL  string `json:"url" yaml:"url" toml:"url"`
	Alt  string `json:"alt,omitempty" yaml:"alt,omitempty" toml:"alt,omitempty"`
	Kind string `json:"kind" yaml:"kind" toml:"kind"`
}

type summary struct {
	Files     int `json:"files" yaml:"files" toml:"files"`
	Converted int `json:"converted" yaml:"converted" toml:"converted"`
	Failed    int `json:"failed" yaml:"failed" toml:"failed"`
	Links     int `json:"links" yaml:"links" toml:"links"`
	Images    int `json:"images" yaml:"images" toml:"images"`
	BytesIn   int `json:"bytes_in" yaml:"bytes_in" toml:"bytes_in"`
	BytesOut  int `json:"bytes_out" yaml:"bytes_out" toml:"bytes_out"`
	Ignored   int `json:"ignored,omitempty" yaml:"ignored,omitempty" toml:"ignored,omitempty"`
}

type ignored struct {
	URL    string `json:"url" yaml:"url" toml:"url"`
	Alt    string `json:"alt,omitempty" yaml:"alt,omitempty" toml:"alt,omitempty"`
	File   string `json:"file" yaml:"file" toml:"file"`
	Reason string `json:"reason" yaml:"reason" toml:"reason"`
	Rule   string `json:"rule" yaml:"rule" toml:"rule"`
}

// structuredReport is the root object of the JSON, YAML and TOML outputs.
type structuredReport struct {
	GeneratedAt string         `json:"generated_at" yaml:"generated_at" toml:"generated_at"`
	Mode        string         `json:"mode" yaml:"mode" toml:"mode"`
	Summary     summary        `json:"summary" yaml:"summary" toml:"summary"`
	Documents   []document     `json:"documents" yaml:"documents" toml:"documents"`
	Ignored     []ignored      `json:"ignored,omitempty" yaml:"ignored,omitempty" toml:"ignored,omitempty"`
	Stats       map[string]any `json:"stats,omitempty" yaml:"stats,omitempty" toml:"stats,omitempty"`
}

// newStructuredReport flattens a Report for marshaling.
func newStructuredReport(report *Report) structuredReport {
	out := structuredReport{
		GeneratedAt: report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Mode:        string(report.Mode),
		Summary: summary{
			Files:     report.Summary.Files,
			Converted: report.Summary.Converted,
			Failed:    report.Summary.Failed,
			Links:     report.Summary.Links,
			Images:    report.Summary.Images,
			BytesIn:   report.Summary.BytesIn,
			BytesOut:  report.Summary.BytesOut,
			Ignored:   len(report.Ignored),
		},
		Documents: make([]document, 0, len(report.Documents)),
		Stats:     report.Stats,
	}

	for _, d := range report.Documents {
		out.Documents = append(out.Documents, newDocument(d))
	}

	for _, ig := range report.Ignored {
		out.Ignored = append(out.Ignored, ignored(ig))
	}

	return out
}

func newDocument(d convert.Document) document {
	doc := document{
		FilePath: d.FilePath,
		Text:     d.Text,
		Error:    errorString(d),
		Bytes:    d.Bytes,
	}
	if len(d.Links) > 0 {
		doc.Links = make([]link, len(d.Links))
		for i, l := range d.Links {
			doc.Links[i] = link{URL: l.URL, Alt: l.Alt, Kind: string(l.Kind)}
		}
	}
	return doc
}
