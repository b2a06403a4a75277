package output

import (
	"encoding/xml"
)

// XMLFormatter formats reports as generic XML.
type XMLFormatter struct{}

// xmlOutput is the XML structure for output.
type xmlOutput struct {
	Ignored     *xmlIgnored  `xml:"ignored,omitempty"`
	XMLName     xml.Name     `xml:"report"`
	GeneratedAt string       `xml:"generated_at,attr"`
	Mode        string       `xml:"mode,attr"`
	Documents   xmlDocuments `xml:"documents"`
	Summary     xmlSummary   `xml:"summary"`
}

type xmlSummary struct {
	Files     int `xml:"files"`
	Converted int `xml:"converted"`
	Failed    int `xml:"failed"`
	Links     int `xml:"links"`
	Images    int `xml:"images"`
	BytesIn   int `xml:"bytes_in"`
	BytesOut  int `xml:"bytes_out"`
	Ignored   int `xml:"ignored,omitempty"`
}

type xmlDocuments struct {
	Documents []xmlDocument `xml:"document"`
}

type xmlDocument struct {
	Links    *xmlLinks `xml:"links,omitempty"`
	FilePath string    `xml:"file,attr"`
	Text     string    `xml:"text"`
	Error    string    `xml:"error,omitempty"`
	Bytes    int       `xml:"bytes,attr"`
}

type xmlLinks struct {
	Links []xmlLink `xml:"link"`
}

type xmlLink struct {
	Kind string `xml:"kind,attr"`
	URL  string `xml:"url"`
	Alt  string `xml:"alt,omitempty"`
}

type xmlIgnored struct {
	Items []xmlIgnoredItem `xml:"item"`
}

type xmlIgnoredItem struct {
	URL    string `xml:"url"`
	Alt    string `xml:"alt,omitempty"`
	File   string `xml:"file"`
	Reason string `xml:"reason"`
	Rule   string `xml:"rule"`
}

// Format implements Formatter.
func (*XMLFormatter) Format(report *Report) ([]byte, error) {
	output := xmlOutput{
		GeneratedAt: report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Mode:        string(report.Mode),
		Summary: xmlSummary{
			Files:     report.Summary.Files,
			Converted: report.Summary.Converted,
			Failed:    report.Summary.Failed,
			Links:     report.Summary.Links,
			Images:    report.Summary.Images,
			BytesIn:   report.Summary.BytesIn,
			BytesOut:  report.Summary.BytesOut,
			Ignored:   len(report.Ignored),
		},
		Documents: xmlDocuments{
			Documents: make([]xmlDocument, 0, len(report.Documents)),
		},
	}

	for _, d := range report.Documents {
		xd := xmlDocument{
			FilePath: d.FilePath,
			Text:     d.Text,
			Error:    errorString(d),
			Bytes:    d.Bytes,
		}

		if len(d.Links) > 0 {
			xd.Links = &xmlLinks{Links: make([]xmlLink, len(d.Links))}
			for i, l := range d.Links {
				xd.Links.Links[i] = xmlLink{Kind: string(l.Kind), URL: l.URL, Alt: l.Alt}
			}
		}

		output.Documents.Documents = append(output.Documents.Documents, xd)
	}

	if len(report.Ignored) > 0 {
		output.Ignored = &xmlIgnored{
			Items: make([]xmlIgnoredItem, len(report.Ignored)),
		}
		for i, ig := range report.Ignored {
			output.Ignored.Items[i] = xmlIgnoredItem(ig)
		}
	}

	data, err := xml.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}
