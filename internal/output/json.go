package output

import "encoding/json"

// JSONFormatter formats reports as JSON.
type JSONFormatter struct{}

// Format implements Formatter.
func (*JSONFormatter) Format(report *Report) ([]byte, error) {
	data, err := json.MarshalIndent(newStructuredReport(report), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
