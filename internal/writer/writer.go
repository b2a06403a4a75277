// Package writer saves converted documents as text files, either next to
// their source or mirrored into an output directory.
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/helpers"
)

// DefaultSuffix replaces the source extension when no suffix is configured.
const DefaultSuffix = ".txt"

// defaultPerm is used when the source file cannot be stat'ed (e.g. stdin).
const defaultPerm os.FileMode = 0o644

// ErrSourceOverwrite is returned when the target path is the source itself.
var ErrSourceOverwrite = errors.New("refusing to overwrite source file")

// Options controls where converted text is written.
type Options struct {
	// Suffix replaces the source extension, e.g. ".txt" or ".plain.txt".
	Suffix string

	// OutDir mirrors the source tree under this directory when set.
	OutDir string

	// Root is the scan root used to compute mirrored paths.
	Root string
}

// Result is the outcome of writing one document.
type Result struct {
	Error     error
	Source    string
	Target    string
	Bytes     int
	Unchanged bool // Target already had the same content
}

// Writer writes documents to disk.
type Writer struct {
	opts Options
}

// New creates a Writer. An empty suffix falls back to DefaultSuffix.
func New(opts Options) *Writer {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	return &Writer{opts: opts}
}

// Target returns the path the text of source is written to.
func (w *Writer) Target(source string) (string, error) {
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + w.opts.Suffix

	target := filepath.Join(filepath.Dir(source), name)
	if w.opts.OutDir != "" {
		dir := "."
		if w.opts.Root != "" {
			rel, err := filepath.Rel(w.opts.Root, source)
			if err == nil && !strings.HasPrefix(rel, "..") {
				dir = filepath.Dir(rel)
			}
		}
		target = filepath.Join(w.opts.OutDir, dir, name)
	}

	absSource, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", source, err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", target, err)
	}
	if absSource == absTarget {
		return "", fmt.Errorf("%s: %w", source, ErrSourceOverwrite)
	}

	return target, nil
}

// Write saves the text of doc. Failed documents are not written.
func (w *Writer) Write(doc convert.Document) (*Result, error) {
	result := &Result{Source: doc.FilePath}

	if !doc.OK() {
		result.Error = fmt.Errorf("skipping %s: %w", doc.FilePath, doc.Err)
		return result, result.Error
	}

	target, err := w.Target(doc.FilePath)
	if err != nil {
		result.Error = err
		return result, err
	}
	result.Target = target

	data := []byte(doc.Text)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	result.Bytes = len(data)

	// Only write if content changed
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		result.Unchanged = true
		return result, nil
	}

	perm := defaultPerm
	if info, err := os.Stat(doc.FilePath); err == nil {
		perm = info.Mode().Perm()
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		result.Error = fmt.Errorf("creating directory: %w", err)
		return result, result.Error
	}

	if err := os.WriteFile(target, data, perm); err != nil {
		result.Error = fmt.Errorf("writing file: %w", err)
		return result, result.Error
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(target, perm); err != nil {
		result.Error = fmt.Errorf("setting permissions: %w", err)
		return result, result.Error
	}

	return result, nil
}

// WriteAll writes every document and returns one result per document.
func (w *Writer) WriteAll(docs []convert.Document) []Result {
	results := make([]Result, 0, len(docs))

	for _, doc := range docs {
		result, _ := w.Write(doc)
		results = append(results, *result)
	}

	return results
}

// Written counts results that produced or refreshed a file.
func Written(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Error == nil && !r.Unchanged {
			n++
		}
	}
	return n
}

// Summary returns a formatted summary of write results.
func Summary(results []Result) string {
	var b strings.Builder

	written := Written(results)
	unchanged := 0
	var errs []string

	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, r.Error.Error())
			continue
		}
		if r.Unchanged {
			unchanged++
		}
	}

	if written == 0 && unchanged == 0 && len(errs) == 0 {
		return "No files written."
	}

	b.WriteString(fmt.Sprintf("Wrote %d %s.\n", written, helpers.Plural(written, "file")))

	if unchanged > 0 {
		b.WriteString(fmt.Sprintf("Skipped %d unchanged %s.\n", unchanged, helpers.Plural(unchanged, "file")))
	}

	if len(errs) > 0 {
		b.WriteString("\nErrors:\n")
		for _, e := range errs {
			b.WriteString(fmt.Sprintf("  %s\n", e))
		}
	}

	return b.String()
}
