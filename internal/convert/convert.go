// Package convert applies the stripping pipeline to files.
// Files are read and converted by a bounded worker pool; results are streamed
// back and can be collected in input order.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/leonardomso/mdstrip/internal/alttext"
	"github.com/leonardomso/mdstrip/internal/plaintext"
)

// Document is the outcome of converting one file.
type Document struct {
	Err      error
	FilePath string
	Mode     Mode
	Text     string
	Links    []alttext.Link // Only filled in ModeExtract
	Bytes    int            // Size of the source
	index    int
}

// OK reports whether the document converted without error.
func (d Document) OK() bool {
	return d.Err == nil
}

// IsHTML reports whether a path is converted as HTML rather than Markdown.
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}

// ConvertContent converts in-memory content. The path only decides whether
// the content is HTML and is recorded on the document.
func ConvertContent(path string, content []byte, mode Mode) (Document, error) {
	doc := Document{
		FilePath: path,
		Mode:     mode,
		Bytes:    len(content),
	}

	source := string(content)
	if IsHTML(path) {
		if mode != ModePlain {
			return doc, fmt.Errorf("%s: mode %q does not support html input", path, mode)
		}
		text, err := plaintext.FromHTML(source)
		if err != nil {
			return doc, fmt.Errorf("%s: %w", path, err)
		}
		doc.Text = text
		return doc, nil
	}

	switch mode {
	case ModePlain:
		doc.Text = plaintext.FromMarkdown(source)
	case ModeURLs:
		doc.Text = alttext.Strip(source)
	case ModeExtract:
		doc.Text, doc.Links = alttext.Extract(source)
	default:
		return doc, fmt.Errorf("unknown mode: %s", mode)
	}
	return doc, nil
}

// ConvertFile reads and converts a single file.
func ConvertFile(path string, mode Mode) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{FilePath: path, Mode: mode}, err
	}
	return ConvertContent(path, content, mode)
}

// Converter converts files concurrently.
type Converter struct {
	opts Options
}

// New creates a Converter with the given options.
func New(opts Options) *Converter {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Mode == "" {
		opts.Mode = DefaultMode
	}
	return &Converter{opts: opts}
}

// Options returns the effective options.
func (c *Converter) Options() Options {
	return c.opts
}

// job pairs a file with its position in the input.
type job struct {
	path  string
	index int
}

// Convert converts files with a worker pool and streams the documents.
// The channel is closed once every file has been handled. Files that are
// still queued when ctx is canceled come back with ctx's error.
func (c *Converter) Convert(ctx context.Context, files []string) <-chan Document {
	results := make(chan Document, c.opts.Concurrency)

	go func() {
		defer close(results)

		jobs := make(chan job, len(files))

		var wg sync.WaitGroup
		for range c.opts.Concurrency {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.worker(ctx, jobs, results)
			}()
		}

		for i, f := range files {
			jobs <- job{path: f, index: i}
		}
		close(jobs)

		wg.Wait()
	}()

	return results
}

// worker converts files from jobs until the channel is drained.
func (c *Converter) worker(ctx context.Context, jobs <-chan job, results chan<- Document) {
	for j := range jobs {
		var doc Document
		select {
		case <-ctx.Done():
			doc = Document{FilePath: j.path, Mode: c.opts.Mode, Err: ctx.Err()}
		default:
			var err error
			doc, err = ConvertFile(j.path, c.opts.Mode)
			doc.Err = err
		}
		doc.index = j.index
		results <- doc
	}
}

// ConvertAll converts all files and returns the documents in input order.
func (c *Converter) ConvertAll(ctx context.Context, files []string) []Document {
	docs := make([]Document, 0, len(files))
	for doc := range c.Convert(ctx, files) {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].index < docs[j].index
	})
	return docs
}

// Summary aggregates a set of documents.
type Summary struct {
	Files     int
	Converted int
	Failed    int
	Links     int
	Images    int
	BytesIn   int
	BytesOut  int
}

// Summarize creates a summary from documents.
func Summarize(docs []Document) Summary {
	s := Summary{Files: len(docs)}
	for _, d := range docs {
		if !d.OK() {
			s.Failed++
			continue
		}
		s.Converted++
		s.BytesIn += d.Bytes
		s.BytesOut += len(d.Text)
		for _, l := range d.Links {
			if l.Kind == alttext.KindImage {
				s.Images++
			} else {
				s.Links++
			}
		}
	}
	return s
}

// HasFailures reports whether any document failed to convert.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}
