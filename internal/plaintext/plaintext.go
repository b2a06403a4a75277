// Package plaintext turns Markdown into text suitable for plaintext e-mail
// bodies and chat messages. Links are reduced to their URLs first (see
// package alttext), then the remaining Markdown syntax is dropped by walking
// a goldmark AST.
package plaintext

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/leonardomso/mdstrip/internal/alttext"
)

// md is shared; goldmark parsers are safe for concurrent use.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// blankRunRegex matches runs of three or more newlines.
var blankRunRegex = regexp.MustCompile(`\n{3,}`)

// FromMarkdown runs the full pipeline: link constructs become bare URLs,
// then all other Markdown syntax is removed.
func FromMarkdown(markdown string) string {
	return Strip(alttext.Strip(markdown))
}

// FromHTML converts HTML to Markdown and then runs FromMarkdown on the result.
func FromHTML(html string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting html: %w", err)
	}
	return FromMarkdown(markdown), nil
}

// Strip removes Markdown syntax and keeps the readable content: text, code,
// list bullets and paragraph breaks. Link labels and image alt text are kept,
// raw HTML is dropped.
func Strip(markdown string) string {
	if markdown == "" {
		return ""
	}

	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	w := &textWriter{source: source}
	if err := ast.Walk(doc, w.walk); err != nil {
		// The walker never returns an error; keep the input if that changes.
		return markdown
	}

	out := blankRunRegex.ReplaceAllString(w.buf.String(), "\n\n")
	return strings.TrimSpace(out)
}

// textWriter accumulates plain text while walking the AST.
type textWriter struct {
	buf    bytes.Buffer
	source []byte
	depth  int // list nesting
}

func (w *textWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Text:
		if entering {
			value := node.Segment.Value(w.source)
			if !node.IsRaw() {
				value = decode(value)
			}
			w.buf.Write(value)
			if node.SoftLineBreak() || node.HardLineBreak() {
				w.buf.WriteByte('\n')
			}
		}

	case *ast.String:
		if entering {
			w.buf.Write(node.Value)
		}

	case *ast.AutoLink:
		if entering {
			// Label keeps the URL as written; URL() would add a scheme to www. links.
			w.buf.Write(node.Label(w.source))
		}

	case *ast.CodeBlock, *ast.FencedCodeBlock:
		if entering {
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				w.buf.Write(seg.Value(w.source))
			}
			w.blankLine()
		}
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil

	case *ast.Heading, *ast.Blockquote, *extast.Table:
		if !entering {
			w.blankLine()
		}

	case *ast.ThematicBreak:
		if entering {
			w.blankLine()
		}

	case *ast.Paragraph:
		if !entering {
			if _, inItem := node.Parent().(*ast.ListItem); inItem {
				w.newline()
			} else {
				w.blankLine()
			}
		}

	case *ast.TextBlock:
		if !entering && node.NextSibling() != nil {
			w.newline()
		}

	case *ast.List:
		if entering {
			w.depth++
			w.newline()
		} else {
			w.depth--
			if w.depth == 0 {
				w.blankLine()
			}
		}

	case *ast.ListItem:
		if entering {
			w.bullet(node)
		} else {
			w.newline()
		}

	case *extast.TableRow, *extast.TableHeader:
		if !entering {
			w.newline()
		}

	case *extast.TableCell:
		if !entering && node.NextSibling() != nil {
			w.buf.WriteString(" | ")
		}
	}

	return ast.WalkContinue, nil
}

// decode resolves backslash escapes and character references in a text
// segment, as goldmark's HTML renderer does, but without HTML escaping.
func decode(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}

// bullet writes the indentation and marker for a list item.
func (w *textWriter) bullet(item *ast.ListItem) {
	list, ok := item.Parent().(*ast.List)
	if !ok {
		return
	}

	w.buf.WriteString(strings.Repeat("  ", max(w.depth-1, 0)))
	if !list.IsOrdered() {
		w.buf.WriteString("- ")
		return
	}

	index := list.Start
	for prev := item.PreviousSibling(); prev != nil; prev = prev.PreviousSibling() {
		index++
	}
	w.buf.WriteString(strconv.Itoa(index))
	w.buf.WriteString(". ")
}

// newline ends the current line unless it is already ended.
func (w *textWriter) newline() {
	b := w.buf.Bytes()
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return
	}
	w.buf.WriteByte('\n')
}

// blankLine makes sure the output ends with an empty line.
func (w *textWriter) blankLine() {
	if w.buf.Len() == 0 {
		return
	}
	w.newline()
	if !bytes.HasSuffix(w.buf.Bytes(), []byte("\n\n")) {
		w.buf.WriteByte('\n')
	}
}
