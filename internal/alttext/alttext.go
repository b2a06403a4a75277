// Package alttext rewrites Markdown link and image constructs so that only
// their URLs remain. It is the first pass of the plaintext pipeline: chat and
// e-mail clients that cannot render Markdown still get a usable link instead
// of a bracketed label.
package alttext

// Kind tells a link apart from an image.
type Kind string

const (
	// KindLink is a [label](url) construct.
	KindLink Kind = "link"
	// KindImage is a ![alt](url) construct.
	KindImage Kind = "image"
)

// Link is a construct removed from a document by Extract.
type Link struct {
	Alt  string // Label or alt text between the brackets
	URL  string // Text between the parentheses
	Kind Kind
}

// unset marks a cursor that has not been positioned yet.
const unset = -1

// scan holds the cursors of one pass over a document.
// A fresh scan is built for every call, so callers never share state.
type scan struct {
	md string

	altStart   int // Just after '[', or on '[' when preceded by '!'
	urlStart   int // Just after a '(' that follows ']'
	prevURLEnd int // Last byte of the previously closed construct's url

	out []byte
}

func newScan(md string) *scan {
	return &scan{
		md:         md,
		altStart:   unset,
		urlStart:   unset,
		prevURLEnd: -2, // so the first gap starts at index 0
		out:        make([]byte, 0, len(md)),
	}
}

// closes reports whether the byte at i completes an armed construct.
func (s *scan) closes(i int) bool {
	return s.altStart != unset && s.urlStart != unset && s.md[i] == ')'
}

// arm advances the '[' and '](' cursors for the byte at i.
func (s *scan) arm(i int) {
	if s.md[i] == '[' && s.altStart == unset {
		s.altStart = i + 1
		if i > 0 && s.md[i-1] == '!' {
			s.altStart--
		}
	}
	if i > 0 && s.md[i-1] == ']' && s.md[i] == '(' && s.urlStart == unset {
		s.urlStart = i + 1
	}
}

// gap appends the plain text between the previous construct and the
// marker of the one closing now. The marker ('[' or '![') is excluded.
func (s *scan) gap() {
	s.out = append(s.out, s.md[s.prevURLEnd+2:s.altStart-1]...)
}

func (s *scan) reset() {
	s.altStart, s.urlStart = unset, unset
}

// tail appends whatever follows the last closed construct.
func (s *scan) tail() {
	if s.prevURLEnd+1 != len(s.md)-1 {
		s.out = append(s.out, s.md[s.prevURLEnd+2:]...)
	}
}

// result applies the fallback: a pass that produced nothing yields the input.
func (s *scan) result() string {
	if len(s.out) == 0 {
		return s.md
	}
	return string(s.out)
}

// Strip replaces every [alt](url) and ![alt](url) construct with its url,
// keeping the surrounding text byte for byte.
//
// Strip never fails. Constructs that never see their closing ')' are left in
// place, and a document without any complete construct is returned unchanged.
// The scan is byte-wise; every marker is ASCII, so UTF-8 text passes through.
func Strip(md string) string {
	s := newScan(md)

	for i := 0; i < len(md); i++ {
		if s.closes(i) {
			s.gap()
			s.out = append(s.out, md[s.urlStart:i]...)
			s.prevURLEnd = i - 1
			s.reset()
			continue
		}
		s.arm(i)
	}

	s.tail()
	return s.result()
}

// Extract removes every construct from md entirely and returns the remaining
// text together with the links that were removed, in document order.
//
// Newlines directly after a removed construct are dropped as well, so a link
// that sat on its own line does not leave an empty paragraph behind. As with
// Strip, a pass that leaves no text returns md unchanged (the links are still
// reported).
func Extract(md string) (string, []Link) {
	s := newScan(md)
	var links []Link

	for i := 0; i < len(md); i++ {
		if s.closes(i) {
			s.gap()
			links = append(links, s.link(i))
			s.prevURLEnd = i - 1

			next := i + 1
			for next < len(md) && md[next] == '\n' {
				next++
			}
			s.prevURLEnd += next - (i + 1)

			s.reset()
			continue
		}
		s.arm(i)
	}

	s.tail()
	return s.result(), links
}

// Links returns the constructs found in md without building the stripped text.
func Links(md string) []Link {
	_, links := Extract(md)
	return links
}

// link builds the Link for the construct closing at i.
func (s *scan) link(i int) Link {
	l := Link{
		URL:  s.md[s.urlStart:i],
		Kind: KindLink,
	}

	altStart := s.altStart
	if s.md[altStart-1] == '!' {
		l.Kind = KindImage
		altStart++
	}

	// urlStart-2 is the ']' closing the label. A stray "](" seen before the
	// first '[' arms urlStart early; the label is empty in that case.
	if altEnd := s.urlStart - 2; altEnd >= altStart {
		l.Alt = s.md[altStart:altEnd]
	}
	return l
}
