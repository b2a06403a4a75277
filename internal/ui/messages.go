package ui

import "github.com/leonardomso/mdstrip/internal/convert"

// FilesFoundMsg is sent when source files have been discovered.
type FilesFoundMsg struct {
	Err   error
	Files []string
}

// DocumentConvertedMsg is sent when a single file has been converted.
type DocumentConvertedMsg struct {
	Document convert.Document
}

// DocumentReloadedMsg is sent when an open document was converted again
// from disk.
type DocumentReloadedMsg struct {
	Document convert.Document
}

// AllConvertedMsg is sent when every file has been converted.
type AllConvertedMsg struct{}

// SourceLoadedMsg carries the Markdown source of a document for the links
// and rendered views. HTML sources arrive already converted to Markdown.
type SourceLoadedMsg struct {
	Err      error
	Path     string
	Markdown string
}
