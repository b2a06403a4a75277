package ui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/scanner"
)

// ScanFilesCmd returns a command that scans for files with the given options.
func ScanFilesCmd(opts scanner.ScanOptions) tea.Cmd {
	return func() tea.Msg {
		files, err := scanner.FindFilesWithOptions(opts)
		return FilesFoundMsg{Files: files, Err: err}
	}
}

// ConvertState holds the state needed while documents stream in.
// This allows the commands to be stateless functions.
type ConvertState struct {
	Documents  <-chan convert.Document
	CancelFunc context.CancelFunc
}

// StartConvertCmd starts the converter and returns the first document.
func StartConvertCmd(files []string, opts convert.Options, state *ConvertState) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		state.CancelFunc = cancel
		state.Documents = convert.New(opts).Convert(ctx, files)

		doc, ok := <-state.Documents
		if !ok {
			return AllConvertedMsg{}
		}
		return DocumentConvertedMsg{Document: doc}
	}
}

// WaitForNextDocumentCmd waits for the next document from the channel.
func WaitForNextDocumentCmd(state *ConvertState) tea.Cmd {
	return func() tea.Msg {
		if state.Documents == nil {
			return AllConvertedMsg{}
		}

		doc, ok := <-state.Documents
		if !ok {
			return AllConvertedMsg{}
		}
		return DocumentConvertedMsg{Document: doc}
	}
}

// ReloadDocumentCmd converts path again with mode.
func ReloadDocumentCmd(path string, mode convert.Mode) tea.Cmd {
	return func() tea.Msg {
		doc, err := convert.ConvertFile(path, mode)
		doc.Err = err
		return DocumentReloadedMsg{Document: doc}
	}
}

// LoadSourceCmd reads the source of path as Markdown.
func LoadSourceCmd(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return SourceLoadedMsg{Path: path, Err: fmt.Errorf("reading file: %w", err)}
		}

		source := string(content)
		if convert.IsHTML(path) {
			source, err = htmltomarkdown.ConvertString(source)
			if err != nil {
				return SourceLoadedMsg{Path: path, Err: fmt.Errorf("converting html: %w", err)}
			}
		}
		return SourceLoadedMsg{Path: path, Markdown: source}
	}
}
