package ui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomso/mdstrip/internal/convert"
)

func TestViewMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, viewLinks, viewStripped.Next())
	assert.Equal(t, viewRendered, viewLinks.Next())
	assert.Equal(t, viewStripped, viewRendered.Next())

	assert.Equal(t, "Stripped", viewStripped.String())
	assert.False(t, viewStripped.needsSource())
	assert.True(t, viewLinks.needsSource())
	assert.True(t, viewRendered.needsSource())
}

func TestDocumentItem(t *testing.T) {
	t.Parallel()

	t.Run("Converted", func(t *testing.T) {
		t.Parallel()

		item := DocumentItem{Document: convert.Document{FilePath: "a.md", Text: "hello\nworld", Bytes: 20}}

		assert.Equal(t, "a.md", item.FilterValue())
		assert.Equal(t, "a.md", item.Title())
		assert.Contains(t, item.Description(), "20 B")
		assert.Contains(t, item.Description(), "hello world")
	})

	t.Run("Failed", func(t *testing.T) {
		t.Parallel()

		item := DocumentItem{Document: convert.Document{FilePath: "a.md", Err: errors.New("permission denied")}}

		assert.Contains(t, item.Title(), "a.md")
		assert.Equal(t, "permission denied", item.Description())
	})
}

func TestLinksView(t *testing.T) {
	t.Parallel()

	out := linksView("See [docs](https://go.dev) and ![logo](logo.png)")
	assert.Contains(t, out, "2 links")
	assert.Contains(t, out, "https://go.dev")
	assert.Contains(t, out, "logo.png")

	assert.Contains(t, linksView("plain"), "No links")
}

func TestModel_FilesFound(t *testing.T) {
	t.Parallel()

	t.Run("NoFiles", func(t *testing.T) {
		t.Parallel()

		m := New(Options{})
		next, cmd := m.Update(FilesFoundMsg{})

		assert.Nil(t, cmd)
		assert.Equal(t, stateResults, next.(Model).state)
		assert.Contains(t, next.View(), "No matching files")
	})

	t.Run("Error", func(t *testing.T) {
		t.Parallel()

		m := New(Options{})
		next, _ := m.Update(FilesFoundMsg{Err: errors.New("boom")})

		assert.Contains(t, next.View(), "Error: boom")
	})

	t.Run("StartsConverting", func(t *testing.T) {
		t.Parallel()

		m := New(Options{})
		next, cmd := m.Update(FilesFoundMsg{Files: []string{"a.md"}})

		assert.NotNil(t, cmd)
		assert.Equal(t, stateConverting, next.(Model).state)
	})
}

func TestModel_DocumentsAndDetail(t *testing.T) {
	t.Parallel()

	var model tea.Model = New(Options{Convert: convert.DefaultOptions()})
	model, _ = model.Update(FilesFoundMsg{Files: []string{"b.md", "a.md"}})
	model, _ = model.Update(DocumentConvertedMsg{Document: convert.Document{FilePath: "b.md", Text: "bee"}})
	model, _ = model.Update(DocumentConvertedMsg{Document: convert.Document{FilePath: "a.md", Text: "ay"}})
	model, _ = model.Update(AllConvertedMsg{})

	m := model.(Model)
	require.Equal(t, stateResults, m.state)
	require.Len(t, m.documents, 2)
	assert.Equal(t, "a.md", m.documents[0].FilePath)

	// Open the first document
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, stateDetail, m.state)
	assert.Equal(t, "ay", m.detailContent())

	// Links view needs the source
	model, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	m = model.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, viewLinks, m.view)

	model, _ = m.Update(SourceLoadedMsg{Path: "a.md", Markdown: "[x](https://x.dev)"})
	m = model.(Model)
	assert.Contains(t, m.detailContent(), "https://x.dev")

	// Back to the list
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateResults, model.(Model).state)
}

func TestModel_Reload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(path, []byte("see [docs](https://go.dev)"), 0o644))

	var model tea.Model = New(Options{Convert: convert.DefaultOptions().WithMode(convert.ModeURLs)})
	model, _ = model.Update(FilesFoundMsg{Files: []string{path}})
	model, _ = model.Update(DocumentConvertedMsg{Document: convert.Document{FilePath: path, Err: errors.New("stale")}})
	model, _ = model.Update(AllConvertedMsg{})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, _ = model.Update(SourceLoadedMsg{Path: path, Markdown: "old"})
	require.Equal(t, 1, model.(Model).failed)

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)

	msg, ok := cmd().(DocumentReloadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Document.Err)

	model, _ = model.Update(msg)
	m := model.(Model)
	assert.Zero(t, m.failed)
	assert.Equal(t, "see https://go.dev", m.current.Text)
	assert.Equal(t, "see https://go.dev", m.documents[0].Text)
	assert.NotContains(t, m.sources, path)
}
