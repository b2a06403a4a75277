// Package ui implements the interactive previewer: files are scanned and
// converted in the background, then listed so each document can be opened
// and viewed as stripped text, as a list of its links, or rendered.
package ui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/leonardomso/mdstrip/internal/convert"
	"github.com/leonardomso/mdstrip/internal/helpers"
	"github.com/leonardomso/mdstrip/internal/scanner"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

type appState int

const (
	stateScanning   appState = iota // Finding source files
	stateConverting                 // Converting files
	stateResults                    // Showing documents (list view)
	stateDetail                     // Showing one document (viewport)
)

// Options configures what the previewer scans and how it converts.
type Options struct {
	Scan    scanner.ScanOptions
	Convert convert.Options
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the main application model.
type Model struct {
	// State
	state    appState
	quitting bool
	err      error

	// Data
	files     []string
	documents []convert.Document
	failed    int
	sources   map[string]SourceLoadedMsg // Markdown sources by path

	// Detail
	view     viewMode
	current  convert.Document
	renderer *glamour.TermRenderer

	// Components
	spinner  spinner.Model
	list     list.Model
	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	// Converter state (for async operations)
	convertState *ConvertState

	// UI state
	width    int
	height   int
	showHelp bool

	// Config
	opts Options
}

// New creates and returns a new Model.
func New(opts Options) Model {
	if opts.Scan.Root == "" {
		opts.Scan.Root = "."
	}
	if len(opts.Scan.Types) == 0 {
		opts.Scan.Types = []string{"md"}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = SelectedStyle
	delegate.Styles.SelectedDesc = StatusStyle

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Documents"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false) // We use our own help
	l.Styles.Title = TitleStyle

	return Model{
		state:        stateScanning,
		sources:      make(map[string]SourceLoadedMsg),
		spinner:      s,
		list:         l,
		viewport:     viewport.New(0, 0),
		help:         help.New(),
		keys:         DefaultKeyMap(),
		convertState: &ConvertState{},
		opts:         opts,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, ScanFilesCmd(m.opts.Scan))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FilesFoundMsg:
		return m.handleFilesFound(msg)

	case DocumentConvertedMsg:
		return m.handleDocumentConverted(msg)

	case AllConvertedMsg:
		return m.handleAllConverted()

	case DocumentReloadedMsg:
		return m.handleDocumentReloaded(msg)

	case SourceLoadedMsg:
		m.sources[msg.Path] = msg
		if m.state == stateDetail && m.current.FilePath == msg.Path {
			m.refreshDetail()
		}
		return m, nil
	}

	// Pass other messages to the focused component
	var cmd tea.Cmd
	switch m.state {
	case stateResults:
		m.list, cmd = m.list.Update(msg)
	case stateDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	// Reserve space for header, summary and help
	m.list.SetSize(msg.Width, max(msg.Height-8, 5))
	m.viewport.Width = msg.Width
	m.viewport.Height = max(msg.Height-8, 5)

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(msg.Width-4, 20)),
		glamour.WithEmoji(),
	)
	if err == nil {
		m.renderer = r
	}

	if m.state == stateDetail {
		m.refreshDetail()
	}
	return m
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Let the list consume keys while its filter input is active
	if m.state == stateResults && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	// Global keys that work in any state
	if key.Matches(msg, m.keys.Quit) {
		if m.convertState.CancelFunc != nil {
			m.convertState.CancelFunc()
		}
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}

	switch m.state {
	case stateResults:
		if key.Matches(msg, m.keys.Open) {
			if item, ok := m.list.SelectedItem().(DocumentItem); ok {
				return m.openDetail(item.Document)
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd

	case stateDetail:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.state = stateResults
			return m, nil
		case key.Matches(msg, m.keys.View):
			m.view = m.view.Next()
			cmd := m.ensureSource()
			return m, cmd
		case key.Matches(msg, m.keys.Reload):
			return m, ReloadDocumentCmd(m.current.FilePath, m.opts.Convert.Mode)
		case key.Matches(msg, m.keys.Home):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.End):
			m.viewport.GotoBottom()
			return m, nil
		}

		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) openDetail(doc convert.Document) (tea.Model, tea.Cmd) {
	m.state = stateDetail
	m.current = doc
	m.viewport.GotoTop()
	cmd := m.ensureSource()
	return m, cmd
}

// ensureSource refreshes the detail view, loading the source first when the
// current view needs it and it is not cached yet.
func (m *Model) ensureSource() tea.Cmd {
	m.refreshDetail()
	if !m.view.needsSource() {
		return nil
	}
	if _, ok := m.sources[m.current.FilePath]; ok {
		return nil
	}
	return LoadSourceCmd(m.current.FilePath)
}

// refreshDetail sets the viewport content for the current document and view.
func (m *Model) refreshDetail() {
	m.viewport.SetContent(m.detailContent())
}

func (m *Model) detailContent() string {
	if !m.view.needsSource() {
		return strippedView(m.current)
	}

	src, ok := m.sources[m.current.FilePath]
	if !ok {
		return m.spinner.View() + " Loading source..."
	}
	if src.Err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", src.Err))
	}

	if m.view == viewLinks {
		return linksView(src.Markdown)
	}

	if m.renderer == nil {
		return src.Markdown
	}
	rendered, err := m.renderer.Render(src.Markdown)
	if err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error rendering: %v", err))
	}
	return rendered
}

func (m Model) handleFilesFound(msg FilesFoundMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = stateResults
		return m, nil
	}
	m.files = msg.Files

	if len(m.files) == 0 {
		m.state = stateResults
		return m, nil
	}
	m.state = stateConverting
	return m, StartConvertCmd(m.files, m.opts.Convert, m.convertState)
}

func (m Model) handleDocumentConverted(msg DocumentConvertedMsg) (tea.Model, tea.Cmd) {
	m.documents = append(m.documents, msg.Document)
	if !msg.Document.OK() {
		m.failed++
	}
	return m, WaitForNextDocumentCmd(m.convertState)
}

func (m Model) handleAllConverted() (tea.Model, tea.Cmd) {
	m.state = stateResults
	m.convertState.Documents = nil

	sort.Slice(m.documents, func(i, j int) bool {
		return m.documents[i].FilePath < m.documents[j].FilePath
	})

	cmd := m.setItems()
	return m, cmd
}

// handleDocumentReloaded swaps in the new conversion and drops the cached
// source so the links and rendered views read the file again.
func (m Model) handleDocumentReloaded(msg DocumentReloadedMsg) (tea.Model, tea.Cmd) {
	doc := msg.Document
	m.failed = 0
	for i := range m.documents {
		if m.documents[i].FilePath == doc.FilePath {
			m.documents[i] = doc
		}
		if !m.documents[i].OK() {
			m.failed++
		}
	}
	delete(m.sources, doc.FilePath)

	cmds := []tea.Cmd{m.setItems()}
	if m.state == stateDetail && m.current.FilePath == doc.FilePath {
		m.current = doc
		cmds = append(cmds, m.ensureSource())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setItems() tea.Cmd {
	items := make([]list.Item, len(m.documents))
	for i, item := range DocumentsToItems(m.documents) {
		items[i] = item
	}
	return m.list.SetItems(items)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var s string

	// Header
	s += TitleStyle.Render("mdstrip - Markdown Previewer")
	s += "\n\n"

	// Error state
	if m.err != nil {
		s += ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		s += "\n"
		s += HelpStyle.Render("Press q to quit")
		return s
	}

	switch m.state {
	case stateScanning:
		s += m.spinner.View() + " Scanning for files..."

	case stateConverting:
		s += m.spinner.View() + fmt.Sprintf(" Converting %d/%d %s...",
			len(m.documents), len(m.files), helpers.Plural(len(m.files), "file"))

	case stateResults:
		s += m.renderResults()

	case stateDetail:
		s += m.renderDetail()
	}

	if m.showHelp {
		s += "\n\n" + m.help.View(m.keys)
	} else {
		s += "\n\n" + m.renderShortHelp()
	}

	return s
}

func (m Model) renderResults() string {
	if len(m.documents) == 0 {
		return MutedStyle.Render(fmt.Sprintf("No matching files in %s.", m.opts.Scan.Root))
	}

	s := fmt.Sprintf("Converted %d %s in %s mode",
		len(m.documents)-m.failed, helpers.Plural(len(m.documents)-m.failed, "file"), m.opts.Convert.Mode)
	if m.failed > 0 {
		s += " " + ErrorStyle.Render(fmt.Sprintf("(%d failed)", m.failed))
	}
	s += "\n\n"
	s += m.list.View()
	return s
}

func (m Model) renderDetail() string {
	header := fmt.Sprintf("%s  %s  %s",
		BadgeView.Render(m.view.String()),
		m.current.FilePath,
		MutedStyle.Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)))
	return DetailHeaderStyle.Render(header) + "\n" + m.viewport.View()
}

func (m Model) renderShortHelp() string {
	if m.state == stateDetail {
		return HelpStyle.Render("↑/↓ scroll • m cycle view • r reconvert • esc back • ? help • q quit")
	}
	return HelpStyle.Render("↑/↓ navigate • enter open • / filter • ? help • q quit")
}
