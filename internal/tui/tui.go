package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cco-tools/cco/internal/registry"
	"github.com/cco-tools/cco/internal/search"
)

const debounceDelay = 200 * time.Millisecond

// message types

type resultsMsg struct {
	query   string
	results []search.Result
	err     error
}

type debounceTickMsg struct {
	query string
}

// model

type model struct {
	db         *registry.DB
	outputRoot string
	searchOpts search.Options
	query      string
	results    []search.Result
	cursor     int
	listOffset int
	input      textinput.Model
	preview    viewport.Model
	previewKey string // relPath currently shown, to avoid duplicate renders
	width      int
	height     int
	ready      bool
	quitting   bool
	selected   *search.Result
}

// Run starts the block browser and blocks until it exits. With an empty
// query the list shows every recorded block newest first; typing switches to
// full-text search. Selecting a result copies the file's absolute path to
// the clipboard.
func Run(db *registry.DB, outputRoot, query string, opts search.Options) error {
	ti := textinput.New()
	ti.Placeholder = "Search blocks..."
	ti.Focus()
	ti.SetValue(query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	m := model{
		db:         db,
		outputRoot: outputRoot,
		searchOpts: opts,
		query:      query,
		input:      ti,
		preview:    viewport.New(0, 0),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.selected != nil {
		return copyBlockPath(outputRoot, fm.selected.RelPath)
	}
	return nil
}

// copyBlockPath puts the absolute path of a materialized block on the
// clipboard, printing it instead when the clipboard is unavailable.
func copyBlockPath(outputRoot, relPath string) error {
	path := filepath.Join(outputRoot, filepath.FromSlash(relPath))
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if err := clipboard.WriteAll(path); err != nil {
		fmt.Printf("%s\n", path)
		return nil
	}

	fmt.Printf("Copied to clipboard: %s\n", path)
	return nil
}

// Init triggers the initial load.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.doQuery(m.query))
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = viewport.New(m.previewWidth(), m.panelHeight())
		if len(m.results) > 0 && m.cursor < len(m.results) {
			cmds = append(cmds, loadPreviewCmd(m.db, m.results[m.cursor].RelPath, m.query, m.previewWidth()))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if len(m.results) > 0 && m.cursor < len(m.results) {
				r := m.results[m.cursor]
				m.selected = &r
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.input, tiCmd = m.input.Update(msg)
		cmds = append(cmds, tiCmd)

		newQuery := m.input.Value()
		if newQuery != m.query {
			m.query = newQuery
			cmds = append(cmds, m.scheduleDebouncedQuery(newQuery))
		}
		return m, tea.Batch(cmds...)

	case debounceTickMsg:
		// Only fire if the query hasn't changed since the debounce was scheduled
		if msg.query == m.query {
			cmds = append(cmds, m.doQuery(msg.query))
		}
		return m, tea.Batch(cmds...)

	case resultsMsg:
		if msg.query != m.query {
			return m, nil
		}
		if msg.err != nil {
			m.results = nil
			m.cursor = 0
			m.listOffset = 0
			m.preview.SetContent("Error: " + msg.err.Error())
			m.previewKey = ""
			return m, nil
		}
		m.results = msg.results
		m.cursor = 0
		m.listOffset = 0
		if len(m.results) > 0 {
			cmds = append(cmds, m.loadCurrentPreview())
		} else {
			m.preview.SetContent("")
			m.previewKey = ""
		}
		return m, tea.Batch(cmds...)

	case previewRenderedMsg:
		if msg.relPath == m.previewKey {
			return m, nil
		}
		// Check the preview is still the one we want
		if len(m.results) > 0 && m.cursor < len(m.results) {
			if msg.relPath != m.results[m.cursor].RelPath {
				return m, nil // stale preview
			}
		}
		if msg.err != nil {
			m.preview.SetContent("Preview error: " + msg.err.Error())
		} else {
			m.preview.SetContent(msg.content)
			m.preview.GotoTop()
		}
		m.previewKey = msg.relPath
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	inputRow := m.input.View()

	listContent := m.renderList(listW, panelH)
	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(listContent)

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	status := m.statusBar()

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, status)
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for preview, minus border padding
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m model) statusBar() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d blocks", len(m.results)))
	parts = append(parts, "up/dn navigate")
	parts = append(parts, "C-u/C-d preview")
	parts = append(parts, "Enter copy path")
	parts = append(parts, "Esc quit")
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// doQuery lists every block when the query is empty and runs a full-text
// search otherwise.
func (m model) doQuery(query string) tea.Cmd {
	db := m.db
	opts := m.searchOpts
	opts.Query = query
	return func() tea.Msg {
		if query == "" {
			results, err := search.ListAll(db, opts)
			return resultsMsg{query: query, results: results, err: err}
		}
		results, err := search.Search(db, opts)
		return resultsMsg{query: query, results: results, err: err}
	}
}

func (m model) scheduleDebouncedQuery(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	if len(m.results) == 0 || m.cursor >= len(m.results) {
		return nil
	}
	r := m.results[m.cursor]
	if r.RelPath == m.previewKey {
		return nil // already showing this preview
	}
	return loadPreviewCmd(m.db, r.RelPath, m.query, m.previewWidth())
}
