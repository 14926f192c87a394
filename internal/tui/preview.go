package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cco-tools/cco/internal/registry"
	"github.com/cco-tools/cco/internal/render"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	relPath string
	content string
	err     error
}

// loadPreviewCmd returns a tea.Cmd that renders a block preview async.
func loadPreviewCmd(db *registry.DB, relPath, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, err := render.RenderBlock(db, relPath, render.Options{
			Width: width,
			Query: query,
		})
		return previewRenderedMsg{
			relPath: relPath,
			content: content,
			err:     err,
		}
	}
}
