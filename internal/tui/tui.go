package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/chatgraph/chatgraph/internal/chat"
	"github.com/chatgraph/chatgraph/internal/parse"
	"github.com/chatgraph/chatgraph/internal/render"
)

// Item is one parsed document shown in the browser.
type Item struct {
	Path   string
	Format parse.Format
	Thread *chat.Thread
}

type model struct {
	items      []Item
	cursor     int
	listOffset int
	preview    viewport.Model
	previewFor int // index of the item currently rendered, -1 = none
	width      int
	height     int
	ready      bool
}

// Run starts the thread browser and blocks until it exits.
func Run(items []Item) error {
	m := model{
		items:      items,
		preview:    viewport.New(0, 0),
		previewFor: -1,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.Width = m.previewWidth() - 2
		m.preview.Height = m.panelHeight() - 2
		m.previewFor = -1 // re-render at the new width
		m.ready = true

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.PreviewUp):
			m.preview.HalfViewUp()
		case key.Matches(msg, keys.PreviewDn):
			m.preview.HalfViewDown()
		}
	}

	m.adjustListScroll()
	m.refreshPreview()
	return m, nil
}

func (m model) View() string {
	if !m.ready || len(m.items) == 0 {
		return "No threads"
	}

	listW := m.listWidth()
	panelH := m.panelHeight()

	list := styleActiveBorder.Width(listW - 2).Height(panelH - 2).
		Render(m.renderList(listW-2, panelH-2))
	preview := stylePanelBorder.Width(m.previewWidth() - 2).Height(panelH - 2).
		Render(m.preview.View())

	item := m.items[m.cursor]
	status := styleStatusBar.Render(fmt.Sprintf(
		"%d/%d  %s  %d messages  |  up/k dn/j move  C-u/C-d scroll  q quit",
		m.cursor+1, len(m.items), item.Path, item.Thread.MessageCount()))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, list, preview),
		status)
}

func (m model) listWidth() int {
	w := m.width * 2 / 5
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	return m.width - m.listWidth()
}

func (m model) panelHeight() int {
	return m.height - 1 // leave room for the status bar
}

// renderList renders the left panel: one line per parsed document.
func (m model) renderList(width, height int) string {
	var lines []string
	for i, item := range m.items {
		if i < m.listOffset {
			continue
		}
		if len(lines) >= height {
			break
		}
		lines = append(lines, formatItemLine(item, width, i == m.cursor))
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatItemLine formats one browser row: [>] format  name (count).
func formatItemLine(item Item, width int, selected bool) string {
	var src string
	switch item.Format {
	case parse.FormatHTML:
		src = styleFormatHTML.Render("html")
	default:
		src = styleFormatLog.Render("log ")
	}

	name := filepath.Base(item.Path)
	nameMax := width - 2 - 5 - 7
	if nameMax < 0 {
		nameMax = 0
	}
	if runewidth.StringWidth(name) > nameMax {
		name = runewidth.Truncate(name, nameMax, "")
	}

	line := fmt.Sprintf("%s %s (%d)", src, name, item.Thread.MessageCount())
	if selected {
		return styleListSelected.Render("> ") + line
	}
	return "  " + line
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll() {
	visible := m.panelHeight() - 2
	if visible < 1 {
		visible = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visible {
		m.listOffset = m.cursor - visible + 1
	}
}

// refreshPreview re-renders the preview pane when the selection changes.
func (m *model) refreshPreview() {
	if !m.ready || len(m.items) == 0 || m.previewFor == m.cursor {
		return
	}
	item := m.items[m.cursor]
	m.preview.SetContent(render.Conversation(filepath.Base(item.Path), item.Thread, render.Options{
		Width: m.preview.Width,
	}))
	m.preview.GotoTop()
	m.previewFor = m.cursor
}
