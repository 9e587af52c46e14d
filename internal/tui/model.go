// Package tui is a read-only browser for the local command history.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simon/rdev/internal/history"
)

type Model struct {
	entries       []history.Entry
	filtered      []history.Entry
	cursor        int
	scrollOffset  int
	input         textinput.Model
	detail        *history.Entry
	width, height int
	quitting      bool
}

func NewModel(entries []history.Entry) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	return Model{
		entries:  entries,
		filtered: entries,
		input:    ti,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Escape):
			if m.detail != nil {
				m.detail = nil
				return m, nil
			}
			if m.input.Value() != "" {
				m.input.SetValue("")
				m.applyFilter()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Quit):
			// "q" quits only when not typing a filter
			if m.input.Value() == "" {
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.clampScroll()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m.clampScroll()
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			if m.detail == nil && m.cursor < len(m.filtered) {
				e := m.filtered[m.cursor]
				m.detail = &e
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	return m, nil
}

func (m *Model) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if query == "" {
		m.filtered = m.entries
	} else {
		m.filtered = nil
		for _, e := range m.entries {
			if strings.Contains(strings.ToLower(e.Command), query) ||
				strings.Contains(strings.ToLower(e.WorkDir), query) {
				m.filtered = append(m.filtered, e)
			}
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	visible := m.visibleRows()
	if visible <= 0 {
		return
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

func (m Model) visibleRows() int {
	// header + filter + footer take up fixed space
	rows := m.height - 6
	if rows < 1 {
		rows = 10
	}
	return rows
}
