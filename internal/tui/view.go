package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simon/rdev/internal/history"
)

var (
	// Adaptive colors for light/dark terminal backgrounds
	accentColor = lipgloss.AdaptiveColor{Light: "#D6249F", Dark: "#FF79C6"}
	greenColor  = lipgloss.AdaptiveColor{Light: "#116620", Dark: "#50FA7B"}
	redColor    = lipgloss.AdaptiveColor{Light: "#B31D28", Dark: "#FF5555"}
	dimColor    = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#6272A4"}
	hlBgColor   = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#333333"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			PaddingLeft(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Background(hlBgColor)

	exitOkStyle = lipgloss.NewStyle().
			Foreground(greenColor)

	exitFailStyle = lipgloss.NewStyle().
			Foreground(redColor)

	footerStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			PaddingLeft(1)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.detail != nil {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("rdev history"))
	b.WriteString("\n")
	b.WriteString(" " + m.input.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(footerStyle.Render("(no matching commands)"))
		b.WriteString("\n")
	}

	visible := m.visibleRows()
	end := m.scrollOffset + visible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	for i := m.scrollOffset; i < end; i++ {
		e := m.filtered[i]
		row := fmt.Sprintf("%s  %s  %s",
			e.Created.Format("01-02 15:04"),
			renderExit(e),
			truncate(e.Command, m.width-26))

		if i == m.cursor {
			b.WriteString(cursorStyle.Render("❯ "))
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓ move · enter details · esc clear/back · q quit"))
	return b.String()
}

func (m Model) detailView() string {
	e := m.detail
	var b strings.Builder
	b.WriteString(titleStyle.Render("command details"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  Ran:       %s\n", e.Created.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "  Host:      %s\n", e.Host)
	if e.WorkDir != "" {
		fmt.Fprintf(&b, "  Directory: %s\n", e.WorkDir)
	}
	fmt.Fprintf(&b, "  Status:    %s\n", renderExit(*e))
	fmt.Fprintf(&b, "  Duration:  %s\n", e.Duration)
	b.WriteString("\n  " + e.Command + "\n\n")
	b.WriteString(footerStyle.Render("esc back"))
	return b.String()
}

func renderExit(e history.Entry) string {
	if e.TimedOut {
		return exitFailStyle.Render("timeout")
	}
	if e.ExitCode == 0 {
		return exitOkStyle.Render("exit 0")
	}
	return exitFailStyle.Render(fmt.Sprintf("exit %d", e.ExitCode))
}

func truncate(s string, width int) string {
	if width < 10 {
		width = 60
	}
	if len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}
