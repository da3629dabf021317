package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("4")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1).
			Bold(true)

	healthOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	healthBadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Background(lipgloss.Color("8"))

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")

	if m.mode == modeEdit {
		b.WriteString(m.editorView())
	} else {
		b.WriteString(m.listView())
	}

	if msg := m.store.LastError(); msg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("error: " + msg))
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(" " + m.status + " "))
	return b.String()
}

func (m Model) headerView() string {
	health := "..."
	switch m.health {
	case "":
	case "ok":
		health = healthOKStyle.Render("ok")
	default:
		health = healthBadStyle.Render("unavailable")
	}
	return headerStyle.Render("ansuz · notes") + "  service: " + health
}

func (m Model) listView() string {
	notes := m.visible()

	var b strings.Builder
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	if m.loading {
		b.WriteString("loading...\n")
	}
	if len(notes) == 0 {
		b.WriteString(pendingStyle.Render("no notes"))
		b.WriteString("\n")
	}
	for i, n := range notes {
		cursor := "  "
		line := n.Title
		if line == "" {
			line = "(untitled)"
		}
		if n.Pending {
			line += " " + pendingStyle.Render("[pending]")
		}
		if i == m.cursor {
			cursor = "> "
			line = selectedStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	return paneStyle.Width(m.paneWidth()).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) editorView() string {
	name := "new note"
	if m.editing != 0 {
		name = fmt.Sprintf("note %d", m.editing)
	}
	if m.saving {
		name += " · saving..."
	}
	body := name + "\n\n" + m.title.View() + "\n\n" + m.content.View()
	return paneStyle.Width(m.paneWidth()).Render(body)
}

func (m Model) paneWidth() int {
	if m.width <= 4 {
		return 60
	}
	return m.width - 2
}
