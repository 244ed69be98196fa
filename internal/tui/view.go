package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/conneroisu/landing/internal/section"
	"github.com/conneroisu/landing/internal/view"
)

var (
	colorAccent = lipgloss.Color("#667EEA")
	colorGray   = lipgloss.Color("#888888")
	colorError  = lipgloss.Color("#FF6666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorAccent).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginTop(1)

	loadingStyle = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	dimStyle     = lipgloss.NewStyle().Foreground(colorGray)
	figureStyle  = lipgloss.NewStyle().Bold(true).Width(8).Align(lipgloss.Right)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorAccent)
)

// View renders every section in its current phase.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.messages.Title()))
	b.WriteString("\n")

	for _, name := range view.SectionNames() {
		b.WriteString(headingStyle.Render(m.messages.Heading(name)))
		b.WriteString("\n")
		b.WriteString(m.renderSection(name))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s %s", m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderSection(name string) string {
	switch name {
	case section.NameArticles:
		state := m.page.Articles()
		lines := make([]string, 0, len(state.Items))
		for _, article := range state.Items {
			lines = append(lines, fmt.Sprintf("%3d  %s", article.ID, m.truncate(article.Title, 6)))
		}
		return m.renderList(name, state.Phase, state.ErrorMessage, lines)

	case section.NameUsers:
		state := m.page.Users()
		lines := make([]string, 0, len(state.Items))
		for _, user := range state.Items {
			line := fmt.Sprintf("[%s] %s %s", view.Initials(user.Name), user.Name, dimStyle.Render("@"+user.Username))
			lines = append(lines, line)
		}
		return m.renderList(name, state.Phase, state.ErrorMessage, lines)

	case section.NameStats:
		state := m.page.Stats()
		if state.Phase != section.PhaseReady {
			return m.renderList(name, state.Phase, state.ErrorMessage, nil)
		}
		labels := m.messages.StatLabels()
		values := []int{state.Snapshot.Posts, state.Snapshot.Users, state.Snapshot.Comments, state.Snapshot.Photos}
		lines := make([]string, len(values))
		for i, value := range values {
			lines[i] = figureStyle.Render(m.messages.Number(value)) + "  " + labels[i]
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

func (m Model) renderList(name string, phase section.Phase, errorMessage string, lines []string) string {
	switch phase {
	case section.PhaseError:
		return errorStyle.Render(m.messages.Text(errorMessage))
	case section.PhaseSuccess, section.PhaseReady:
		return strings.Join(lines, "\n")
	default:
		return m.spinner.View() + " " + loadingStyle.Render(m.messages.LoadingText(name))
	}
}

// truncate shortens s to the terminal width less indent columns.
func (m Model) truncate(s string, indent int) string {
	limit := m.width - indent
	if m.width == 0 || limit <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
