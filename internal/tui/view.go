package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/report"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateGuests:
		content = docStyle.Render(m.guestList.View())
	case StateDetail:
		content = docStyle.Render(m.detail.View())
	case StateEditing:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == StateEditing {
		active = m.previousState
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	s := report.Summarize(m.session.Guests)
	line := fmt.Sprintf("%d guests: %d ok, %d warn, %d error",
		s.Guests, s.ByStatus[models.StatusOK], s.ByStatus[models.StatusWarn], s.ByStatus[models.StatusError])
	if m.status != "" {
		line += "  " + m.status
	}
	return statusBarStyle.Render(line)
}
