package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tripcheck/internal/constants"
	"github.com/julianstephens/tripcheck/internal/models"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	resolvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
)

// Model shows one guest and keeps a cursor over its issues.
type Model struct {
	viewport viewport.Model
	guest    models.Guest
	loaded   bool
	cursor   int
	up       key.Binding
	down     key.Binding
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		up:       key.NewBinding(key.WithKeys("up", "k")),
		down:     key.NewBinding(key.WithKeys("down", "j")),
	}
}

// SetGuest shows g. The issue cursor is kept when the same guest is refreshed.
func (m *Model) SetGuest(g models.Guest) {
	if !m.loaded || m.guest.MetaKey() != g.MetaKey() {
		m.cursor = 0
		m.viewport.GotoTop()
	}
	m.guest = g
	m.loaded = true
	if m.cursor >= len(g.Issues) {
		m.cursor = max(len(g.Issues)-1, 0)
	}
	m.viewport.SetContent(m.render())
}

func (m Model) Guest() (models.Guest, bool) {
	return m.guest, m.loaded
}

// SelectedIssue returns the issue under the cursor.
func (m Model) SelectedIssue() (models.Issue, bool) {
	if !m.loaded || len(m.guest.Issues) == 0 {
		return models.Issue{}, false
	}
	return m.guest.Issues[m.cursor], true
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.loaded {
		switch {
		case key.Matches(msg, m.up):
			if m.cursor > 0 {
				m.cursor--
			}
			m.viewport.SetContent(m.render())
			return m, nil
		case key.Matches(msg, m.down):
			if m.cursor < len(m.guest.Issues)-1 {
				m.cursor++
			}
			m.viewport.SetContent(m.render())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.loaded {
		return "\n  Select a guest from the list and press enter."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}

func (m Model) render() string {
	g := m.guest
	var b strings.Builder

	fmt.Fprintf(&b, "%s  [%s]\n", titleStyle.Render(g.DisplayName), g.Status)
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", label)), value)
		}
	}
	line("email", g.Email)
	line("matched", string(g.MatchedBy))
	if f := g.Flight; f != nil {
		line("flight", strings.TrimSpace(fmt.Sprintf("%s %s -> %s %s %s", date(f.FlightArrival), f.FlightIn, date(f.FlightDeparture), f.FlightOut, f.Airport)))
	}
	if h := g.Hotel; h != nil {
		line("hotel", strings.TrimSpace(fmt.Sprintf("%s -> %s %s %s", date(h.CheckIn), date(h.CheckOut), h.Hotel, h.Room)))
	}
	if c := g.Car; c != nil {
		line("car", strings.TrimSpace(fmt.Sprintf("%s %s -> %s %s", date(c.PickupDate), c.PickupLoc, date(c.DropoffDate), c.DropoffLoc)))
	}
	if d := g.Diet; d != nil {
		line("dietary", strings.TrimSpace(strings.Join([]string{d.Dietary, d.Accessibility, d.SpecialNotes}, " ")))
	}
	line("note", g.Note)

	b.WriteString("\n")
	if len(g.Issues) == 0 {
		b.WriteString("No issues.\n")
		return b.String()
	}
	b.WriteString(labelStyle.Render("Issues") + "\n")
	for i, issue := range g.Issues {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		text := fmt.Sprintf("[%s] %s", issue.Type, issue.Text)
		if g.IsResolved(issue.Text) {
			text = resolvedStyle.Render(text) + " (resolved)"
		}
		fmt.Fprintf(&b, "%s%s\n", prefix, text)
	}
	return b.String()
}

func date(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.Format(constants.DateFormat)
}
