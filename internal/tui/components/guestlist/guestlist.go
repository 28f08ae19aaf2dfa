package guestlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/reconcile"
)

// OpenGuestMsg asks the parent to show the detail view for a guest.
type OpenGuestMsg struct {
	Key string
}

type Item struct {
	Guest models.Guest
}

func (i Item) Title() string {
	return fmt.Sprintf("%s %s", statusIcon(i.Guest.Status), i.Guest.DisplayName)
}

func (i Item) Description() string {
	active, _ := reconcile.DeriveStatus(i.Guest.Issues, i.Guest.Resolved)
	switch len(active) {
	case 0:
		if len(i.Guest.Issues) > 0 {
			return fmt.Sprintf("all %d issue(s) resolved", len(i.Guest.Issues))
		}
		return "no issues"
	case 1:
		return active[0].Text
	default:
		return fmt.Sprintf("%s (+%d more)", active[0].Text, len(active)-1)
	}
}

func (i Item) FilterValue() string { return i.Guest.DisplayName + " " + i.Guest.Email }

func statusIcon(s models.Status) string {
	switch s {
	case models.StatusError:
		return "✗"
	case models.StatusWarn:
		return "!"
	default:
		return "✓"
	}
}

type Model struct {
	list list.Model
	open key.Binding
}

func New(guests []models.Guest, width, height int) Model {
	l := list.New(items(guests), list.NewDefaultDelegate(), width, height)
	l.Title = "Guests"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{
		list: l,
		open: key.NewBinding(key.WithKeys("enter")),
	}
}

func items(guests []models.Guest) []list.Item {
	out := make([]list.Item, len(guests))
	for i, g := range guests {
		out[i] = Item{Guest: g}
	}
	return out
}

// SetGuest replaces the list entry that has the same metadata key as g.
func (m *Model) SetGuest(g models.Guest) {
	for i, it := range m.list.Items() {
		if item, ok := it.(Item); ok && item.Guest.MetaKey() == g.MetaKey() {
			m.list.SetItem(i, Item{Guest: g})
			return
		}
	}
}

// Selected returns the highlighted guest.
func (m Model) Selected() (models.Guest, bool) {
	item, ok := m.list.SelectedItem().(Item)
	return item.Guest, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.open) {
			if g, ok := m.Selected(); ok {
				return m, func() tea.Msg { return OpenGuestMsg{Key: g.MetaKey()} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  This session has no guests."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
