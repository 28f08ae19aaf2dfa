package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tripcheck/internal/tui/components/guestlist"
)

var timeNow = time.Now

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateEditing {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.guestList.SetSize(msg.Width-h, msg.Height-v-4)
		m.detail.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case guestlist.OpenGuestMsg:
		if g, ok := m.findGuest(msg.Key); ok {
			m.detail.SetGuest(g)
			m.state = StateDetail
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
			return m.switchTab(), nil
		case key.Matches(msg, m.keys.Note):
			if g, ok := m.currentGuest(); ok {
				return m.openNoteForm(g)
			}
			return m, nil
		}

		if m.state == StateDetail {
			switch {
			case key.Matches(msg, m.keys.Back):
				m.state = StateGuests
				return m, nil
			case key.Matches(msg, m.keys.Toggle):
				m.toggleSelectedIssue()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateGuests:
		m.guestList, cmd = m.guestList.Update(msg)
	case StateDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

// switchTab moves between the list and the detail view. The detail tab
// follows the guest highlighted in the list.
func (m Model) switchTab() Model {
	if m.state == StateGuests {
		if g, ok := m.guestList.Selected(); ok {
			m.detail.SetGuest(g)
		}
		m.state = StateDetail
		return m
	}
	m.state = StateGuests
	return m
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.saveNote(m.editingKey, strings.TrimSpace(m.noteForm.Note))
		m.closeForm()
		return m, nil
	case huh.StateAborted:
		m.status = "Note unchanged."
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m *Model) closeForm() {
	m.state = m.previousState
	m.form = nil
	m.noteForm = nil
	m.editingKey = ""
}
