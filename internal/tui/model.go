// Package tui is the interactive review screen for one reconciliation session.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/reconcile"
	"github.com/julianstephens/tripcheck/internal/report"
	"github.com/julianstephens/tripcheck/internal/storage"
	"github.com/julianstephens/tripcheck/internal/tui/components/detail"
	"github.com/julianstephens/tripcheck/internal/tui/components/guestlist"
)

type SessionState int

const (
	StateGuests SessionState = iota
	StateDetail
	StateEditing
)

var tabTitles = []string{"Guests", "Detail"}

type NoteFormModel struct {
	Note string
}

type Model struct {
	store         storage.Provider
	session       models.Session
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	guestList     guestlist.Model
	detail        detail.Model
	form          *huh.Form
	noteForm      *NoteFormModel
	editingKey    string
	status        string
	err           error
	quitting      bool
	width         int
	height        int
}

// NewModel builds the review screen for session. Guest resolution and notes
// are read from the store so that the screen reflects the current metadata,
// not the state at the time the session was saved.
func NewModel(store storage.Provider, session models.Session) (Model, error) {
	meta, err := store.GetAllMeta()
	if err != nil {
		return Model{}, err
	}
	session.Guests = report.SortForDisplay(reconcile.ApplyMeta(session.Guests, meta))

	return Model{
		store:     store,
		session:   session,
		state:     StateGuests,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		guestList: guestlist.New(session.Guests, 0, 0),
		detail:    detail.New(0, 0),
	}, nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateGuests:
		keys = append(keys, m.keys.Enter, m.keys.Note)
	case StateDetail:
		keys = append(keys, m.keys.Toggle, m.keys.Note, m.keys.Back)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Back}

	var actions []key.Binding
	switch m.state {
	case StateGuests:
		actions = []key.Binding{m.keys.Note}
	case StateDetail:
		actions = []key.Binding{m.keys.Toggle, m.keys.Note}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Session returns the session as currently displayed, with metadata applied.
func (m Model) Session() models.Session {
	return m.session
}

func (m Model) findGuest(metaKey string) (models.Guest, bool) {
	for _, g := range m.session.Guests {
		if g.MetaKey() == metaKey {
			return g, true
		}
	}
	return models.Guest{}, false
}

// replaceGuest swaps in an updated guest everywhere it is displayed.
func (m *Model) replaceGuest(g models.Guest) {
	for i := range m.session.Guests {
		if m.session.Guests[i].MetaKey() == g.MetaKey() {
			m.session.Guests[i] = g
		}
	}
	m.guestList.SetGuest(g)
	if current, ok := m.detail.Guest(); ok && current.MetaKey() == g.MetaKey() {
		m.detail.SetGuest(g)
	}
}

// updateMeta loads the metadata for g, applies change and saves it back.
func (m *Model) updateMeta(g models.Guest, change func(*models.GuestMeta)) (models.Guest, error) {
	key := g.MetaKey()
	meta, err := m.store.GetMeta(key)
	if err != nil {
		return g, err
	}
	change(&meta)
	meta.UpdatedAt = timeNow().UTC()
	if err := m.store.SaveMeta(key, meta); err != nil {
		return g, err
	}

	updated := reconcile.ApplyMeta([]models.Guest{g}, models.MetaStore{key: meta})[0]
	m.replaceGuest(updated)
	return updated, nil
}

func (m *Model) toggleSelectedIssue() {
	g, ok := m.detail.Guest()
	if !ok {
		return
	}
	issue, ok := m.detail.SelectedIssue()
	if !ok {
		m.status = "This guest has no issues."
		return
	}

	var nowResolved bool
	if _, err := m.updateMeta(g, func(meta *models.GuestMeta) {
		nowResolved = meta.ToggleResolved(issue.Text)
	}); err != nil {
		m.err = err
		return
	}
	m.err = nil
	if nowResolved {
		m.status = "Resolved: " + issue.Text
	} else {
		m.status = "Reopened: " + issue.Text
	}
}

func (m *Model) saveNote(metaKey, note string) {
	g, ok := m.findGuest(metaKey)
	if !ok {
		return
	}
	if _, err := m.updateMeta(g, func(meta *models.GuestMeta) {
		meta.Note = note
	}); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = "Note saved for " + g.DisplayName
}

// currentGuest is the guest the next action applies to.
func (m Model) currentGuest() (models.Guest, bool) {
	if m.state == StateDetail {
		return m.detail.Guest()
	}
	return m.guestList.Selected()
}

func (m Model) openNoteForm(g models.Guest) (Model, tea.Cmd) {
	m.noteForm = &NoteFormModel{Note: g.Note}
	m.editingKey = g.MetaKey()
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Note for " + g.DisplayName).
				Description("Leave empty to clear the note.").
				Value(&m.noteForm.Note),
		),
	)
	m.previousState = m.state
	m.state = StateEditing
	return m, m.form.Init()
}
