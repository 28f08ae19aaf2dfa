package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/storage"
	"github.com/julianstephens/tripcheck/internal/tui/components/guestlist"
)

func testSession() models.Session {
	return models.Session{
		ID:        "session-1",
		CreatedAt: time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC),
		Guests: []models.Guest{
			{
				Key:         "ann@example.com",
				DisplayName: "Ann Lee",
				Email:       "ann@example.com",
				Issues:      []models.Issue{},
				Status:      models.StatusOK,
			},
			{
				Key:         "bob@example.com",
				DisplayName: "Bob Ray",
				Email:       "bob@example.com",
				Issues: []models.Issue{
					{Type: models.IssueMismatch, Text: "Arrives 1 day after check-in"},
					{Type: models.IssueMissing, Text: "Missing from car transfers"},
				},
				Status: models.StatusError,
			},
		},
	}
}

func setupTestModel(t *testing.T) (Model, storage.Provider, func()) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "tripcheck.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	m, err := NewModel(store, testSession())
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m, store, func() { store.Close() }
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, cmd := m.Update(msg)
		m = next.(Model)
		if m.state == StateGuests && k == "enter" && cmd != nil {
			if open, ok := cmd().(guestlist.OpenGuestMsg); ok {
				next, _ = m.Update(open)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestNewModel_SortsWorstFirst(t *testing.T) {
	m, _, cleanup := setupTestModel(t)
	defer cleanup()

	g, ok := m.guestList.Selected()
	if !ok {
		t.Fatal("expected a selected guest")
	}
	if g.DisplayName != "Bob Ray" {
		t.Errorf("first guest = %s, want Bob Ray", g.DisplayName)
	}
}

func TestNewModel_AppliesStoredMeta(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "tripcheck.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()

	if err := store.SaveMeta("bob@example.com", models.GuestMeta{
		Resolved: []string{"Missing from car transfers"},
		Note:     "called travel desk",
	}); err != nil {
		t.Fatalf("SaveMeta() failed: %v", err)
	}

	m, err := NewModel(store, testSession())
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	bob, ok := m.findGuest("bob@example.com")
	if !ok {
		t.Fatal("bob not found")
	}
	if bob.Status != models.StatusWarn {
		t.Errorf("Status = %s, want warn", bob.Status)
	}
	if bob.Note != "called travel desk" {
		t.Errorf("Note = %q", bob.Note)
	}
}

func TestUpdate_EnterOpensDetail(t *testing.T) {
	m, _, cleanup := setupTestModel(t)
	defer cleanup()

	m = press(m, "enter")
	if m.state != StateDetail {
		t.Fatalf("state = %v, want StateDetail", m.state)
	}
	g, ok := m.detail.Guest()
	if !ok || g.DisplayName != "Bob Ray" {
		t.Errorf("detail guest = %+v", g)
	}

	m = press(m, "esc")
	if m.state != StateGuests {
		t.Errorf("state after esc = %v, want StateGuests", m.state)
	}
}

func TestUpdate_ToggleResolvedPersists(t *testing.T) {
	m, store, cleanup := setupTestModel(t)
	defer cleanup()

	m = press(m, "enter", "down", "r")

	meta, err := store.GetMeta("bob@example.com")
	if err != nil {
		t.Fatalf("GetMeta() failed: %v", err)
	}
	if len(meta.Resolved) != 1 || meta.Resolved[0] != "Missing from car transfers" {
		t.Errorf("Resolved = %v, want the car issue", meta.Resolved)
	}

	bob, _ := m.findGuest("bob@example.com")
	if bob.Status != models.StatusWarn {
		t.Errorf("Status = %s, want warn", bob.Status)
	}
	if !strings.HasPrefix(m.status, "Resolved:") {
		t.Errorf("status = %q", m.status)
	}

	// Toggling again reopens the issue and drops the empty metadata.
	m = press(m, "r")
	meta, err = store.GetMeta("bob@example.com")
	if err != nil {
		t.Fatalf("GetMeta() failed: %v", err)
	}
	if !meta.IsEmpty() {
		t.Errorf("meta = %+v, want empty", meta)
	}
	bob, _ = m.findGuest("bob@example.com")
	if bob.Status != models.StatusError {
		t.Errorf("Status = %s, want error", bob.Status)
	}
}

func TestUpdate_ToggleWithoutIssues(t *testing.T) {
	m, store, cleanup := setupTestModel(t)
	defer cleanup()

	m = press(m, "down", "enter", "r")

	if m.status != "This guest has no issues." {
		t.Errorf("status = %q", m.status)
	}
	all, err := store.GetAllMeta()
	if err != nil {
		t.Fatalf("GetAllMeta() failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("meta = %v, want none", all)
	}
}

func TestUpdate_NoteOpensForm(t *testing.T) {
	m, _, cleanup := setupTestModel(t)
	defer cleanup()

	m = press(m, "n")
	if m.state != StateEditing {
		t.Fatalf("state = %v, want StateEditing", m.state)
	}
	if m.editingKey != "bob@example.com" {
		t.Errorf("editingKey = %q", m.editingKey)
	}
	if m.form == nil || m.noteForm == nil {
		t.Fatal("note form not initialised")
	}
}

func TestSaveNote(t *testing.T) {
	m, store, cleanup := setupTestModel(t)
	defer cleanup()

	m.saveNote("ann@example.com", "vegetarian meal confirmed")

	meta, err := store.GetMeta("ann@example.com")
	if err != nil {
		t.Fatalf("GetMeta() failed: %v", err)
	}
	if meta.Note != "vegetarian meal confirmed" {
		t.Errorf("stored note = %q", meta.Note)
	}
	ann, _ := m.findGuest("ann@example.com")
	if ann.Note != "vegetarian meal confirmed" {
		t.Errorf("displayed note = %q", ann.Note)
	}

	m.saveNote("ann@example.com", "")
	meta, _ = store.GetMeta("ann@example.com")
	if meta.Note != "" {
		t.Errorf("note after clear = %q", meta.Note)
	}
}

func TestUpdate_TabFollowsSelection(t *testing.T) {
	m, _, cleanup := setupTestModel(t)
	defer cleanup()

	m = press(m, "down", "tab")
	if m.state != StateDetail {
		t.Fatalf("state = %v, want StateDetail", m.state)
	}
	g, _ := m.detail.Guest()
	if g.DisplayName != "Ann Lee" {
		t.Errorf("detail guest = %s, want Ann Lee", g.DisplayName)
	}

	m = press(m, "tab")
	if m.state != StateGuests {
		t.Errorf("state = %v, want StateGuests", m.state)
	}
}

func TestView(t *testing.T) {
	m, _, cleanup := setupTestModel(t)
	defer cleanup()

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	out := m.View()
	for _, want := range []string{"Guests", "Detail", "2 guests: 1 ok, 0 warn, 1 error"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}

	m = press(m, "q")
	if m.View() != "" {
		t.Error("View() after quit should be empty")
	}
}
