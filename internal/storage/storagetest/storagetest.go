// Package storagetest holds behaviour checks shared by every storage.Provider
// implementation.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/storage"
)

// Factory returns an initialized provider and a cleanup func.
type Factory func(t *testing.T) (storage.Provider, func())

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func sampleSession(id string, created time.Time) models.Session {
	return models.Session{
		ID:        id,
		Label:     "dry run " + id,
		CreatedAt: created,
		Window: models.TravelWindow{
			ArrivalStart: date("2025-12-03"),
			ArrivalEnd:   date("2025-12-05"),
		},
		Sources: models.SourceCounts{Flight: 2, Hotel: 2},
		Guests: []models.Guest{
			{
				Key:         "jane@example.com",
				DisplayName: "Jane Doe",
				Email:       "jane@example.com",
				MatchedBy:   models.MatchedByEmail,
				Issues:      []models.Issue{{Type: models.IssueMissing, Text: "Missing from hotel roster"}},
				Resolved:    []string{},
				Status:      models.StatusWarn,
			},
		},
	}
}

// Run exercises the full Provider contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("WindowRoundTrip", func(t *testing.T) {
		store, cleanup := newStore(t)
		defer cleanup()

		empty, err := store.GetWindow()
		if err != nil {
			t.Fatalf("GetWindow() on new store failed: %v", err)
		}
		if !empty.IsZero() {
			t.Errorf("new store window = %+v, want zero", empty)
		}

		want := models.TravelWindow{
			ArrivalStart: date("2025-12-03"),
			DepartureEnd: date("2025-12-09"),
		}
		if err := store.SaveWindow(want); err != nil {
			t.Fatalf("SaveWindow() failed: %v", err)
		}

		got, err := store.GetWindow()
		if err != nil {
			t.Fatalf("GetWindow() failed: %v", err)
		}
		if got.ArrivalStart == nil || !got.ArrivalStart.Equal(*want.ArrivalStart) {
			t.Errorf("ArrivalStart = %v, want %v", got.ArrivalStart, want.ArrivalStart)
		}
		if got.DepartureEnd == nil || !got.DepartureEnd.Equal(*want.DepartureEnd) {
			t.Errorf("DepartureEnd = %v, want %v", got.DepartureEnd, want.DepartureEnd)
		}
		if got.ArrivalEnd != nil || got.DepartureStart != nil {
			t.Errorf("unset bounds came back set: %+v", got)
		}

		if err := store.SaveWindow(models.TravelWindow{}); err != nil {
			t.Fatalf("clearing window failed: %v", err)
		}
		cleared, err := store.GetWindow()
		if err != nil {
			t.Fatalf("GetWindow() after clear failed: %v", err)
		}
		if !cleared.IsZero() {
			t.Errorf("cleared window = %+v, want zero", cleared)
		}
	})

	t.Run("SaveWindowRejectsInvertedRange", func(t *testing.T) {
		store, cleanup := newStore(t)
		defer cleanup()

		err := store.SaveWindow(models.TravelWindow{
			ArrivalStart: date("2025-12-05"),
			ArrivalEnd:   date("2025-12-03"),
		})
		if err == nil {
			t.Error("SaveWindow() with end before start should fail")
		}
	})

	t.Run("MetaRoundTrip", func(t *testing.T) {
		store, cleanup := newStore(t)
		defer cleanup()

		unknown, err := store.GetMeta("nobody@example.com")
		if err != nil {
			t.Fatalf("GetMeta() for unknown key failed: %v", err)
		}
		if !unknown.IsEmpty() {
			t.Errorf("GetMeta() for unknown key = %+v, want empty", unknown)
		}

		meta := models.GuestMeta{
			Resolved: []string{"Missing from hotel roster"},
			Note:     "booked separately",
		}
		if err := store.SaveMeta("jane@example.com", meta); err != nil {
			t.Fatalf("SaveMeta() failed: %v", err)
		}

		got, err := store.GetMeta("jane@example.com")
		if err != nil {
			t.Fatalf("GetMeta() failed: %v", err)
		}
		if len(got.Resolved) != 1 || got.Resolved[0] != "Missing from hotel roster" {
			t.Errorf("Resolved = %v, want [Missing from hotel roster]", got.Resolved)
		}
		if got.Note != "booked separately" {
			t.Errorf("Note = %q, want %q", got.Note, "booked separately")
		}
		if got.UpdatedAt.IsZero() {
			t.Error("UpdatedAt was not set")
		}

		all, err := store.GetAllMeta()
		if err != nil {
			t.Fatalf("GetAllMeta() failed: %v", err)
		}
		if _, ok := all["jane@example.com"]; !ok || len(all) != 1 {
			t.Errorf("GetAllMeta() = %v, want one entry for jane@example.com", all)
		}
	})

	t.Run("SaveEmptyMetaDeletes", func(t *testing.T) {
		store, cleanup := newStore(t)
		defer cleanup()

		if err := store.SaveMeta("johnsmith", models.GuestMeta{Note: "vip"}); err != nil {
			t.Fatalf("SaveMeta() failed: %v", err)
		}
		if err := store.SaveMeta("johnsmith", models.GuestMeta{}); err != nil {
			t.Fatalf("SaveMeta() with empty meta failed: %v", err)
		}

		all, err := store.GetAllMeta()
		if err != nil {
			t.Fatalf("GetAllMeta() failed: %v", err)
		}
		if len(all) != 0 {
			t.Errorf("GetAllMeta() = %v, want empty after clearing", all)
		}
	})

	t.Run("SessionLifecycle", func(t *testing.T) {
		store, cleanup := newStore(t)
		defer cleanup()

		base := time.Date(2025, 11, 20, 9, 30, 0, 0, time.UTC)
		older := sampleSession("11111111-aaaa", base)
		newer := sampleSession("22222222-bbbb", base.Add(time.Hour))

		for _, s := range []models.Session{older, newer} {
			if err := store.SaveSession(s); err != nil {
				t.Fatalf("SaveSession(%s) failed: %v", s.ID, err)
			}
		}

		sessions, err := store.ListSessions()
		if err != nil {
			t.Fatalf("ListSessions() failed: %v", err)
		}
		if len(sessions) != 2 {
			t.Fatalf("ListSessions() returned %d sessions, want 2", len(sessions))
		}
		if sessions[0].ID != newer.ID || sessions[1].ID != older.ID {
			t.Errorf("ListSessions() order = [%s %s], want newest first", sessions[0].ID, sessions[1].ID)
		}

		got, err := store.GetSession(older.ID)
		if err != nil {
			t.Fatalf("GetSession() failed: %v", err)
		}
		if got.Label != older.Label || !got.CreatedAt.Equal(older.CreatedAt) {
			t.Errorf("GetSession() = {%q %v}, want {%q %v}", got.Label, got.CreatedAt, older.Label, older.CreatedAt)
		}
		if got.Sources != older.Sources {
			t.Errorf("Sources = %+v, want %+v", got.Sources, older.Sources)
		}
		if len(got.Guests) != 1 || got.Guests[0].Status != models.StatusWarn {
			t.Fatalf("Guests = %+v, want one warn guest", got.Guests)
		}
		if got.Guests[0].Issues[0].Text != "Missing from hotel roster" {
			t.Errorf("issue text = %q", got.Guests[0].Issues[0].Text)
		}
		if got.Window.ArrivalEnd == nil || !got.Window.ArrivalEnd.Equal(*older.Window.ArrivalEnd) {
			t.Errorf("Window.ArrivalEnd = %v, want %v", got.Window.ArrivalEnd, older.Window.ArrivalEnd)
		}

		older.Label = "renamed"
		if err := store.SaveSession(older); err != nil {
			t.Fatalf("re-saving session failed: %v", err)
		}
		got, err = store.GetSession(older.ID)
		if err != nil {
			t.Fatalf("GetSession() after update failed: %v", err)
		}
		if got.Label != "renamed" {
			t.Errorf("Label = %q, want %q", got.Label, "renamed")
		}

		if err := store.DeleteSession(older.ID); err != nil {
			t.Fatalf("DeleteSession() failed: %v", err)
		}
		if _, err := store.GetSession(older.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetSession() after delete error = %v, want ErrNotFound", err)
		}
		if err := store.DeleteSession(older.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second DeleteSession() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("SaveSessionRequiresID", func(t *testing.T) {
		store, cleanup := newStore(t)
		defer cleanup()

		if err := store.SaveSession(models.Session{}); err == nil {
			t.Error("SaveSession() without an id should fail")
		}
	})

	t.Run("ResolveSession", func(t *testing.T) {
		store, cleanup := newStore(t)
		defer cleanup()

		base := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
		for i, id := range []string{"abc123", "abd456", "ffe789"} {
			if err := store.SaveSession(sampleSession(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
				t.Fatalf("SaveSession() failed: %v", err)
			}
		}

		tests := []struct {
			ref     string
			want    string
			wantErr error
		}{
			{ref: "latest", want: "ffe789"},
			{ref: "", want: "ffe789"},
			{ref: "previous", want: "abd456"},
			{ref: "abc123", want: "abc123"},
			{ref: "ff", want: "ffe789"},
			{ref: "ab", wantErr: storage.ErrAmbiguousSession},
			{ref: "zzz", wantErr: storage.ErrNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.ref, func(t *testing.T) {
				got, err := storage.ResolveSession(store, tt.ref)
				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Errorf("ResolveSession(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
					}
					return
				}
				if err != nil {
					t.Fatalf("ResolveSession(%q) failed: %v", tt.ref, err)
				}
				if got.ID != tt.want {
					t.Errorf("ResolveSession(%q) = %s, want %s", tt.ref, got.ID, tt.want)
				}
			})
		}
	})

	t.Run("ResolveSessionEmptyStore", func(t *testing.T) {
		store, cleanup := newStore(t)
		defer cleanup()

		for _, ref := range []string{"latest", "previous"} {
			if _, err := storage.ResolveSession(store, ref); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("ResolveSession(%q) error = %v, want ErrNotFound", ref, err)
			}
		}
	})
}
