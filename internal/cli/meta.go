package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tripcheck/internal/logger"
	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/normalize"
	"github.com/julianstephens/tripcheck/internal/reconcile"
	"github.com/julianstephens/tripcheck/internal/report"
	"github.com/julianstephens/tripcheck/internal/storage"
)

var (
	ErrGuestNotFound  = errors.New("guest not found")
	ErrAmbiguousGuest = errors.New("guest reference matches more than one guest")
	ErrIssueNotFound  = errors.New("issue not found")
	ErrAmbiguousIssue = errors.New("issue reference matches more than one issue")
)

// findGuest looks a guest up by metadata key, email, display name or name key.
func findGuest(guests []models.Guest, ref string) (models.Guest, error) {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	nameKey := normalize.NameKey(ref)

	var matches []models.Guest
	for _, g := range guests {
		if g.MetaKey() == ref || g.Key == ref || (g.Email != "" && g.Email == lower) {
			return g, nil
		}
		if nameKey != "" && (normalize.NameKey(g.DisplayName) == nameKey || g.Key == nameKey) {
			matches = append(matches, g)
		}
	}

	switch len(matches) {
	case 0:
		return models.Guest{}, fmt.Errorf("%q: %w", ref, ErrGuestNotFound)
	case 1:
		return matches[0], nil
	}
	keys := make([]string, len(matches))
	for i, g := range matches {
		keys[i] = g.MetaKey()
	}
	return models.Guest{}, fmt.Errorf("%q (%s): %w", ref, strings.Join(keys, ", "), ErrAmbiguousGuest)
}

// findIssue accepts a 1-based issue number, the exact issue text or a unique
// case-insensitive substring of it.
func findIssue(g models.Guest, ref string) (models.Issue, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(g.Issues) {
			return models.Issue{}, fmt.Errorf("issue %d: %w (%s has %d)", n, ErrIssueNotFound, g.DisplayName, len(g.Issues))
		}
		return g.Issues[n-1], nil
	}

	var matches []models.Issue
	lower := strings.ToLower(ref)
	for _, issue := range g.Issues {
		if issue.Text == ref {
			return issue, nil
		}
		if strings.Contains(strings.ToLower(issue.Text), lower) {
			matches = append(matches, issue)
		}
	}
	switch len(matches) {
	case 0:
		return models.Issue{}, fmt.Errorf("%q: %w", ref, ErrIssueNotFound)
	case 1:
		return matches[0], nil
	}
	return models.Issue{}, fmt.Errorf("%q: %w", ref, ErrAmbiguousIssue)
}

// updateGuestMeta applies change to the stored metadata of the guest named by
// ref in the given session, then prints the guest with the new state.
func updateGuestMeta(ctx *Context, sessionRef, ref string, change func(models.Guest, *models.GuestMeta) error) error {
	session, err := storage.ResolveSession(ctx.Store, sessionRef)
	if err != nil {
		return err
	}
	g, err := findGuest(session.Guests, ref)
	if err != nil {
		return err
	}

	key := g.MetaKey()
	meta, err := ctx.Store.GetMeta(key)
	if err != nil {
		return err
	}
	if err := change(g, &meta); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now().UTC()

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.SaveMeta(key, meta); err != nil {
		return err
	}
	logger.Info("Updated guest metadata", "key", key, "resolved", len(meta.Resolved))

	updated := reconcile.ApplyMeta([]models.Guest{g}, models.MetaStore{key: meta})[0]
	report.NewPrinter(ctx.out()).Guest(updated)
	return nil
}

type ResolveCmd struct {
	Guest   string `arg:"" help:"Guest email, name or key."`
	Issue   string `arg:"" help:"Issue number, text, or a unique part of the text."`
	Session string `help:"Session to look the guest up in." default:"latest"`
}

func (c *ResolveCmd) Run(ctx *Context) error {
	return updateGuestMeta(ctx, c.Session, c.Guest, func(g models.Guest, meta *models.GuestMeta) error {
		issue, err := findIssue(g, c.Issue)
		if err != nil {
			return err
		}
		meta.SetResolved(issue.Text, true)
		return nil
	})
}

type UnresolveCmd struct {
	Guest   string `arg:"" help:"Guest email, name or key."`
	Issue   string `arg:"" help:"Issue number, text, or a unique part of the text."`
	Session string `help:"Session to look the guest up in." default:"latest"`
}

func (c *UnresolveCmd) Run(ctx *Context) error {
	return updateGuestMeta(ctx, c.Session, c.Guest, func(g models.Guest, meta *models.GuestMeta) error {
		issue, err := findIssue(g, c.Issue)
		if err != nil {
			return err
		}
		meta.SetResolved(issue.Text, false)
		return nil
	})
}

type NoteCmd struct {
	Guest   string `arg:"" help:"Guest email, name or key."`
	Text    string `arg:"" optional:"" help:"Note text. Opens an editor when omitted."`
	Clear   bool   `help:"Remove the note."`
	Session string `help:"Session to look the guest up in." default:"latest"`
}

func (c *NoteCmd) Run(ctx *Context) error {
	if c.Clear && c.Text != "" {
		return fmt.Errorf("--clear cannot be combined with note text")
	}

	return updateGuestMeta(ctx, c.Session, c.Guest, func(g models.Guest, meta *models.GuestMeta) error {
		switch {
		case c.Clear:
			meta.Note = ""
		case c.Text != "":
			meta.Note = strings.TrimSpace(c.Text)
		default:
			note := meta.Note
			err := huh.NewText().
				Title("Note for " + g.DisplayName).
				Description("Leave empty to clear the note.").
				Value(&note).
				Run()
			if err != nil {
				return err
			}
			meta.Note = strings.TrimSpace(note)
		}
		return nil
	})
}

