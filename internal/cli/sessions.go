package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/tripcheck/internal/logger"
	"github.com/julianstephens/tripcheck/internal/reconcile"
	"github.com/julianstephens/tripcheck/internal/report"
	"github.com/julianstephens/tripcheck/internal/storage"
)

type SessionsCmd struct {
	List   SessionsListCmd   `cmd:"" default:"1" help:"List saved sessions, newest first."`
	Show   SessionsShowCmd   `cmd:"" help:"Show a saved session."`
	Delete SessionsDeleteCmd `cmd:"" help:"Delete a saved session."`
}

type SessionsListCmd struct {
	Format string `help:"Output format." enum:"table,json" default:"table"`
}

func (c *SessionsListCmd) Run(ctx *Context) error {
	sessions, err := ctx.Store.ListSessions()
	if err != nil {
		return err
	}

	if c.Format == string(report.FormatJSON) {
		type entry struct {
			ID      string         `json:"id"`
			Label   string         `json:"label"`
			Created string         `json:"created_at"`
			Guests  int            `json:"guests"`
			Status  map[string]int `json:"by_status"`
		}
		out := make([]entry, 0, len(sessions))
		for _, s := range sessions {
			counts := map[string]int{}
			for status, n := range s.StatusCounts() {
				counts[string(status)] = n
			}
			out = append(out, entry{
				ID:      s.ID,
				Label:   s.Label,
				Created: s.CreatedAt.Format(time.RFC3339),
				Guests:  len(s.Guests),
				Status:  counts,
			})
		}
		return report.WriteJSON(ctx.out(), out)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(ctx.out(), "No saved sessions. Run 'tripcheck check' to create one.")
		return nil
	}
	fmt.Fprintln(ctx.out(), report.NewPrinter(ctx.out()).Sessions(sessions))
	return nil
}

// SessionsShowCmd prints a stored session. Resolutions and notes are the
// current ones, not those in effect when the session was saved.
type SessionsShowCmd struct {
	Ref   string `arg:"" optional:"" default:"latest" help:"Session id, unique id prefix, 'latest' or 'previous'."`
	Guest string `short:"g" help:"Show one guest in detail."`

	FilterFlags `embed:""`
}

func (c *SessionsShowCmd) Run(ctx *Context) error {
	session, err := storage.ResolveSession(ctx.Store, c.Ref)
	if err != nil {
		return err
	}
	meta, err := ctx.Store.GetAllMeta()
	if err != nil {
		return err
	}
	session.Guests = reconcile.ApplyMeta(session.Guests, meta)

	if c.Guest != "" {
		g, err := findGuest(session.Guests, c.Guest)
		if err != nil {
			return err
		}
		if c.Format == string(report.FormatJSON) {
			return report.WriteJSON(ctx.out(), g)
		}
		report.NewPrinter(ctx.out()).Guest(g)
		return nil
	}

	return report.Write(ctx.out(), report.New(session, c.filter()), report.Format(c.Format))
}

type SessionsDeleteCmd struct {
	Ref string `arg:"" help:"Session id, unique id prefix, 'latest' or 'previous'."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *SessionsDeleteCmd) Run(ctx *Context) error {
	session, err := storage.ResolveSession(ctx.Store, c.Ref)
	if err != nil {
		return err
	}

	if !c.Yes {
		prompt := fmt.Sprintf("Delete session %s (%s, %d guests)?", session.ID, session.CreatedAt.Local().Format("2006-01-02 15:04"), len(session.Guests))
		ok, err := ctx.confirm(prompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.out(), "Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteSession(session.ID); err != nil {
		return err
	}
	logger.Info("Deleted session", "id", session.ID)
	fmt.Fprintf(ctx.out(), "✓ Deleted session %s\n", session.ID)
	return nil
}
