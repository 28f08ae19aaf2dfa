package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tripcheck/internal/storage"
	"github.com/julianstephens/tripcheck/internal/tui"
)

type ReviewCmd struct {
	Ref string `arg:"" optional:"" default:"latest" help:"Session id, unique id prefix, 'latest' or 'previous'."`
}

func (c *ReviewCmd) Run(ctx *Context) error {
	session, err := storage.ResolveSession(ctx.Store, c.Ref)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	model, err := tui.NewModel(ctx.Store, session)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("review failed: %w", err)
	}
	return nil
}
