package cli

import (
	"github.com/julianstephens/tripcheck/internal/diff"
	"github.com/julianstephens/tripcheck/internal/report"
	"github.com/julianstephens/tripcheck/internal/storage"
)

// DiffCmd compares two saved sessions as they were stored.
type DiffCmd struct {
	Previous string `arg:"" optional:"" default:"previous" help:"Older session (id, prefix, 'latest' or 'previous')."`
	Current  string `arg:"" optional:"" default:"latest" help:"Newer session (id, prefix, 'latest' or 'previous')."`
	Format   string `help:"Output format." enum:"table,json" default:"table"`
}

func (c *DiffCmd) Run(ctx *Context) error {
	previous, err := storage.ResolveSession(ctx.Store, c.Previous)
	if err != nil {
		return err
	}
	current, err := storage.ResolveSession(ctx.Store, c.Current)
	if err != nil {
		return err
	}

	result := diff.Results(previous.Guests, current.Guests)
	if c.Format == string(report.FormatJSON) {
		return report.WriteJSON(ctx.out(), struct {
			Previous string      `json:"previous"`
			Current  string      `json:"current"`
			Result   diff.Result `json:"result"`
		}{previous.ID, current.ID, result})
	}

	report.NewPrinter(ctx.out()).Diff(previous, current, result)
	return nil
}
