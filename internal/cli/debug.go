package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/tripcheck/internal/columns"
	"github.com/julianstephens/tripcheck/internal/normalize"
	"github.com/julianstephens/tripcheck/internal/report"
	"github.com/julianstephens/tripcheck/internal/sources"
	"github.com/julianstephens/tripcheck/internal/storage"
	"github.com/julianstephens/tripcheck/internal/tabular"
)

type DebugCmd struct {
	DBPath      DebugDBPathCmd      `cmd:"" name:"db-path" help:"Show database path."`
	DumpSession DebugDumpSessionCmd `cmd:"" help:"Dump a stored session as JSON."`
	DumpMeta    DebugDumpMetaCmd    `cmd:"" help:"Dump guest metadata as JSON."`
	Columns     DebugColumnsCmd     `cmd:"" help:"Show how a file's header maps onto source fields."`
}

type DebugDBPathCmd struct{}

func (c *DebugDBPathCmd) Run(ctx *Context) error {
	return report.WriteJSON(ctx.out(), map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpSessionCmd struct {
	Ref string `arg:"" optional:"" default:"latest" help:"Session id, unique id prefix, 'latest' or 'previous'."`
}

func (c *DebugDumpSessionCmd) Run(ctx *Context) error {
	session, err := storage.ResolveSession(ctx.Store, c.Ref)
	if err != nil {
		return err
	}
	return report.WriteJSON(ctx.out(), session)
}

type DebugDumpMetaCmd struct {
	Key string `arg:"" optional:"" help:"Only dump this guest key."`
}

func (c *DebugDumpMetaCmd) Run(ctx *Context) error {
	if c.Key != "" {
		meta, err := ctx.Store.GetMeta(c.Key)
		if err != nil {
			return err
		}
		return report.WriteJSON(ctx.out(), meta)
	}

	all, err := ctx.Store.GetAllMeta()
	if err != nil {
		return err
	}
	return report.WriteJSON(ctx.out(), all)
}

// DebugColumnsCmd does not touch the store.
type DebugColumnsCmd struct {
	Kind string `arg:"" enum:"flight,hotel,car,dietary" help:"Source kind (flight, hotel, car, dietary)."`
	File string `arg:"" type:"existingfile" help:"CSV, TSV or XLSX file to inspect."`
}

func (c *DebugColumnsCmd) Run(ctx *Context) error {
	kind, err := sources.ParseKind(c.Kind)
	if err != nil {
		return err
	}
	sheet, err := tabular.ReadFile(c.File)
	if err != nil {
		return err
	}
	if len(sheet.Rows) == 0 {
		return fmt.Errorf("%s is empty", c.File)
	}

	header := make([]string, len(sheet.Rows[0]))
	for i, cell := range sheet.Rows[0] {
		header[i] = normalize.Text(cell)
	}
	m := columns.Resolve(header, sources.Columns(kind))

	fmt.Fprintf(ctx.out(), "%s (%s, %d data rows)\n\n", c.File, sheet.Encoding, sheet.DataRows())
	for _, f := range m.Fields() {
		idx, ok := m.Index(f)
		if !ok {
			fmt.Fprintf(ctx.out(), "  %-16s -\n", f)
			continue
		}
		fmt.Fprintf(ctx.out(), "  %-16s column %d %q\n", f, idx+1, header[idx])
	}

	if collisions := m.Collisions(); len(collisions) > 0 {
		fmt.Fprintln(ctx.out())
		report.NewPrinter(ctx.out()).Collisions(c.Kind, header, collisions)
	}

	var unused []string
	used := map[int]bool{}
	for _, f := range m.Fields() {
		if idx, ok := m.Index(f); ok {
			used[idx] = true
		}
	}
	for i, h := range header {
		if !used[i] && h != "" {
			unused = append(unused, h)
		}
	}
	if len(unused) > 0 {
		fmt.Fprintf(ctx.out(), "\nUnused columns: %s\n", strings.Join(unused, ", "))
	}
	return nil
}
