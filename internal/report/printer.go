package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/tripcheck/internal/columns"
	"github.com/julianstephens/tripcheck/internal/diff"
	"github.com/julianstephens/tripcheck/internal/models"
)

// Printer writes styled plain-text output. Colours are only emitted when w is
// a terminal that supports them.
type Printer struct {
	w io.Writer

	title    lipgloss.Style
	muted    lipgloss.Style
	header   lipgloss.Style
	border   lipgloss.Style
	statuses map[models.Status]lipgloss.Style
	resolved lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		title:  r.NewStyle().Bold(true),
		muted:  r.NewStyle().Foreground(lipgloss.Color("241")),
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(0, 1),
		border: r.NewStyle().Foreground(lipgloss.Color("238")),
		statuses: map[models.Status]lipgloss.Style{
			models.StatusOK:    r.NewStyle().Foreground(lipgloss.Color("42")),
			models.StatusWarn:  r.NewStyle().Foreground(lipgloss.Color("214")),
			models.StatusError: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
		resolved: r.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true),
	}
}

func (p *Printer) status(s models.Status) string {
	if style, ok := p.statuses[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

// Report prints the header, the guest table and the summary.
func (p *Printer) Report(r Report) error {
	if r.Label != "" {
		fmt.Fprintln(p.w, p.title.Render(r.Label))
	}
	if r.Session != "" {
		fmt.Fprintf(p.w, "%s\n", p.muted.Render(fmt.Sprintf("session %s  %s", r.Session, r.GeneratedAt.Local().Format("2006-01-02 15:04"))))
	}
	fmt.Fprintf(p.w, "Sources: %d flight, %d hotel, %d car, %d dietary rows\n",
		r.Sources.Flight, r.Sources.Hotel, r.Sources.Car, r.Sources.Dietary)
	if !r.Window.IsZero() {
		fmt.Fprintf(p.w, "Window:  %s\n", WindowLine(r.Window))
	}
	fmt.Fprintln(p.w)

	if len(r.Guests) == 0 {
		fmt.Fprintln(p.w, "No guests to show.")
	} else {
		fmt.Fprintln(p.w, p.GuestTable(r.Guests))
	}
	fmt.Fprintln(p.w)
	p.Summary(r.Summary)
	return nil
}

// GuestTable renders one row per guest, worst status first.
func (p *Printer) GuestTable(guests []models.Guest) string {
	rows := make([][]string, 0, len(guests))
	for _, g := range SortForDisplay(guests) {
		issues := strings.Join(activeTexts(g), "; ")
		if n := len(g.Resolved); n > 0 {
			issues = strings.TrimPrefix(issues+fmt.Sprintf("; (%d resolved)", n), "; ")
		}
		rows = append(rows, []string{
			g.DisplayName,
			g.Email,
			p.status(g.Status),
			formatOffset(g.Details.ArrDiff) + "/" + formatOffset(g.Details.DepDiff),
			issues,
			g.Note,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("GUEST", "EMAIL", "STATUS", "ARR/DEP", "ISSUES", "NOTE").
		Rows(rows...)
	return t.String()
}

func (p *Printer) Summary(s Summary) {
	fmt.Fprintf(p.w, "%d guests: %d %s, %d %s, %d %s\n",
		s.Guests,
		s.ByStatus[models.StatusOK], p.status(models.StatusOK),
		s.ByStatus[models.StatusWarn], p.status(models.StatusWarn),
		s.ByStatus[models.StatusError], p.status(models.StatusError),
	)
	line := s.issueLine()
	if s.Resolved > 0 {
		line += fmt.Sprintf(" (%d resolved)", s.Resolved)
	}
	fmt.Fprintf(p.w, "Issues: %s\n", line)
}

// Guest prints every known detail of one guest, including resolved issues.
func (p *Printer) Guest(g models.Guest) {
	fmt.Fprintf(p.w, "%s  %s\n", p.title.Render(g.DisplayName), p.status(g.Status))
	fmt.Fprintf(p.w, "  key:        %s (matched by %s)\n", g.Key, g.MatchedBy)
	if g.Email != "" {
		fmt.Fprintf(p.w, "  email:      %s\n", g.Email)
	}
	if f := g.Flight; f != nil {
		fmt.Fprintf(p.w, "  flight:     %s %s -> %s %s %s\n", formatDate(f.FlightArrival), f.FlightIn, formatDate(f.FlightDeparture), f.FlightOut, f.Airport)
	}
	if h := g.Hotel; h != nil {
		fmt.Fprintf(p.w, "  hotel:      %s -> %s %s %s\n", formatDate(h.CheckIn), formatDate(h.CheckOut), h.Hotel, h.Room)
	}
	if c := g.Car; c != nil {
		fmt.Fprintf(p.w, "  car:        %s %s -> %s %s %s\n", formatDate(c.PickupDate), c.PickupLoc, formatDate(c.DropoffDate), c.DropoffLoc, c.Confirmation)
	}
	if d := g.Diet; d != nil {
		fmt.Fprintf(p.w, "  dietary:    %s %s %s\n", d.Dietary, d.Accessibility, d.SpecialNotes)
	}
	fmt.Fprintf(p.w, "  offsets:    arrival %s, departure %s, pickup %s, dropoff %s\n",
		formatOffset(g.Details.ArrDiff), formatOffset(g.Details.DepDiff),
		formatOffset(g.Details.PickupDiff), formatOffset(g.Details.DropoffDiff))

	for i, issue := range g.Issues {
		text := fmt.Sprintf("%d. [%s] %s", i+1, issue.Type, issue.Text)
		if g.IsResolved(issue.Text) {
			text = p.resolved.Render(text) + " (resolved)"
		}
		fmt.Fprintf(p.w, "  %s\n", text)
	}
	if g.Note != "" {
		fmt.Fprintf(p.w, "  note:       %s\n", g.Note)
	}
}

// Diff prints added, removed and changed guests. Unchanged guests are only counted.
func (p *Printer) Diff(previous, current models.Session, d diff.Result) {
	fmt.Fprintf(p.w, "Comparing %s (%s) -> %s (%s)\n\n",
		shortID(previous.ID), previous.CreatedAt.Local().Format("2006-01-02 15:04"),
		shortID(current.ID), current.CreatedAt.Local().Format("2006-01-02 15:04"))

	if d.IsEmpty() {
		fmt.Fprintf(p.w, "No changes (%d guests unchanged).\n", len(d.Unchanged))
		return
	}

	for _, g := range d.Added {
		fmt.Fprintf(p.w, "+ %s  %s\n", g.DisplayName, p.status(g.Status))
	}
	for _, g := range d.Removed {
		fmt.Fprintf(p.w, "- %s  %s\n", g.DisplayName, p.status(g.Status))
	}
	for _, c := range d.Changed {
		fmt.Fprintf(p.w, "~ %s  %s -> %s\n", c.Current.DisplayName, p.status(c.Previous.Status), p.status(c.Current.Status))
		for _, text := range issueDelta(c.Previous, c.Current) {
			fmt.Fprintf(p.w, "    %s\n", text)
		}
	}

	fmt.Fprintf(p.w, "\n%d added, %d removed, %d changed, %d unchanged\n",
		len(d.Added), len(d.Removed), len(d.Changed), len(d.Unchanged))
}

// issueDelta lists issue texts that appeared ("+") or disappeared ("-").
func issueDelta(previous, current models.Guest) []string {
	var out []string
	for _, issue := range current.Issues {
		if !previous.HasIssue(issue.Text) {
			out = append(out, "+ "+issue.Text)
		}
	}
	for _, issue := range previous.Issues {
		if !current.HasIssue(issue.Text) {
			out = append(out, "- "+issue.Text)
		}
	}
	return out
}

// Collisions warns about header cells claimed by more than one field.
func (p *Printer) Collisions(source string, header []string, collisions []columns.Collision) {
	for _, c := range collisions {
		names := make([]string, len(c.Fields))
		for i, f := range c.Fields {
			names[i] = string(f)
		}
		cell := ""
		if c.Column < len(header) {
			cell = header[c.Column]
		}
		fmt.Fprintf(p.w, "%s %s column %d %q feeds %s\n",
			p.statuses[models.StatusWarn].Render("warning:"), source, c.Column+1, cell, strings.Join(names, ", "))
	}
}

// Sessions lists saved sessions, newest first.
func (p *Printer) Sessions(sessions []models.Session) string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		counts := s.StatusCounts()
		rows = append(rows, []string{
			shortID(s.ID),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Label,
			fmt.Sprintf("%d", len(s.Guests)),
			fmt.Sprintf("%d/%d/%d", counts[models.StatusOK], counts[models.StatusWarn], counts[models.StatusError]),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "CREATED", "LABEL", "GUESTS", "OK/WARN/ERROR").
		Rows(rows...).
		String()
}

// WindowLine renders a travel window on one line.
func WindowLine(w models.TravelWindow) string {
	if w.IsZero() {
		return "not set"
	}
	return fmt.Sprintf("arrival %s to %s, departure %s to %s",
		formatDate(w.ArrivalStart), formatDate(w.ArrivalEnd),
		formatDate(w.DepartureStart), formatDate(w.DepartureEnd))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
