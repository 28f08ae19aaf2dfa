// Package report renders reconciliation results for the terminal and as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/reconcile"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Filter narrows the guests shown. The zero value keeps everyone.
type Filter struct {
	OnlyIssues bool
	Status     models.Status
}

// Apply returns the guests that pass the filter, in their original order.
// OnlyIssues keeps guests with at least one active issue.
func (f Filter) Apply(guests []models.Guest) []models.Guest {
	out := make([]models.Guest, 0, len(guests))
	for _, g := range guests {
		if f.OnlyIssues && g.Status == models.StatusOK {
			continue
		}
		if f.Status != "" && g.Status != f.Status {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Summary tallies guests per status and active issues per type.
type Summary struct {
	Guests   int                      `json:"guests"`
	ByStatus map[models.Status]int    `json:"by_status"`
	ByIssue  map[models.IssueType]int `json:"by_issue"`
	Resolved int                      `json:"resolved"`
}

func Summarize(guests []models.Guest) Summary {
	s := Summary{
		Guests:   len(guests),
		ByStatus: map[models.Status]int{models.StatusOK: 0, models.StatusWarn: 0, models.StatusError: 0},
		ByIssue:  map[models.IssueType]int{},
	}
	for _, g := range guests {
		s.ByStatus[g.Status]++
		active, _ := reconcile.DeriveStatus(g.Issues, g.Resolved)
		for _, issue := range active {
			s.ByIssue[issue.Type]++
		}
		s.Resolved += len(g.Issues) - len(active)
	}
	return s
}

// Report is the JSON document written by check and sessions show.
type Report struct {
	Session     string              `json:"session,omitempty"`
	Label       string              `json:"label,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
	Window      models.TravelWindow `json:"window"`
	Sources     models.SourceCounts `json:"sources"`
	Summary     Summary             `json:"summary"`
	Guests      []models.Guest      `json:"guests"`
}

// New builds a report from a session. The summary covers every guest; Guests
// holds only those passing the filter.
func New(session models.Session, filter Filter) Report {
	return Report{
		Session:     session.ID,
		Label:       session.Label,
		GeneratedAt: session.CreatedAt,
		Window:      session.Window,
		Sources:     session.Sources,
		Summary:     Summarize(session.Guests),
		Guests:      filter.Apply(session.Guests),
	}
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Write renders r in the requested format.
func Write(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatTable, "":
		return NewPrinter(w).Report(r)
	}
	return fmt.Errorf("unknown format %q (want table or json)", format)
}

// issueOrder is the display order of issue types.
var issueOrder = []models.IssueType{
	models.IssueMissing,
	models.IssueMismatch,
	models.IssueWindow,
	models.IssueDuplicate,
}

func (s Summary) issueLine() string {
	var parts []string
	for _, t := range issueOrder {
		if n := s.ByIssue[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, t))
		}
	}
	if len(parts) == 0 {
		return "no active issues"
	}
	return strings.Join(parts, ", ")
}

// activeTexts lists the unresolved issue texts of g.
func activeTexts(g models.Guest) []string {
	active, _ := reconcile.DeriveStatus(g.Issues, g.Resolved)
	texts := make([]string, len(active))
	for i, issue := range active {
		texts[i] = issue.Text
	}
	return texts
}

func formatOffset(d *int) string {
	if d == nil {
		return "-"
	}
	if *d > 0 {
		return fmt.Sprintf("+%d", *d)
	}
	return fmt.Sprintf("%d", *d)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

// SortForDisplay orders guests worst status first, then by display name.
func SortForDisplay(guests []models.Guest) []models.Guest {
	rank := map[models.Status]int{models.StatusError: 0, models.StatusWarn: 1, models.StatusOK: 2}
	out := slices.Clone(guests)
	slices.SortStableFunc(out, func(a, b models.Guest) int {
		if c := rank[a.Status] - rank[b.Status]; c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName))
	})
	return out
}
