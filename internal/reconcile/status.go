package reconcile

import (
	"slices"

	"github.com/julianstephens/tripcheck/internal/models"
)

// DeriveStatus filters out resolved issues and grades what is left:
// none is ok, one is warn, two or more is error.
func DeriveStatus(issues []models.Issue, resolved []string) ([]models.Issue, models.Status) {
	active := make([]models.Issue, 0, len(issues))
	for _, issue := range issues {
		if !slices.Contains(resolved, issue.Text) {
			active = append(active, issue)
		}
	}

	switch len(active) {
	case 0:
		return active, models.StatusOK
	case 1:
		return active, models.StatusWarn
	default:
		return active, models.StatusError
	}
}

// ApplyMeta projects metadata onto already matched guests and re-derives their
// status from the stored issues. The input slice is not modified.
func ApplyMeta(guests []models.Guest, meta models.MetaStore) []models.Guest {
	out := make([]models.Guest, len(guests))
	for i, g := range guests {
		out[i] = applyMeta(g, meta)
	}
	return out
}

func applyMeta(g models.Guest, meta models.MetaStore) models.Guest {
	m := meta[g.MetaKey()]
	g.Resolved = append([]string{}, m.Resolved...)
	g.Note = m.Note
	_, g.Status = DeriveStatus(g.Issues, g.Resolved)
	return g
}
