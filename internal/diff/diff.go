// Package diff compares two reconciliation results guest by guest.
package diff

import (
	"slices"
	"strings"

	"github.com/julianstephens/tripcheck/internal/models"
)

// Change holds both sides of a guest whose issues or status moved.
type Change struct {
	Previous models.Guest `json:"previous"`
	Current  models.Guest `json:"current"`
}

type Result struct {
	Added     []models.Guest `json:"added"`
	Removed   []models.Guest `json:"removed"`
	Changed   []Change       `json:"changed"`
	Unchanged []models.Guest `json:"unchanged"`
}

// IsEmpty reports whether nothing was added, removed or changed.
func (r Result) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Key identifies a guest across runs: email when present, else the match key.
func Key(g models.Guest) string {
	if g.Email != "" {
		return g.Email
	}
	return g.Key
}

// Results classifies every guest of previous and current. A nil input means
// there is nothing to compare against and every list comes back empty.
//
// Issue order is ignored; only the set of issue texts and the status count.
func Results(previous, current []models.Guest) Result {
	out := Result{
		Added:     []models.Guest{},
		Removed:   []models.Guest{},
		Changed:   []Change{},
		Unchanged: []models.Guest{},
	}
	if previous == nil || current == nil {
		return out
	}

	prevByKey := make(map[string]models.Guest, len(previous))
	for _, g := range previous {
		prevByKey[Key(g)] = g
	}
	currByKey := make(map[string]models.Guest, len(current))
	for _, g := range current {
		currByKey[Key(g)] = g
	}

	seen := make(map[string]bool, len(current))
	for _, g := range current {
		key := Key(g)
		if seen[key] {
			continue
		}
		seen[key] = true

		cur := currByKey[key]
		prev, ok := prevByKey[key]
		switch {
		case !ok:
			out.Added = append(out.Added, cur)
		case fingerprint(prev) != fingerprint(cur):
			out.Changed = append(out.Changed, Change{Previous: prev, Current: cur})
		default:
			out.Unchanged = append(out.Unchanged, cur)
		}
	}

	removed := make(map[string]bool)
	for _, g := range previous {
		key := Key(g)
		if _, ok := currByKey[key]; ok || removed[key] {
			continue
		}
		removed[key] = true
		out.Removed = append(out.Removed, prevByKey[key])
	}

	return out
}

func fingerprint(g models.Guest) string {
	texts := make([]string, 0, len(g.Issues))
	for _, issue := range g.Issues {
		texts = append(texts, issue.Text)
	}
	slices.Sort(texts)
	return strings.Join(texts, "|") + "#" + string(g.Status)
}
