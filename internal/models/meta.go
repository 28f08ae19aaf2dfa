package models

import (
	"slices"
	"time"
)

// GuestMeta is the user-owned annotation state for a guest key.
type GuestMeta struct {
	Resolved  []string  `json:"resolved"`
	Note      string    `json:"note"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MetaStore maps guest keys (email, or normalized name when no email) to metadata.
type MetaStore map[string]GuestMeta

// ToggleResolved flips the resolution of an issue text and reports whether it is now resolved.
func (m *GuestMeta) ToggleResolved(text string) bool {
	if i := slices.Index(m.Resolved, text); i >= 0 {
		m.Resolved = slices.Delete(m.Resolved, i, i+1)
		return false
	}
	m.Resolved = append(m.Resolved, text)
	return true
}

// SetResolved marks an issue text resolved or unresolved. It is idempotent.
func (m *GuestMeta) SetResolved(text string, resolved bool) {
	i := slices.Index(m.Resolved, text)
	switch {
	case resolved && i < 0:
		m.Resolved = append(m.Resolved, text)
	case !resolved && i >= 0:
		m.Resolved = slices.Delete(m.Resolved, i, i+1)
	}
}

// IsEmpty reports whether the metadata carries nothing worth persisting.
func (m GuestMeta) IsEmpty() bool {
	return len(m.Resolved) == 0 && m.Note == ""
}
