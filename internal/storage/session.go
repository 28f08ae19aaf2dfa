package storage

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/tripcheck/internal/constants"
	"github.com/julianstephens/tripcheck/internal/models"
)

var ErrAmbiguousSession = errors.New("session reference is ambiguous")

// SortSessions orders sessions newest first, breaking ties by id.
func SortSessions(sessions []models.Session) {
	slices.SortFunc(sessions, func(a, b models.Session) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// ResolveSession finds a session by reference: "latest", "previous", a full
// id, or a unique id prefix.
func ResolveSession(p Provider, ref string) (models.Session, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = constants.SessionLatest
	}

	sessions, err := p.ListSessions()
	if err != nil {
		return models.Session{}, err
	}

	switch ref {
	case constants.SessionLatest:
		if len(sessions) == 0 {
			return models.Session{}, fmt.Errorf("no saved sessions: %w", ErrNotFound)
		}
		return sessions[0], nil
	case constants.SessionPrevious:
		if len(sessions) < 2 {
			return models.Session{}, fmt.Errorf("no previous session: %w", ErrNotFound)
		}
		return sessions[1], nil
	}

	var match *models.Session
	for i := range sessions {
		if sessions[i].ID == ref {
			return sessions[i], nil
		}
		if strings.HasPrefix(sessions[i].ID, ref) {
			if match != nil {
				return models.Session{}, fmt.Errorf("%q: %w", ref, ErrAmbiguousSession)
			}
			match = &sessions[i]
		}
	}
	if match == nil {
		return models.Session{}, fmt.Errorf("session %s: %w", ref, ErrNotFound)
	}
	return *match, nil
}
