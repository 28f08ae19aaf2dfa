package reconcile

// orderedSet keeps insertion order so that result order is deterministic for
// identical inputs.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

// add ignores empty keys and keys already present.
func (s *orderedSet) add(key string) {
	if key == "" {
		return
	}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, key)
}

func (s *orderedSet) has(key string) bool {
	_, ok := s.seen[key]
	return ok
}
