package services

// NameSet is a read-only snapshot of stored opportunity names.
type NameSet struct {
	names map[string]struct{}
}

// NewNameSet builds a set from the given names.
func NewNameSet(names []string) *NameSet {
	set := &NameSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		set.names[n] = struct{}{}
	}
	return set
}

// Contains reports whether name was in the snapshot. Matching is exact.
func (s *NameSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Len returns the number of distinct names.
func (s *NameSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}
