package coupon

// Set is a map-backed string set used for country and category membership checks.
// The zero value is an empty, read-only set; use NewSet to build one.
type Set struct {
	members map[string]struct{}
}

// NewSet creates a set holding the given values. Duplicates collapse.
func NewSet(values ...string) Set {
	s := Set{members: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.members[v] = struct{}{}
	}
	return s
}

// Contains checks if a value exists in the set.
func (s Set) Contains(value string) bool {
	_, exists := s.members[value]
	return exists
}

// Size returns the number of distinct values in the set.
func (s Set) Size() int {
	return len(s.members)
}

// Add adds a value to the set.
func (s Set) Add(value string) {
	s.members[value] = struct{}{}
}

// Intersects reports whether the two sets share at least one value.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if small.Size() > large.Size() {
		small, large = large, small
	}
	for v := range small.members {
		if large.Contains(v) {
			return true
		}
	}
	return false
}
