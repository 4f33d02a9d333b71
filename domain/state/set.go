package state

import "sort"

// Set is an unordered set of state IDs. The zero value is an empty set,
// but mutating methods require a set created with NewSet or make.
type Set map[ID]struct{}

// NewSet creates a set containing the given IDs.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an ID into the set.
func (s Set) Add(id ID) {
	s[id] = struct{}{}
}

// Remove deletes an ID from the set.
func (s Set) Remove(id ID) {
	delete(s, id)
}

// Contains reports whether the set contains id.
func (s Set) Contains(id ID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s Set) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Union returns a new set containing every ID in s or other.
func (s Set) Union(other Set) Set {
	u := s.Clone()
	for id := range other {
		u[id] = struct{}{}
	}
	return u
}

// Difference returns a new set containing the IDs in s but not in other.
func (s Set) Difference(other Set) Set {
	d := make(Set)
	for id := range s {
		if !other.Contains(id) {
			d[id] = struct{}{}
		}
	}
	return d
}

// Intersect returns a new set containing the IDs in both s and other.
func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	i := make(Set)
	for id := range small {
		if large.Contains(id) {
			i[id] = struct{}{}
		}
	}
	return i
}

// Intersects reports whether s and other share at least one ID.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for id := range small {
		if large.Contains(id) {
			return true
		}
	}
	return false
}

// SubsetOf reports whether every ID in s is also in other.
func (s Set) SubsetOf(other Set) bool {
	for id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Equal reports whether s and other contain exactly the same IDs.
func (s Set) Equal(other Set) bool {
	return len(s) == len(other) && s.SubsetOf(other)
}

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool {
	return len(s) == 0
}

// Sorted returns the set's IDs in lexicographic order.
// Used wherever deterministic iteration matters.
func (s Set) Sorted() []ID {
	ids := make([]ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Key returns a canonical string encoding of the set, suitable as a map
// key. Two sets have the same key iff they are equal.
func (s Set) Key() string {
	ids := s.Sorted()
	n := 0
	for _, id := range ids {
		n += len(id) + 1
	}
	b := make([]byte, 0, n)
	for i, id := range ids {
		if i > 0 {
			b = append(b, 0x1f)
		}
		b = append(b, id...)
	}
	return string(b)
}
