package model

// Roster freezes an ordered set of active players for one analysis
// window. All matrix and vector operations index into this ordering;
// the identifier<->index mapping stays at the boundary.
type Roster struct {
	ids   []PlayerID
	index map[PlayerID]int
}

// NewRoster builds a roster with the given ordering. Duplicate IDs are
// collapsed, keeping the first occurrence.
func NewRoster(ids []PlayerID) *Roster {
	r := &Roster{
		ids:   make([]PlayerID, 0, len(ids)),
		index: make(map[PlayerID]int, len(ids)),
	}
	for _, id := range ids {
		if _, ok := r.index[id]; ok {
			continue
		}
		r.index[id] = len(r.ids)
		r.ids = append(r.ids, id)
	}
	return r
}

// Size returns the number of active players.
func (r *Roster) Size() int { return len(r.ids) }

// Index returns the dense index for id and whether id is a member.
func (r *Roster) Index(id PlayerID) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

// Contains reports whether id is an active member.
func (r *Roster) Contains(id PlayerID) bool {
	_, ok := r.index[id]
	return ok
}

// ID returns the player at dense index i.
func (r *Roster) ID(i int) PlayerID { return r.ids[i] }

// IDs returns a copy of the frozen ordering.
func (r *Roster) IDs() []PlayerID {
	out := make([]PlayerID, len(r.ids))
	copy(out, r.ids)
	return out
}

// Without returns a new roster excluding the given players, preserving
// the relative order of the remainder.
func (r *Roster) Without(excluded map[PlayerID]bool) *Roster {
	kept := make([]PlayerID, 0, len(r.ids))
	for _, id := range r.ids {
		if !excluded[id] {
			kept = append(kept, id)
		}
	}
	return NewRoster(kept)
}

// SameOrdering reports whether two rosters contain the same players in
// the same order. Distribution comparisons require this.
func (r *Roster) SameOrdering(other *Roster) bool {
	if other == nil || len(r.ids) != len(other.ids) {
		return false
	}
	for i, id := range r.ids {
		if other.ids[i] != id {
			return false
		}
	}
	return true
}
