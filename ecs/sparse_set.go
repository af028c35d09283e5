package ecs

// SparseSet stores one component type keyed by entity slot. Values are kept
// densely packed for iteration; removal swaps the last element into the hole.
type SparseSet struct {
	dense  []entityID
	values []any
	sparse []int
}

func newSparseSet() *SparseSet {
	return &SparseSet{}
}

func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

func (s *SparseSet) has(id entityID) bool {
	if s == nil || id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.dense) && s.dense[idx] == id
}

func (s *SparseSet) get(id entityID) (any, bool) {
	if !s.has(id) {
		return nil, false
	}
	return s.values[s.sparse[id-1]], true
}

func (s *SparseSet) set(id entityID, v any) {
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(id) {
		s.values[s.sparse[id-1]] = v
		return
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

func (s *SparseSet) remove(id entityID) bool {
	if !s.has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := len(s.dense) - 1
	lastID := s.dense[last]

	s.dense[idx] = lastID
	s.values[idx] = s.values[last]
	s.sparse[lastID-1] = idx

	s.dense = s.dense[:last]
	s.values[last] = nil
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}

// ids returns a copy of the dense slot list, safe to iterate while the set
// is mutated.
func (s *SparseSet) ids() []entityID {
	if s == nil {
		return nil
	}
	return append([]entityID(nil), s.dense...)
}
