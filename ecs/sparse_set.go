package ecs

import "slices"

type store interface {
	has(e Entity) bool
	remove(e Entity) bool
	size() int
}

// sparseSet stores one component type keyed by entity slot. The dense
// arrays are kept sorted by slot id so iteration order is deterministic.
type sparseSet[T any] struct {
	dense  []Entity
	values []*T
	sparse []int32
}

func (s *sparseSet[T]) index(e Entity) int {
	id := int(e.id())
	if id == 0 || id > len(s.sparse) {
		return -1
	}
	i := int(s.sparse[id-1])
	if i < 0 || i >= len(s.dense) || s.dense[i] != e {
		return -1
	}
	return i
}

func (s *sparseSet[T]) has(e Entity) bool {
	return s.index(e) >= 0
}

func (s *sparseSet[T]) get(e Entity) (*T, bool) {
	i := s.index(e)
	if i < 0 {
		return nil, false
	}
	return s.values[i], true
}

func (s *sparseSet[T]) set(e Entity, v *T) {
	if i := s.index(e); i >= 0 {
		s.values[i] = v
		return
	}
	id := int(e.id())
	for len(s.sparse) < id {
		s.sparse = append(s.sparse, -1)
	}
	at, _ := slices.BinarySearchFunc(s.dense, e, func(a, b Entity) int {
		return int(a.id()) - int(b.id())
	})
	s.dense = slices.Insert(s.dense, at, e)
	s.values = slices.Insert(s.values, at, v)
	s.reindex(at)
}

func (s *sparseSet[T]) remove(e Entity) bool {
	i := s.index(e)
	if i < 0 {
		return false
	}
	s.sparse[e.id()-1] = -1
	s.dense = slices.Delete(s.dense, i, i+1)
	s.values = slices.Delete(s.values, i, i+1)
	s.reindex(i)
	return true
}

func (s *sparseSet[T]) reindex(from int) {
	for i := from; i < len(s.dense); i++ {
		s.sparse[s.dense[i].id()-1] = int32(i)
	}
}

func (s *sparseSet[T]) size() int {
	return len(s.dense)
}
