// Package slots provides a small stable-handle collection. Each stored value
// gets a logical index that stays valid until the value is removed, and
// enumeration always follows ascending index order.
package slots

// Storage maps logical indices to values. Indices are never reused.
type Storage[T comparable] struct {
	next    int
	order   []int     // live indices, ascending
	values  map[int]T // index -> value
	indexOf map[T]int // value -> index
}

// New creates an empty Storage.
func New[T comparable]() *Storage[T] {
	return &Storage[T]{
		values:  make(map[int]T),
		indexOf: make(map[T]int),
	}
}

// Add stores v and returns its logical index. Adding a value that is already
// present returns the existing index.
func (s *Storage[T]) Add(v T) int {
	if idx, ok := s.indexOf[v]; ok {
		return idx
	}
	idx := s.next
	s.next++
	s.values[idx] = v
	s.indexOf[v] = idx
	s.order = append(s.order, idx) // next only grows, so order stays sorted
	return idx
}

// Remove deletes the value stored under idx. It reports whether idx was live.
func (s *Storage[T]) Remove(idx int) bool {
	v, ok := s.values[idx]
	if !ok {
		return false
	}
	delete(s.values, idx)
	delete(s.indexOf, v)
	for i, live := range s.order {
		if live == idx {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// RemoveValue deletes v if present.
func (s *Storage[T]) RemoveValue(v T) bool {
	idx, ok := s.indexOf[v]
	if !ok {
		return false
	}
	return s.Remove(idx)
}

// Contains reports whether v is stored.
func (s *Storage[T]) Contains(v T) bool {
	_, ok := s.indexOf[v]
	return ok
}

// ContainsIndex reports whether idx is a live logical index.
func (s *Storage[T]) ContainsIndex(idx int) bool {
	_, ok := s.values[idx]
	return ok
}

// Get returns the value stored under idx.
func (s *Storage[T]) Get(idx int) (T, bool) {
	v, ok := s.values[idx]
	return v, ok
}

// IndexOf returns the logical index of v.
func (s *Storage[T]) IndexOf(v T) (int, bool) {
	idx, ok := s.indexOf[v]
	return idx, ok
}

// Random picks a live index using u, a uniform draw in [0,1).
func (s *Storage[T]) Random(u float64) (int, bool) {
	if len(s.order) == 0 {
		return 0, false
	}
	return s.order[pick(u, len(s.order))], true
}

// Len returns the number of stored values.
func (s *Storage[T]) Len() int { return len(s.order) }

// Empty reports whether nothing is stored.
func (s *Storage[T]) Empty() bool { return len(s.order) == 0 }

// Indices returns the live indices in stable order.
func (s *Storage[T]) Indices() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// Values returns the stored values in the same order as Indices.
func (s *Storage[T]) Values() []T {
	out := make([]T, len(s.order))
	for i, idx := range s.order {
		out[i] = s.values[idx]
	}
	return out
}

// Clone returns an independent copy with identical indices.
func (s *Storage[T]) Clone() *Storage[T] {
	c := &Storage[T]{
		next:    s.next,
		order:   make([]int, len(s.order)),
		values:  make(map[int]T, len(s.values)),
		indexOf: make(map[T]int, len(s.indexOf)),
	}
	copy(c.order, s.order)
	for k, v := range s.values {
		c.values[k] = v
	}
	for k, v := range s.indexOf {
		c.indexOf[k] = v
	}
	return c
}

// pick maps a uniform draw onto [0, n).
func pick(u float64, n int) int {
	i := int(u * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
