// Package slab implements a dense slot arena: a container mapping small,
// stable integer keys to owned values with O(1) insertion and removal,
// reusing freed keys. This stands in for the Rust `slab` crate the
// original connection table was built on — the closest match in this
// module's dependency pack is to hand-roll the same free-list-over-slice
// structure, since no example in the corpus vendors an equivalent crate.
package slab

// entry holds either a live value or, when free, the index of the next
// free slot (or -1 if it is the tail of the free list).
type entry[T any] struct {
	value    T
	occupied bool
	nextFree int
}

// Slab is a generic slot arena. The zero value is not usable; construct
// with New.
type Slab[T any] struct {
	entries  []entry[T]
	nextFree int
	len      int
}

// New returns an empty Slab with room for capacity entries preallocated.
func New[T any](capacity int) *Slab[T] {
	return &Slab[T]{
		entries:  make([]entry[T], 0, capacity),
		nextFree: -1,
	}
}

// Insert stores value in a free slot (reusing one if available, else
// growing the backing slice) and returns its stable key.
func (s *Slab[T]) Insert(value T) int {
	if s.nextFree == -1 {
		key := len(s.entries)
		s.entries = append(s.entries, entry[T]{value: value, occupied: true, nextFree: -1})
		s.len++
		return key
	}
	key := s.nextFree
	s.nextFree = s.entries[key].nextFree
	s.entries[key] = entry[T]{value: value, occupied: true, nextFree: -1}
	s.len++
	return key
}

// Get returns the value stored at key and whether key is currently
// occupied.
func (s *Slab[T]) Get(key int) (T, bool) {
	var zero T
	if key < 0 || key >= len(s.entries) || !s.entries[key].occupied {
		return zero, false
	}
	return s.entries[key].value, true
}

// Remove evicts the value at key, folding it back onto the free list so a
// future Insert can reuse it. Removing an already-free or out-of-range key
// is a no-op.
func (s *Slab[T]) Remove(key int) {
	if key < 0 || key >= len(s.entries) || !s.entries[key].occupied {
		return
	}
	var zero T
	s.entries[key] = entry[T]{value: zero, occupied: false, nextFree: s.nextFree}
	s.nextFree = key
	s.len--
}

// Len reports the number of currently occupied slots.
func (s *Slab[T]) Len() int {
	return s.len
}

// Each calls fn for every occupied slot's key and value, in ascending key
// order.
func (s *Slab[T]) Each(fn func(key int, value T)) {
	for i := range s.entries {
		if s.entries[i].occupied {
			fn(i, s.entries[i].value)
		}
	}
}
