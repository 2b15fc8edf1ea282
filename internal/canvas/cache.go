package canvas

import "iter"

// store is an insertion-ordered id → resource map holding what pagination has
// yielded so far for one course. complete is only set once a traversal drains
// the final page; a partially-consumed listing leaves an incomplete store
// that the next traversal re-fetches from page one (there is no resume
// marker).
type store[T any] struct {
	ids      []int
	byID     map[int]T
	complete bool
}

func (s *store[T]) put(id int, v T) {
	if _, ok := s.byID[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.byID[id] = v
}

func (s *store[T]) reset() {
	s.ids = nil
	s.byID = map[int]T{}
	s.complete = false
}

// replay yields the cached values in insertion order with no network I/O.
func (s *store[T]) replay() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, id := range s.ids {
			if !yield(s.byID[id], nil) {
				return
			}
		}
	}
}

// cache is the two-level store for per-course resources: course id on the
// outside, insertion-ordered resource id map on the inside. It is confined to
// one Tasks value and is not safe for concurrent use.
type cache[T any] map[int]*store[T]

func (c cache[T]) course(courseID int) *store[T] {
	s, ok := c[courseID]
	if !ok {
		s = &store[T]{byID: map[int]T{}}
		c[courseID] = s
	}
	return s
}
