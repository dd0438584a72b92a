package util

// Set keeps insertion order, so callers can dedupe a user-ordered list
// without reordering it.
type Set[T comparable] struct {
	set   map[T]bool
	order []T
}

func NewSet[T comparable]() *Set[T] {
	return &Set[T]{set: make(map[T]bool)}
}

func NewSetFrom[T comparable](vals ...T) *Set[T] {
	s := NewSet[T]()
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

func (m *Set[T]) Has(val T) bool {
	_, ok := m.set[val]
	return ok
}

// Add returns false if val was already present.
func (m *Set[T]) Add(val T) bool {
	if m.Has(val) {
		return false
	}
	m.set[val] = true
	m.order = append(m.order, val)
	return true
}

func (m *Set[T]) Len() int {
	return len(m.order)
}

func (m *Set[T]) Values() []T {
	vals := make([]T, len(m.order))
	copy(vals, m.order)
	return vals
}
