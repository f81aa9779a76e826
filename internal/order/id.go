package order

// idSequence hands out monotonically increasing ids. Each owner (an order's
// meal factory, a meal's special set) holds its own sequence, so uniqueness
// is scoped to that owner's lifetime.
type idSequence struct {
	next uint32
}

func (s *idSequence) Next() uint32 {
	id := s.next
	s.next++
	return id
}
