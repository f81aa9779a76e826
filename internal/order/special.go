package order

// Special is a named add-on attached to a meal, e.g. extra cheese. Its id is
// assigned by the owning meal and never changes; the description may be
// edited afterwards.
type Special struct {
	id          uint32
	description string
}

// ID returns the special's identifier within its meal.
func (s *Special) ID() uint32 { return s.id }

// Description returns the human-facing description.
func (s *Special) Description() string { return s.description }

// SetDescription replaces the description. The identity of the special is
// unaffected.
func (s *Special) SetDescription(description string) {
	s.description = description
}
