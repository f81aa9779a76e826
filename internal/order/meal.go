package order

import (
	"errors"
	"sort"

	"github.com/mhofer/pizzapool/internal/money"
)

// ErrNotFound is returned when a meal or special referenced by id does not
// exist, so callers can tell "removed" apart from "already gone".
var ErrNotFound = errors.New("not found")

// MealFactory creates meals with ids that are unique for the factory's
// lifetime. An order holds a single factory, which makes meal ids unique
// across all of its participants.
type MealFactory struct {
	seq idSequence
}

// NewMealFactory returns a factory whose ids start at 0.
func NewMealFactory() *MealFactory {
	return &MealFactory{}
}

// NewMealFactoryAt returns a factory whose ids start at base. Used when an
// order is rehydrated from storage so fresh meals keep getting unused ids.
func NewMealFactoryAt(base uint32) *MealFactory {
	return &MealFactory{seq: idSequence{next: base}}
}

// Create returns a new meal with a freshly assigned unique id.
func (f *MealFactory) Create(code, variety string, price money.Money) *Meal {
	return NewMeal(f.seq.Next(), code, variety, price)
}

// NextID returns the id the factory will assign next.
func (f *MealFactory) NextID() uint32 { return f.seq.next }

// Meal is a priced line item on a participant's ledger: a menu code ("03"),
// a variety ("large"), a price, and a set of specials keyed by id.
type Meal struct {
	id      uint32
	code    string
	variety string
	price   money.Money

	specials map[uint32]*Special
	seq      idSequence
}

// NewMeal returns a meal with the given id. Most callers should go through a
// MealFactory instead, which guarantees unique ids.
func NewMeal(id uint32, code, variety string, price money.Money) *Meal {
	return &Meal{
		id:       id,
		code:     code,
		variety:  variety,
		price:    price,
		specials: make(map[uint32]*Special),
	}
}

// RestoreMeal rebuilds a stored meal, including the position of its special
// id sequence, so ids of removed specials are not reused after a reload.
func RestoreMeal(id uint32, code, variety string, price money.Money, nextSpecialID uint32) *Meal {
	m := NewMeal(id, code, variety, price)
	m.seq = idSequence{next: nextSpecialID}
	return m
}

// ID returns the meal's unique id.
func (m *Meal) ID() uint32 { return m.id }

// Code returns the menu code of the meal.
func (m *Meal) Code() string { return m.code }

// Variety returns the variety descriptor (size, noodle type, ...).
func (m *Meal) Variety() string { return m.variety }

// Price returns the meal's price including any priced specials.
func (m *Meal) Price() money.Money { return m.price }

// NextSpecialID returns the id the meal will assign to its next special.
func (m *Meal) NextSpecialID() uint32 { return m.seq.next }

// AddSpecial attaches a new special and returns it so the caller can edit
// the description afterwards.
func (m *Meal) AddSpecial(description string) *Special {
	s := &Special{id: m.seq.Next(), description: description}
	m.specials[s.id] = s
	return s
}

// PutSpecial inserts a special under an explicit id, advancing the meal's id
// sequence past it. Used when rehydrating a meal from storage.
func (m *Meal) PutSpecial(id uint32, description string) *Special {
	s := &Special{id: id, description: description}
	m.specials[id] = s
	if id >= m.seq.next {
		m.seq.next = id + 1
	}
	return s
}

// RemoveSpecial removes the special with the given id and returns it, or
// ErrNotFound if no such special exists.
func (m *Meal) RemoveSpecial(id uint32) (*Special, error) {
	s, ok := m.specials[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.specials, id)
	return s, nil
}

// Special returns the special with the given id.
func (m *Meal) Special(id uint32) (*Special, bool) {
	s, ok := m.specials[id]
	return s, ok
}

// Specials returns the meal's specials sorted by id.
func (m *Meal) Specials() []*Special {
	out := make([]*Special, 0, len(m.specials))
	for _, s := range m.specials {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
