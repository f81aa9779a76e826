package order

import (
	"fmt"
	"sort"

	"github.com/mhofer/pizzapool/internal/money"
)

// UnderpaidError reports that a participant's payment does not cover their
// meals plus tip. Underpayment is an expected business outcome, not a
// failure, so it is returned as a value for the caller to branch on.
type UnderpaidError struct {
	Missing money.Money
}

func (e *UnderpaidError) Error() string {
	return fmt.Sprintf("underpaid by %s", e.Missing)
}

// Ledger is one participant's order state: their selected meals, whether
// they are done selecting, and what they paid and tipped.
type Ledger struct {
	ownerID string
	meals   map[uint32]*Meal
	ready   bool
	paid    money.Money
	tip     money.Money
}

// NewLedger returns an empty ledger for the given participant. Paid and tip
// start at zero.
func NewLedger(ownerID string) *Ledger {
	return &Ledger{
		ownerID: ownerID,
		meals:   make(map[uint32]*Meal),
	}
}

// OwnerID returns the participant this ledger belongs to. It never changes
// after construction.
func (l *Ledger) OwnerID() string { return l.ownerID }

// AddMeal inserts a meal keyed by its id and returns the stored meal.
// Factory-assigned ids are unique, so overwriting an existing key is not
// expected in practice.
func (l *Ledger) AddMeal(m *Meal) *Meal {
	l.meals[m.ID()] = m
	return m
}

// RemoveMeal removes and returns the meal with the given id. The second
// return value is false if no such meal exists; the ledger is unchanged
// then.
func (l *Ledger) RemoveMeal(id uint32) (*Meal, bool) {
	m, ok := l.meals[id]
	if !ok {
		return nil, false
	}
	delete(l.meals, id)
	return m, true
}

// Meal returns the meal with the given id.
func (l *Ledger) Meal(id uint32) (*Meal, bool) {
	m, ok := l.meals[id]
	return m, ok
}

// Meals returns the ledger's meals sorted by id.
func (l *Ledger) Meals() []*Meal {
	out := make([]*Meal, 0, len(l.meals))
	for _, m := range l.meals {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Len returns the number of meals on the ledger.
func (l *Ledger) Len() int { return len(l.meals) }

// Ready reports whether the participant has finished selecting meals.
func (l *Ledger) Ready() bool { return l.ready }

// SetReady marks the selection as complete (or reopens it).
func (l *Ledger) SetReady(ready bool) { l.ready = ready }

// Paid returns the amount the participant handed over.
func (l *Ledger) Paid() money.Money { return l.paid }

// SetPaid records the final amount the participant handed over. Last write
// wins; amounts do not accumulate.
func (l *Ledger) SetPaid(paid money.Money) { l.paid = paid }

// Tip returns the participant's tip.
func (l *Ledger) Tip() money.Money { return l.tip }

// SetTip records the final tip. Last write wins; amounts do not accumulate.
func (l *Ledger) SetTip(tip money.Money) { l.tip = tip }

// TotalPrice returns the sum of all meal prices on the ledger, zero if it is
// empty.
func (l *Ledger) TotalPrice() money.Money {
	var total money.Money
	for _, m := range l.meals {
		total = total.Add(m.Price())
	}
	return total
}

// Change compares the paid amount against meals plus tip. If the payment
// covers the bill, the change due back is returned; otherwise an
// UnderpaidError carries the missing amount.
func (l *Ledger) Change() (money.Money, error) {
	owed := l.TotalPrice().Add(l.tip)
	if l.paid.Less(owed) {
		return money.Money{}, &UnderpaidError{Missing: owed.Sub(l.paid)}
	}
	return l.paid.Sub(owed), nil
}
