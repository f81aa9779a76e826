// Package order implements the billing engine for a shared group order: per
// participant, which meals they picked and what they paid; in aggregate, the
// group's total price, tip, and the reconciliation of paid against owed.
//
// The engine is pure in-memory data manipulation with no locking. A service
// embedding it must serialize access per order; independent orders share
// nothing.
package order

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mhofer/pizzapool/internal/money"
)

// ErrParticipantNotInOrder is returned when an operation references a
// participant that was never added to the order.
var ErrParticipantNotInOrder = errors.New("participant not in order")

// ErrOrderDelivered is returned when advancing the status of an order that
// already reached its final state.
var ErrOrderDelivered = errors.New("order already delivered")

// Status is the lifecycle label of an order. Transitions are linear:
// Open → Ordering → Ordered → Delivered.
type Status string

const (
	StatusOpen      Status = "open"
	StatusOrdering  Status = "ordering"
	StatusOrdered   Status = "ordered"
	StatusDelivered Status = "delivered"
)

// SurplusError is the reconciliation outcome where the group's collected
// money covers the bill, but only because other participants' change makes
// up for those in PaidLess. Change is what remains after covering the
// shortfall; the participants named still owe the group, not the vendor.
type SurplusError struct {
	Change   money.Money
	PaidLess []string
}

func (e *SurplusError) Error() string {
	return fmt.Sprintf("covered in total with %s left, but %d participant(s) still owe the group", e.Change, len(e.PaidLess))
}

// ShortfallError is the reconciliation outcome where the group as a whole is
// short: even after applying every participant's change, Missing is still
// needed to pay the vendor. PaidLess names who underpaid.
type ShortfallError struct {
	Missing  money.Money
	PaidLess []string
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("group is short by %s, %d participant(s) underpaid", e.Missing, len(e.PaidLess))
}

// Order aggregates the ledgers of everyone taking part in one shared
// purchase. All meals are created through the order's single factory, so
// meal ids are unique order-wide.
type Order struct {
	managerID string
	status    Status
	orderedAt int64
	ledgers   map[string]*Ledger
	factory   *MealFactory
}

// New returns an open order managed by the given participant. The manager is
// not added as a participant automatically.
func New(managerID string) *Order {
	return &Order{
		managerID: managerID,
		status:    StatusOpen,
		ledgers:   make(map[string]*Ledger),
		factory:   NewMealFactory(),
	}
}

// Restore rebuilds a stored order, including the position of its meal id
// sequence so fresh meals keep getting unused ids.
func Restore(managerID string, status Status, orderedAt int64, nextMealID uint32) *Order {
	return &Order{
		managerID: managerID,
		status:    status,
		orderedAt: orderedAt,
		ledgers:   make(map[string]*Ledger),
		factory:   NewMealFactoryAt(nextMealID),
	}
}

// ManagerID returns the participant who created the order.
func (o *Order) ManagerID() string { return o.managerID }

// Status returns the current lifecycle label.
func (o *Order) Status() Status { return o.status }

// OrderedAt returns the Unix timestamp recorded when the order was placed,
// zero before that.
func (o *Order) OrderedAt() int64 { return o.orderedAt }

// NextMealID returns the id the order's factory will assign next.
func (o *Order) NextMealID() uint32 { return o.factory.NextID() }

// Advance moves the order to the next lifecycle state and returns it. The
// given timestamp is recorded when the order enters StatusOrdered. Advancing
// a delivered order fails with ErrOrderDelivered.
func (o *Order) Advance(now int64) (Status, error) {
	switch o.status {
	case StatusOpen:
		o.status = StatusOrdering
	case StatusOrdering:
		o.status = StatusOrdered
		o.orderedAt = now
	case StatusOrdered:
		o.status = StatusDelivered
	default:
		return o.status, ErrOrderDelivered
	}
	return o.status, nil
}

// AddParticipant creates an empty ledger for the participant and returns it.
// Adding an id that is already present replaces its ledger.
func (o *Order) AddParticipant(id string) *Ledger {
	l := NewLedger(id)
	o.ledgers[id] = l
	return l
}

// HasParticipant reports whether the participant was added to the order.
func (o *Order) HasParticipant(id string) bool {
	_, ok := o.ledgers[id]
	return ok
}

// Ledger returns the ledger of the given participant.
func (o *Order) Ledger(id string) (*Ledger, bool) {
	l, ok := o.ledgers[id]
	return l, ok
}

// Participants returns the ids of all added participants, sorted.
func (o *Order) Participants() []string {
	out := make([]string, 0, len(o.ledgers))
	for id := range o.ledgers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// AddMealFor creates a meal through the order's factory and puts it on the
// participant's ledger, returning the stored meal. Fails with
// ErrParticipantNotInOrder if the participant was never added; a ledger is
// never created implicitly.
func (o *Order) AddMealFor(participantID, code, variety string, price money.Money) (*Meal, error) {
	l, ok := o.ledgers[participantID]
	if !ok {
		return nil, ErrParticipantNotInOrder
	}
	return l.AddMeal(o.factory.Create(code, variety, price)), nil
}

// AddBuiltMealFor builds the meal described by b through the order's factory
// and puts it on the participant's ledger.
func (o *Order) AddBuiltMealFor(participantID string, b *MealBuilder) (*Meal, error) {
	l, ok := o.ledgers[participantID]
	if !ok {
		return nil, ErrParticipantNotInOrder
	}
	return l.AddMeal(b.Build(o.factory)), nil
}

// SetPaid records the participant's final paid amount (last write wins).
func (o *Order) SetPaid(participantID string, paid money.Money) error {
	l, ok := o.ledgers[participantID]
	if !ok {
		return ErrParticipantNotInOrder
	}
	l.SetPaid(paid)
	return nil
}

// SetTip records the participant's final tip (last write wins).
func (o *Order) SetTip(participantID string, tip money.Money) error {
	l, ok := o.ledgers[participantID]
	if !ok {
		return ErrParticipantNotInOrder
	}
	l.SetTip(tip)
	return nil
}

// TotalPrice returns the sum of all participants' meal prices.
func (o *Order) TotalPrice() money.Money {
	var total money.Money
	for _, l := range o.ledgers {
		total = total.Add(l.TotalPrice())
	}
	return total
}

// TotalTip returns the sum of all participants' tips.
func (o *Order) TotalTip() money.Money {
	var total money.Money
	for _, l := range o.ledgers {
		total = total.Add(l.Tip())
	}
	return total
}

// TotalChange reconciles everything paid against everything owed.
//
// Each participant's change is accumulated; each underpayment is accumulated
// separately together with the participant's id. Three outcomes:
//
//   - nobody underpaid: the aggregate change is returned.
//   - the surplus change exceeds the combined shortfall: a SurplusError —
//     the vendor can be paid, but the named participants owe the group.
//   - otherwise: a ShortfallError — more money has to be collected to pay
//     the vendor at all.
//
// The distinction matters because the remedies differ: peer-to-peer
// settlement versus collecting more money.
func (o *Order) TotalChange() (money.Money, error) {
	var change, shortfall money.Money
	var paidLess []string

	for id, l := range o.ledgers {
		c, err := l.Change()
		if err != nil {
			var underpaid *UnderpaidError
			if errors.As(err, &underpaid) {
				shortfall = shortfall.Add(underpaid.Missing)
				paidLess = append(paidLess, id)
				continue
			}
			return money.Money{}, err
		}
		change = change.Add(c)
	}
	sort.Strings(paidLess)

	if shortfall.IsZero() {
		return change, nil
	}
	if shortfall.Less(change) {
		return money.Money{}, &SurplusError{Change: change.Sub(shortfall), PaidLess: paidLess}
	}
	return money.Money{}, &ShortfallError{Missing: shortfall.Sub(change), PaidLess: paidLess}
}
