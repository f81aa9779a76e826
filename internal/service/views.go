package service

import (
	"errors"

	"github.com/mhofer/pizzapool/internal/order"
)

// Monetary amounts in all views are integer cents; floating point never
// crosses the API boundary.

// SpecialView is one special on a meal.
type SpecialView struct {
	ID          uint32 `json:"id"`
	Description string `json:"description"`
}

// MealView is one meal on a participant's ledger.
type MealView struct {
	ID         uint32        `json:"id"`
	Code       string        `json:"code"`
	Variety    string        `json:"variety"`
	PriceCents uint64        `json:"price_cents"`
	Specials   []SpecialView `json:"specials,omitempty"`
}

// ParticipantView is one participant's ledger.
type ParticipantView struct {
	ID         string     `json:"id"`
	Ready      bool       `json:"ready"`
	PaidCents  uint64     `json:"paid_cents"`
	TipCents   uint64     `json:"tip_cents"`
	TotalCents uint64     `json:"total_cents"`
	Meals      []MealView `json:"meals"`
}

// OrderView is the complete order state.
type OrderView struct {
	ID              string            `json:"id"`
	ManagerID       string            `json:"manager_id"`
	Status          string            `json:"status"`
	OrderedAt       int64             `json:"ordered_at,omitempty"`
	Participants    []ParticipantView `json:"participants"`
	TotalPriceCents uint64            `json:"total_price_cents"`
	TotalTipCents   uint64            `json:"total_tip_cents"`
}

// Reconciliation outcomes. The two failure modes call for different
// remedies: "surplus" means the vendor can be paid and the named
// participants settle up with the group, "short" means more money has to be
// collected.
const (
	OutcomeChange  = "change"
	OutcomeSurplus = "surplus"
	OutcomeShort   = "short"
)

// Summary is the billing report of an order.
type Summary struct {
	TotalPriceCents uint64 `json:"total_price_cents"`
	TotalTipCents   uint64 `json:"total_tip_cents"`
	Outcome         string `json:"outcome"`
	// ChangeCents is the change due back (outcome "change"), or what is
	// left of it after covering underpayers (outcome "surplus").
	ChangeCents uint64 `json:"change_cents"`
	// MissingCents is how much the group is short (outcome "short" only).
	MissingCents uint64 `json:"missing_cents,omitempty"`
	// PaidLess names the participants that underpaid.
	PaidLess []string `json:"paid_less,omitempty"`
}

func newOrderView(id string, o *order.Order) *OrderView {
	view := &OrderView{
		ID:              id,
		ManagerID:       o.ManagerID(),
		Status:          string(o.Status()),
		OrderedAt:       o.OrderedAt(),
		Participants:    make([]ParticipantView, 0, len(o.Participants())),
		TotalPriceCents: o.TotalPrice().Cents(),
		TotalTipCents:   o.TotalTip().Cents(),
	}

	for _, participantID := range o.Participants() {
		ledger, _ := o.Ledger(participantID)
		pv := ParticipantView{
			ID:         participantID,
			Ready:      ledger.Ready(),
			PaidCents:  ledger.Paid().Cents(),
			TipCents:   ledger.Tip().Cents(),
			TotalCents: ledger.TotalPrice().Cents(),
			Meals:      make([]MealView, 0, ledger.Len()),
		}
		for _, meal := range ledger.Meals() {
			mv := MealView{
				ID:         meal.ID(),
				Code:       meal.Code(),
				Variety:    meal.Variety(),
				PriceCents: meal.Price().Cents(),
			}
			for _, special := range meal.Specials() {
				mv.Specials = append(mv.Specials, SpecialView{
					ID:          special.ID(),
					Description: special.Description(),
				})
			}
			pv.Meals = append(pv.Meals, mv)
		}
		view.Participants = append(view.Participants, pv)
	}
	return view
}

func newSummary(o *order.Order) *Summary {
	summary := &Summary{
		TotalPriceCents: o.TotalPrice().Cents(),
		TotalTipCents:   o.TotalTip().Cents(),
	}

	change, err := o.TotalChange()
	if err == nil {
		summary.Outcome = OutcomeChange
		summary.ChangeCents = change.Cents()
		return summary
	}

	var surplus *order.SurplusError
	if errors.As(err, &surplus) {
		summary.Outcome = OutcomeSurplus
		summary.ChangeCents = surplus.Change.Cents()
		summary.PaidLess = surplus.PaidLess
		return summary
	}

	var short *order.ShortfallError
	if errors.As(err, &short) {
		summary.Outcome = OutcomeShort
		summary.MissingCents = short.Missing.Cents()
		summary.PaidLess = short.PaidLess
	}
	return summary
}
