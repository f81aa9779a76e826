// Package service orchestrates the billing engine against storage: each
// operation loads the order aggregate, applies an engine operation, and
// saves the result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mhofer/pizzapool/internal/money"
	"github.com/mhofer/pizzapool/internal/order"
	"github.com/mhofer/pizzapool/internal/storage"
)

// ErrAlreadyJoined is returned when a participant joins an order twice.
// Re-adding would silently replace their ledger, so it is refused here.
var ErrAlreadyJoined = errors.New("participant already in order")

// OrderService exposes the group-order operations to the transport layer.
type OrderService struct {
	store storage.Store
}

// NewOrderService creates an OrderService with the given storage backend.
func NewOrderService(store storage.Store) *OrderService {
	return &OrderService{store: store}
}

// SpecialInput describes one special on a new meal. PriceCents, when set, is
// added to the meal's price.
type SpecialInput struct {
	Description string  `json:"description"`
	PriceCents  *uint64 `json:"price_cents,omitempty"`
}

// MealInput describes a meal to add to a participant's ledger.
type MealInput struct {
	Code       string         `json:"code"`
	Variety    string         `json:"variety"`
	PriceCents uint64         `json:"price_cents"`
	Specials   []SpecialInput `json:"specials,omitempty"`
}

// CreateOrder creates an order managed by managerID, with the manager as its
// first participant, and returns the order id.
func (s *OrderService) CreateOrder(ctx context.Context, managerID string) (string, error) {
	o := order.New(managerID)
	o.AddParticipant(managerID)

	id, err := s.store.CreateOrder(ctx, o)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	slog.Info("order created", "order_id", id, "manager_id", managerID)
	return id, nil
}

// Join adds a participant to the order. Fails with ErrAlreadyJoined if they
// are already in it.
func (s *OrderService) Join(ctx context.Context, orderID, participantID string) error {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if o.HasParticipant(participantID) {
		return ErrAlreadyJoined
	}
	o.AddParticipant(participantID)

	if err := s.store.SaveOrder(ctx, orderID, o); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	slog.Info("participant joined", "order_id", orderID, "participant_id", participantID)
	return nil
}

// AddMeal builds the described meal and puts it on the participant's ledger,
// returning the assigned meal id. Builder validation errors
// (order.CountMismatchError, order.NegativePriceError) pass through for the
// caller to surface.
func (s *OrderService) AddMeal(ctx context.Context, orderID, participantID string, in MealInput) (uint32, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}

	b := order.NewMealBuilder().
		Code(in.Code).
		Variety(in.Variety).
		Price(money.FromCents(in.PriceCents))
	for _, sp := range in.Specials {
		if sp.PriceCents != nil {
			b.AddPricedSpecial(sp.Description, money.FromCents(*sp.PriceCents))
		} else {
			b.AddSpecial(sp.Description)
		}
	}

	meal, err := o.AddBuiltMealFor(participantID, b)
	if err != nil {
		return 0, err
	}

	if err := s.store.SaveOrder(ctx, orderID, o); err != nil {
		return 0, fmt.Errorf("save order: %w", err)
	}
	slog.Info("meal added",
		"order_id", orderID,
		"participant_id", participantID,
		"meal_id", meal.ID(),
		"price", meal.Price().String(),
	)
	return meal.ID(), nil
}

// RemoveMeal removes a meal from the participant's ledger. Fails with
// order.ErrNotFound if the participant has no meal with that id.
func (s *OrderService) RemoveMeal(ctx context.Context, orderID, participantID string, mealID uint32) error {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	ledger, ok := o.Ledger(participantID)
	if !ok {
		return order.ErrParticipantNotInOrder
	}
	if _, ok := ledger.RemoveMeal(mealID); !ok {
		return order.ErrNotFound
	}

	if err := s.store.SaveOrder(ctx, orderID, o); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	slog.Info("meal removed", "order_id", orderID, "participant_id", participantID, "meal_id", mealID)
	return nil
}

// RecordPayment stores the participant's final paid amount and tip. Repeated
// calls overwrite; amounts do not accumulate.
func (s *OrderService) RecordPayment(ctx context.Context, orderID, participantID string, paidCents, tipCents uint64) error {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if err := o.SetPaid(participantID, money.FromCents(paidCents)); err != nil {
		return err
	}
	if err := o.SetTip(participantID, money.FromCents(tipCents)); err != nil {
		return err
	}

	if err := s.store.SaveOrder(ctx, orderID, o); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	slog.Info("payment recorded",
		"order_id", orderID,
		"participant_id", participantID,
		"paid_cents", paidCents,
		"tip_cents", tipCents,
	)
	return nil
}

// MarkReady flags the participant's meal selection as complete (or reopens
// it).
func (s *OrderService) MarkReady(ctx context.Context, orderID, participantID string, ready bool) error {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	ledger, ok := o.Ledger(participantID)
	if !ok {
		return order.ErrParticipantNotInOrder
	}
	ledger.SetReady(ready)

	if err := s.store.SaveOrder(ctx, orderID, o); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

// AdvanceStatus moves the order to the next lifecycle state and returns it.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID string) (order.Status, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	status, err := o.Advance(time.Now().Unix())
	if err != nil {
		return "", err
	}

	if err := s.store.SaveOrder(ctx, orderID, o); err != nil {
		return "", fmt.Errorf("save order: %w", err)
	}
	slog.Info("order advanced", "order_id", orderID, "status", status)
	return status, nil
}

// GetOrder returns a full view of the order.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*OrderView, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return newOrderView(orderID, o), nil
}

// Summary returns the order's totals and the reconciliation outcome.
func (s *OrderService) Summary(ctx context.Context, orderID string) (*Summary, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return newSummary(o), nil
}
