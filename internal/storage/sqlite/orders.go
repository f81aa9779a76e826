package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mhofer/pizzapool/internal/money"
	"github.com/mhofer/pizzapool/internal/order"
	"github.com/mhofer/pizzapool/internal/storage"
)

// CreateOrder persists a new order aggregate and returns the assigned id.
func (s *Store) CreateOrder(ctx context.Context, o *order.Order) (string, error) {
	id := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders (id, manager_id, status, ordered_at, next_meal_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, o.ManagerID(), string(o.Status()), o.OrderedAt(), o.NextMealID(), time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	if err := insertAggregate(ctx, tx, id, o); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// SaveOrder replaces the stored aggregate under the given id. The ledgers,
// meals, and specials are rewritten wholesale; per-order writes are small
// enough that diffing is not worth it.
func (s *Store) SaveOrder(ctx context.Context, id string, o *order.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = ?, ordered_at = ?, next_meal_id = ? WHERE id = ?",
		string(o.Status()), o.OrderedAt(), o.NextMealID(), id,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrOrderNotFound
	}

	for _, table := range []string{"meal_specials", "meals", "order_participants"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE order_id = ?", id); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertAggregate(ctx, tx, id, o); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertAggregate(ctx context.Context, tx *sql.Tx, id string, o *order.Order) error {
	for _, participantID := range o.Participants() {
		ledger, _ := o.Ledger(participantID)

		_, err := tx.ExecContext(ctx,
			"INSERT INTO order_participants (order_id, participant_id, ready, paid_cents, tip_cents) VALUES (?, ?, ?, ?, ?)",
			id, participantID, ledger.Ready(), ledger.Paid().Cents(), ledger.Tip().Cents(),
		)
		if err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}

		for _, meal := range ledger.Meals() {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO meals (order_id, meal_id, participant_id, code, variety, price_cents, next_special_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
				id, meal.ID(), participantID, meal.Code(), meal.Variety(), meal.Price().Cents(), meal.NextSpecialID(),
			)
			if err != nil {
				return fmt.Errorf("insert meal: %w", err)
			}

			for _, special := range meal.Specials() {
				_, err := tx.ExecContext(ctx,
					"INSERT INTO meal_specials (order_id, meal_id, special_id, description) VALUES (?, ?, ?, ?)",
					id, meal.ID(), special.ID(), special.Description(),
				)
				if err != nil {
					return fmt.Errorf("insert special: %w", err)
				}
			}
		}
	}
	return nil
}

// GetOrder loads the complete aggregate: the order row, every participant's
// ledger, their meals, and each meal's specials.
func (s *Store) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	var (
		managerID  string
		status     string
		orderedAt  int64
		nextMealID uint32
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT manager_id, status, ordered_at, next_meal_id FROM orders WHERE id = ?", id,
	).Scan(&managerID, &status, &orderedAt, &nextMealID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	o := order.Restore(managerID, order.Status(status), orderedAt, nextMealID)

	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, ready, paid_cents, tip_cents FROM order_participants WHERE order_id = ?", id,
	)
	if err != nil {
		return nil, fmt.Errorf("get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			participantID       string
			ready               bool
			paidCents, tipCents uint64
		)
		if err := rows.Scan(&participantID, &ready, &paidCents, &tipCents); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		ledger := o.AddParticipant(participantID)
		ledger.SetReady(ready)
		ledger.SetPaid(money.FromCents(paidCents))
		ledger.SetTip(money.FromCents(tipCents))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}

	if err := s.loadMeals(ctx, id, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) loadMeals(ctx context.Context, id string, o *order.Order) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT meal_id, participant_id, code, variety, price_cents, next_special_id FROM meals WHERE order_id = ? ORDER BY meal_id", id,
	)
	if err != nil {
		return fmt.Errorf("get meals: %w", err)
	}
	defer rows.Close()

	meals := make(map[uint32]*order.Meal)
	for rows.Next() {
		var (
			mealID        uint32
			participantID string
			code, variety string
			priceCents    uint64
			nextSpecialID uint32
		)
		if err := rows.Scan(&mealID, &participantID, &code, &variety, &priceCents, &nextSpecialID); err != nil {
			return fmt.Errorf("scan meal: %w", err)
		}

		ledger, ok := o.Ledger(participantID)
		if !ok {
			return fmt.Errorf("meal %d references unknown participant %s", mealID, participantID)
		}
		meal := order.RestoreMeal(mealID, code, variety, money.FromCents(priceCents), nextSpecialID)
		ledger.AddMeal(meal)
		meals[mealID] = meal
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate meals: %w", err)
	}

	specialRows, err := s.db.QueryContext(ctx,
		"SELECT meal_id, special_id, description FROM meal_specials WHERE order_id = ? ORDER BY special_id", id,
	)
	if err != nil {
		return fmt.Errorf("get specials: %w", err)
	}
	defer specialRows.Close()

	for specialRows.Next() {
		var (
			mealID, specialID uint32
			description       string
		)
		if err := specialRows.Scan(&mealID, &specialID, &description); err != nil {
			return fmt.Errorf("scan special: %w", err)
		}
		meal, ok := meals[mealID]
		if !ok {
			return fmt.Errorf("special %d references unknown meal %d", specialID, mealID)
		}
		meal.PutSpecial(specialID, description)
	}
	if err := specialRows.Err(); err != nil {
		return fmt.Errorf("iterate specials: %w", err)
	}
	return nil
}
