// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mhofer/pizzapool/internal/models"
	"github.com/mhofer/pizzapool/internal/order"
)

// ErrOrderNotFound is returned when no order exists under the given id.
var ErrOrderNotFound = errors.New("order not found")

// Store is the persistence interface for orders and users. Orders are
// written and read as whole aggregates; the engine in internal/order never
// touches storage itself. The abstraction allows swapping backends without
// changing the service layer.
type Store interface {
	// CreateOrder persists a new order aggregate and returns its assigned id.
	CreateOrder(ctx context.Context, o *order.Order) (string, error)

	// GetOrder loads the full order aggregate, including every
	// participant's ledger, meals, and specials. Returns ErrOrderNotFound
	// if the id is unknown.
	GetOrder(ctx context.Context, id string) (*order.Order, error)

	// SaveOrder replaces the stored aggregate under the given id.
	SaveOrder(ctx context.Context, id string, o *order.Order) error

	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns the user with the given email, or nil if none
	// exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns the user with the given id, or nil if none exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
