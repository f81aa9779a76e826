package sqlite

import "database/sql"

// schema is applied on startup; every statement is idempotent. Monetary
// columns are INTEGER cents throughout — never REAL.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    manager_id TEXT NOT NULL,
    status TEXT NOT NULL,
    ordered_at INTEGER NOT NULL DEFAULT 0,
    next_meal_id INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS order_participants (
    order_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    ready INTEGER NOT NULL DEFAULT 0,
    paid_cents INTEGER NOT NULL DEFAULT 0,
    tip_cents INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (order_id, participant_id),
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS meals (
    order_id TEXT NOT NULL,
    meal_id INTEGER NOT NULL,
    participant_id TEXT NOT NULL,
    code TEXT NOT NULL,
    variety TEXT NOT NULL,
    price_cents INTEGER NOT NULL,
    next_special_id INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (order_id, meal_id),
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS meal_specials (
    order_id TEXT NOT NULL,
    meal_id INTEGER NOT NULL,
    special_id INTEGER NOT NULL,
    description TEXT NOT NULL,
    PRIMARY KEY (order_id, meal_id, special_id),
    FOREIGN KEY (order_id, meal_id) REFERENCES meals(order_id, meal_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_order_participants_order_id ON order_participants(order_id);
CREATE INDEX IF NOT EXISTS idx_meals_order_id ON meals(order_id);
CREATE INDEX IF NOT EXISTS idx_meal_specials_meal ON meal_specials(order_id, meal_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
