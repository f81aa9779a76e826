// Package money provides an exact integer-cent monetary value type.
//
// All amounts are non-negative counts of cents; there is no floating point
// anywhere, so addition and scalar multiplication are exact. Subtraction that
// would go negative is a contract violation and panics — callers that expect
// a possible shortfall must compare first (see Money.Less).
package money

import "fmt"

// Money is an immutable amount in whole cents. The zero value is zero cents
// and ready to use.
type Money struct {
	cents uint64
}

// New returns the amount units*100 + subunits cents.
//
// Subunits are not limited to 99: any overflow carries into whole units, so
// New(1, 205) == New(3, 5). Input validation, if desired, belongs to the
// caller; arithmetic relies on the carrying behavior.
func New(units, subunits uint64) Money {
	return Money{cents: units*100 + subunits}
}

// FromCents returns the amount of exactly c cents.
func FromCents(c uint64) Money {
	return Money{cents: c}
}

// Cents returns the total amount in cents.
func (m Money) Cents() uint64 { return m.cents }

// Units returns the whole-currency part of the amount.
func (m Money) Units() uint64 { return m.cents / 100 }

// Subunits returns the cent part of the amount, always in [0, 99].
func (m Money) Subunits() uint64 { return m.cents % 100 }

// IsZero reports whether the amount is zero cents.
func (m Money) IsZero() bool { return m.cents == 0 }

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{cents: m.cents + o.cents}
}

// Sub returns m - o. Subtracting more than m holds panics: amounts are never
// negative, and the caller is expected to check Less first when the outcome
// is uncertain.
func (m Money) Sub(o Money) Money {
	if o.cents > m.cents {
		panic(fmt.Sprintf("money: subtraction underflow (%s - %s)", m, o))
	}
	return Money{cents: m.cents - o.cents}
}

// Mul returns m scaled by n.
func (m Money) Mul(n uint64) Money {
	return Money{cents: m.cents * n}
}

// Less reports whether m is strictly smaller than o.
func (m Money) Less(o Money) bool { return m.cents < o.cents }

// String formats the amount as "units,subunits" with a euro suffix,
// e.g. "17,32€".
func (m Money) String() string {
	return fmt.Sprintf("%d,%02d€", m.Units(), m.Subunits())
}
