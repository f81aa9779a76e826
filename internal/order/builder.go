package order

import (
	"fmt"

	"github.com/mhofer/pizzapool/internal/money"
)

// NegativePriceError reports that subtracting a discount would have driven
// the price under construction below zero. Overrun is how far below zero the
// result would have been, so the operator entering menu data can fix the
// input.
type NegativePriceError struct {
	Overrun money.Money
}

func (e *NegativePriceError) Error() string {
	return fmt.Sprintf("price would be negative by %s", e.Overrun)
}

// CountMismatchError reports parallel special-description and price lists of
// different lengths. Extra is how many entries the longer side has over the
// shorter one; OnDescriptions says which side that is.
type CountMismatchError struct {
	Extra          int
	OnDescriptions bool
}

func (e *CountMismatchError) Error() string {
	side := "prices"
	if e.OnDescriptions {
		side = "descriptions"
	}
	return fmt.Sprintf("%d extra %s without a counterpart", e.Extra, side)
}

// MealBuilder assembles a meal incrementally: a base price, price deltas,
// and specials. Validation failures are returned as errors rather than
// applied partially, so a UI can ask the user to correct the input. Build
// hands the accumulated state to a factory, which assigns the meal id.
type MealBuilder struct {
	code     string
	variety  string
	price    money.Money
	specials []string
}

// NewMealBuilder returns an empty builder with a zero price.
func NewMealBuilder() *MealBuilder {
	return &MealBuilder{}
}

// Code sets the menu code.
func (b *MealBuilder) Code(code string) *MealBuilder {
	b.code = code
	return b
}

// Variety sets the variety descriptor.
func (b *MealBuilder) Variety(variety string) *MealBuilder {
	b.variety = variety
	return b
}

// Price sets the base price, replacing whatever was accumulated so far.
func (b *MealBuilder) Price(p money.Money) *MealBuilder {
	b.price = p
	return b
}

// AddPrice adds a delta to the running price.
func (b *MealBuilder) AddPrice(p money.Money) *MealBuilder {
	b.price = b.price.Add(p)
	return b
}

// SubtractPrice subtracts a discount from the running price. If the result
// would be negative, the price is left unchanged and a NegativePriceError
// carrying the overrun is returned.
func (b *MealBuilder) SubtractPrice(p money.Money) error {
	if b.price.Less(p) {
		return &NegativePriceError{Overrun: p.Sub(b.price)}
	}
	b.price = b.price.Sub(p)
	return nil
}

// AddSpecial queues a free special for the built meal.
func (b *MealBuilder) AddSpecial(description string) *MealBuilder {
	b.specials = append(b.specials, description)
	return b
}

// AddPricedSpecial queues a special that contributes its own price delta.
func (b *MealBuilder) AddPricedSpecial(description string, price money.Money) *MealBuilder {
	b.AddSpecial(description)
	b.AddPrice(price)
	return b
}

// AddSpecials queues parallel lists of special descriptions and price
// deltas. The two lists must have the same length; on mismatch nothing is
// applied and a CountMismatchError identifies the longer side.
func (b *MealBuilder) AddSpecials(descriptions []string, prices []money.Money) error {
	if len(descriptions) != len(prices) {
		if len(descriptions) > len(prices) {
			return &CountMismatchError{Extra: len(descriptions) - len(prices), OnDescriptions: true}
		}
		return &CountMismatchError{Extra: len(prices) - len(descriptions), OnDescriptions: false}
	}
	for i, d := range descriptions {
		b.AddPricedSpecial(d, prices[i])
	}
	return nil
}

// Build creates the meal through the given factory and attaches the queued
// specials. The builder can be reused afterwards, continuing from its
// current state.
func (b *MealBuilder) Build(f *MealFactory) *Meal {
	m := f.Create(b.code, b.variety, b.price)
	for _, d := range b.specials {
		m.AddSpecial(d)
	}
	return m
}
