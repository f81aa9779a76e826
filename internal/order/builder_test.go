package order

import (
	"errors"
	"testing"

	"github.com/mhofer/pizzapool/internal/money"
)

func TestBuilderAccumulatesPrice(t *testing.T) {
	b := NewMealBuilder().
		Code("03").
		Variety("large").
		Price(money.New(5, 50)).
		AddPrice(money.New(1, 0))

	if err := b.SubtractPrice(money.New(0, 50)); err != nil {
		t.Fatalf("SubtractPrice failed: %v", err)
	}

	m := b.Build(NewMealFactory())
	if m.Price() != money.New(6, 0) {
		t.Errorf("price = %s, want 6,00€", m.Price())
	}
	if m.Code() != "03" || m.Variety() != "large" {
		t.Errorf("code/variety = %q/%q, want 03/large", m.Code(), m.Variety())
	}
}

func TestBuilderSubtractBelowZero(t *testing.T) {
	b := NewMealBuilder().Price(money.New(2, 0))

	err := b.SubtractPrice(money.New(3, 25))

	var negative *NegativePriceError
	if !errors.As(err, &negative) {
		t.Fatalf("err = %v, want NegativePriceError", err)
	}
	if negative.Overrun != money.New(1, 25) {
		t.Errorf("overrun = %s, want 1,25€", negative.Overrun)
	}
	// Failed subtraction must not change the running price.
	if got := b.Build(NewMealFactory()).Price(); got != money.New(2, 0) {
		t.Errorf("price after failed subtraction = %s, want 2,00€", got)
	}
}

func TestBuilderPricedSpecial(t *testing.T) {
	m := NewMealBuilder().
		Code("07").
		Variety("medium").
		Price(money.New(6, 0)).
		AddPricedSpecial("cheese crust", money.New(1, 50)).
		Build(NewMealFactory())

	if m.Price() != money.New(7, 50) {
		t.Errorf("price = %s, want 7,50€", m.Price())
	}
	specials := m.Specials()
	if len(specials) != 1 || specials[0].Description() != "cheese crust" {
		t.Errorf("specials = %v, want single cheese crust", specials)
	}
}

func TestBuilderAddSpecials(t *testing.T) {
	tests := []struct {
		name             string
		descriptions     []string
		prices           []money.Money
		wantExtra        int
		wantDescriptions bool
	}{
		{
			name:         "matching lists",
			descriptions: []string{"cheese crust", "olives"},
			prices:       []money.Money{money.New(1, 50), money.New(0, 80)},
		},
		{
			name:             "extra descriptions",
			descriptions:     []string{"cheese crust", "olives", "garlic"},
			prices:           []money.Money{money.New(1, 50)},
			wantExtra:        2,
			wantDescriptions: true,
		},
		{
			name:         "extra prices",
			descriptions: []string{"cheese crust"},
			prices:       []money.Money{money.New(1, 50), money.New(0, 80)},
			wantExtra:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewMealBuilder().Price(money.New(5, 0))
			err := b.AddSpecials(tt.descriptions, tt.prices)

			if tt.wantExtra == 0 {
				if err != nil {
					t.Fatalf("AddSpecials failed: %v", err)
				}
				m := b.Build(NewMealFactory())
				if len(m.Specials()) != len(tt.descriptions) {
					t.Errorf("got %d specials, want %d", len(m.Specials()), len(tt.descriptions))
				}
				want := money.New(5, 0)
				for _, p := range tt.prices {
					want = want.Add(p)
				}
				if m.Price() != want {
					t.Errorf("price = %s, want %s", m.Price(), want)
				}
				return
			}

			var mismatch *CountMismatchError
			if !errors.As(err, &mismatch) {
				t.Fatalf("err = %v, want CountMismatchError", err)
			}
			if mismatch.Extra != tt.wantExtra || mismatch.OnDescriptions != tt.wantDescriptions {
				t.Errorf("mismatch = %+v, want Extra=%d OnDescriptions=%v",
					mismatch, tt.wantExtra, tt.wantDescriptions)
			}
			// Nothing may be applied on mismatch.
			if m := b.Build(NewMealFactory()); len(m.Specials()) != 0 || m.Price() != money.New(5, 0) {
				t.Errorf("builder state changed on mismatch: %d specials, price %s", len(m.Specials()), m.Price())
			}
		})
	}
}

func TestBuilderUsesFactoryIDs(t *testing.T) {
	f := NewMealFactory()
	f.Create("01", "small", money.New(4, 0))

	m := NewMealBuilder().Code("03").Variety("large").Price(money.New(5, 50)).Build(f)
	if m.ID() != 1 {
		t.Errorf("built meal id = %d, want 1", m.ID())
	}
}
