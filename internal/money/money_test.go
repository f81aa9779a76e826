package money

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		units     uint64
		subunits  uint64
		wantCents uint64
	}{
		{"plain amount", 5, 50, 550},
		{"no subunits", 7, 0, 700},
		{"subunits carry into units", 1, 205, 305},
		{"zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.units, tt.subunits)
			if got.Cents() != tt.wantCents {
				t.Errorf("New(%d, %d).Cents() = %d, want %d", tt.units, tt.subunits, got.Cents(), tt.wantCents)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		a, b, want Money
	}{
		{New(7, 20), New(5, 50), FromCents(1270)},
		{New(8, 21), New(4, 55), FromCents(1276)},
		{Money{}, New(0, 99), FromCents(99)},
	}

	for _, tt := range tests {
		if got := tt.a.Add(tt.b); got != tt.want {
			t.Errorf("%s + %s = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSub(t *testing.T) {
	tests := []struct {
		a, b, want Money
	}{
		{New(7, 20), New(5, 50), FromCents(170)},
		{New(7, 20), New(5, 55), FromCents(165)},
		{New(3, 0), New(3, 0), Money{}},
	}

	for _, tt := range tests {
		if got := tt.a.Sub(tt.b); got != tt.want {
			t.Errorf("%s - %s = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSubUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on underflowing subtraction")
		}
	}()
	_ = New(7, 20).Sub(New(7, 40))
}

func TestMul(t *testing.T) {
	tests := []struct {
		m      Money
		factor uint64
		want   Money
	}{
		{New(5, 0), 2, FromCents(1000)},
		{New(2, 5), 3, FromCents(615)},
		{New(9, 99), 0, Money{}},
	}

	for _, tt := range tests {
		if got := tt.m.Mul(tt.factor); got != tt.want {
			t.Errorf("%s * %d = %s, want %s", tt.m, tt.factor, got, tt.want)
		}
	}
}

func TestUnitsAndSubunits(t *testing.T) {
	tests := []struct {
		m            Money
		units, cents uint64
	}{
		{New(2, 99), 2, 99},
		{New(3, 79), 3, 79},
		{New(3, 179), 4, 79},
	}

	for _, tt := range tests {
		if got := tt.m.Units(); got != tt.units {
			t.Errorf("%s.Units() = %d, want %d", tt.m, got, tt.units)
		}
		if got := tt.m.Subunits(); got != tt.cents {
			t.Errorf("%s.Subunits() = %d, want %d", tt.m, got, tt.cents)
		}
	}
}

func TestLess(t *testing.T) {
	if !New(2, 99).Less(New(3, 0)) {
		t.Error("2,99 should be less than 3,00")
	}
	if New(3, 0).Less(New(3, 0)) {
		t.Error("equal amounts must not compare as less")
	}
	if New(3, 1).Less(New(3, 0)) {
		t.Error("3,01 should not be less than 3,00")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{New(2, 99), "2,99€"},
		{New(17, 5), "17,05€"},
		{Money{}, "0,00€"},
	}

	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
