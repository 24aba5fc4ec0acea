package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1", 100},
		{"1.0", 100},
		{"1.23", 123},
		{"1,23", 123},
		{"0.01", 1},
		{"12.3", 1230},
		{"12.345", 1235},
		{"12.344", 1234},
		{"1.995", 200},
		{".5", 50},
		{"5.", 500},
		{" 2.50 ", 250},
		{"649", 64900},
	}
	for _, tt := range tests {
		got, err := ParseDecimalToCents(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestParseDecimalToCents_Invalid(t *testing.T) {
	for _, in := range []string{"", " ", ".", "0", "0.00", "0.004", "-1", "+1", "abc", "1.2.3", "1e3", "1 000", "99999999999999999999"} {
		if _, err := ParseDecimalToCents(in); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseDecimalToCents(%q) error = %v, want ErrInvalidAmount", in, err)
		}
	}
}

func TestMoneyUnits(t *testing.T) {
	cases := []struct {
		cents int64
		units float64
		str   string
	}{
		{120000, 1200, "1200.00"},
		{999, 9.99, "9.99"},
		{1, 0.01, "0.01"},
	}
	for _, tc := range cases {
		m := Money{Cents: tc.cents}
		if m.Units() != tc.units {
			t.Fatalf("%d cents: expected %v units, got %v", tc.cents, tc.units, m.Units())
		}
		if m.String() != tc.str {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.str, m.String())
		}
		if back := MoneyFromUnits(tc.units); back.Cents != tc.cents {
			t.Fatalf("%v units: expected %d cents, got %d", tc.units, tc.cents, back.Cents)
		}
	}
}
