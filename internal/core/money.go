package core

import (
	"math"
	"strconv"
	"strings"
)

// maxWholeUnits keeps units*100 plus a rounding carry inside int64.
const maxWholeUnits = (math.MaxInt64 - 100) / 100

// ParseDecimalToCents parses a positive decimal amount into cents.
//
// Either "." or "," separates the fraction. Only two decimals are kept and the
// third rounds half up: "12.345" is 1235 and "12.344" is 1234. Signs, exponents,
// zero and anything that is not plain digits return ErrInvalidAmount.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	whole, frac, _ := strings.Cut(s, ".")
	if s == "" || !allDigits(whole) || !allDigits(frac) {
		return 0, ErrInvalidAmount
	}

	var units int64
	if whole != "" {
		v, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || v > maxWholeUnits {
			return 0, ErrInvalidAmount
		}
		units = v
	}

	// Pad so the first three fractional digits always exist.
	frac += "000"
	cents := units*100 + int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	if frac[2] >= '5' {
		cents++
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// allDigits reports whether s holds only ASCII digits. The empty string qualifies.
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Units returns the amount in whole currency units. Spend aggregation runs on
// units so that dividing by the cycle length keeps fractional cents.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// MoneyFromUnits converts a currency-unit value to cents, rounding half away from zero.
func MoneyFromUnits(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100))}
}

// String formats the amount with two decimals and a dot separator.
func (m Money) String() string {
	return strconv.FormatFloat(m.Units(), 'f', 2, 64)
}
