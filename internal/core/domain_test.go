package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.February || d.Day() != 29 || d.Location() != time.UTC {
		t.Fatalf("unexpected date %v", d.Time)
	}
	for _, bad := range []string{"", "2024-13-01", "29/02/2024", "2023-02-29"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestParseBillingCycle(t *testing.T) {
	cases := map[string]BillingCycle{
		"":            Monthly,
		"monthly":     Monthly,
		" Annual ":    Annual,
		"QUARTERLY":   Quarterly,
		"fortnightly": BillingCycle("fortnightly"),
	}
	for in, want := range cases {
		if got := ParseBillingCycle(in); got != want {
			t.Fatalf("%q expected %q, got %q", in, want, got)
		}
	}
	if BillingCycle("fortnightly").Valid() {
		t.Fatalf("unknown cycle reported valid")
	}
}

func TestResolveCategory(t *testing.T) {
	cases := []struct {
		category, custom, want string
	}{
		{"Streaming", "", "Streaming"},
		{"Other", "Gym", "Gym"},
		{"Other", "  ", "Other"},
		{"Streaming", "Gym", "Streaming"},
		{"", "", DefaultCategory},
	}
	for _, tc := range cases {
		if got := ResolveCategory(tc.category, tc.custom); got != tc.want {
			t.Fatalf("(%q,%q) expected %q, got %q", tc.category, tc.custom, tc.want, got)
		}
	}
}

func TestSubscriptionValidate(t *testing.T) {
	good := Subscription{
		Name:      "Netflix",
		Amount:    Money{Cents: 64900},
		Cycle:     Monthly,
		Category:  "Streaming",
		StartDate: NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(*Subscription)
		want   error
	}{
		{func(s *Subscription) { s.Name = " " }, ErrEmptyName},
		{func(s *Subscription) { s.Amount = Money{} }, ErrInvalidAmount},
		{func(s *Subscription) { s.Amount = Money{Cents: -5} }, ErrInvalidAmount},
		{func(s *Subscription) { s.StartDate = Date{} }, ErrMissingStartDate},
		{func(s *Subscription) { s.Category = "" }, ErrEmptyCategory},
	}
	for i, tc := range bads {
		s := good
		tc.mutate(&s)
		if err := s.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}
