package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

const (
	Monthly   BillingCycle = "monthly"
	Quarterly BillingCycle = "quarterly"
	Annual    BillingCycle = "annual"
)

// DefaultCategory is used when a subscription is created without a category.
const DefaultCategory = "Other"

type (
	BillingCycle string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Subscription struct {
		ID          int64 // Database ID, zero until inserted
		Name        string
		Amount      Money
		Cycle       BillingCycle
		Category    string
		StartDate   Date
		RenewalDate Date // Derived at creation time, never refreshed
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrMissingStartDate = errors.New("missing start date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidDate      = errors.New("invalid date")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingStartDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Valid reports whether c is one of the known billing cycles.
func (c BillingCycle) Valid() bool {
	_, ok := cycleRules[c]
	return ok
}

// ParseBillingCycle normalizes user input. Empty input means monthly; any
// other unknown value is kept verbatim and handled as monthly downstream.
func ParseBillingCycle(s string) BillingCycle {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Monthly
	}
	return BillingCycle(s)
}

// ResolveCategory applies the "Other" + custom category substitution.
func ResolveCategory(category, custom string) string {
	category = strings.TrimSpace(category)
	custom = strings.TrimSpace(custom)
	if category == DefaultCategory && custom != "" {
		return custom
	}
	if category == "" {
		return DefaultCategory
	}
	return category
}

// MonthlyCost is the subscription amount normalized to one month.
func (s Subscription) MonthlyCost() float64 {
	return MonthlyEquivalent(s.Amount.Units(), s.Cycle)
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if err := s.StartDate.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
