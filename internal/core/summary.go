package core

import (
	"math"
	"sort"
	"time"
)

// DefaultRenewalWindowDays is the look-ahead used for upcoming renewals.
const DefaultRenewalWindowDays = 90

// UrgentRenewalDays marks renewals that are due very soon.
const UrgentRenewalDays = 7

// CategoryAmount is the monthly spend attributed to one category.
type CategoryAmount struct {
	Name       string
	Monthly    float64 // rounded to 2 decimals
	Percentage float64 // share of the total monthly spend, 0..100
}

// Metrics is the spend summary across all subscriptions.
type Metrics struct {
	TotalMonthly       float64 // rounded to 2 decimals
	TotalAnnual        float64 // rounded to 2 decimals
	TotalSubscriptions int
	ByCategory         []CategoryAmount // ordered by monthly spend, highest first
}

// Renewal is a subscription annotated with the whole days left until it renews.
type Renewal struct {
	Subscription
	DaysUntil int
}

// Urgent reports whether the renewal falls within UrgentRenewalDays.
func (r Renewal) Urgent() bool {
	return r.DaysUntil <= UrgentRenewalDays
}

// Summarize aggregates monthly equivalents into totals and a category breakdown.
func Summarize(subs []Subscription) Metrics {
	var total float64
	byCategory := make(map[string]float64)
	for _, s := range subs {
		monthly := s.MonthlyCost()
		total += monthly
		byCategory[s.Category] += monthly
	}

	m := Metrics{
		TotalMonthly:       Round2(total),
		TotalAnnual:        Round2(total * 12),
		TotalSubscriptions: len(subs),
		ByCategory:         make([]CategoryAmount, 0, len(byCategory)),
	}
	for name, monthly := range byCategory {
		m.ByCategory = append(m.ByCategory, CategoryAmount{
			Name:       name,
			Monthly:    Round2(monthly),
			Percentage: Percentage(monthly, total),
		})
	}
	sort.Slice(m.ByCategory, func(i, j int) bool {
		a, b := m.ByCategory[i], m.ByCategory[j]
		if a.Monthly != b.Monthly {
			return a.Monthly > b.Monthly
		}
		return a.Name < b.Name
	})
	return m
}

// Percentage returns part as a percentage of total, or 0 when total is 0.
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// UpcomingRenewals returns the subscriptions whose renewal date lies within
// [now, now+days] on the real-valued day difference, soonest first.
func UpcomingRenewals(subs []Subscription, now time.Time, days int) []Renewal {
	if days < 0 {
		days = 0
	}
	out := make([]Renewal, 0)
	for _, s := range subs {
		diff := s.RenewalDate.Sub(now).Hours() / 24
		if diff < 0 || diff > float64(days) {
			continue
		}
		out = append(out, Renewal{Subscription: s, DaysUntil: int(math.Floor(diff))})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].RenewalDate, out[j].RenewalDate
		if !a.Equal(b.Time) {
			return a.Before(b.Time)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopByMonthlyCost returns up to n subscriptions with the highest monthly cost.
func TopByMonthlyCost(subs []Subscription, n int) []Subscription {
	out := make([]Subscription, len(subs))
	copy(out, subs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MonthlyCost() > out[j].MonthlyCost()
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
