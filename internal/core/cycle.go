// Package core provides the subscription domain model.
//
// This file holds the billing cycle registry. Renewal projection and spend
// normalization both resolve a cycle through cycleFor, so an unrecognized
// cycle degrades to the monthly rule in exactly the same way in both places.
package core

// cycleRule describes the calendar interval and monthly divisor of a cycle.
type cycleRule struct {
	// months added per billing period
	months int
	// billing periods per month basis: amount / divisor = monthly equivalent
	divisor float64
}

var cycleRules = map[BillingCycle]cycleRule{
	Monthly:   {months: 1, divisor: 1},
	Quarterly: {months: 3, divisor: 3},
	Annual:    {months: 12, divisor: 12},
}

// cycleFor returns the rule for c, falling back to monthly.
func cycleFor(c BillingCycle) cycleRule {
	if r, ok := cycleRules[c]; ok {
		return r
	}
	return cycleRules[Monthly]
}

// Cycles returns the known billing cycles in display order.
func Cycles() []BillingCycle {
	return []BillingCycle{Monthly, Quarterly, Annual}
}

// IntervalMonths returns the number of calendar months in one billing period.
func (c BillingCycle) IntervalMonths() int {
	return cycleFor(c).months
}

// MonthlyEquivalent converts an amount charged once per cycle into a per-month figure.
func MonthlyEquivalent(amount float64, c BillingCycle) float64 {
	return amount / cycleFor(c).divisor
}
