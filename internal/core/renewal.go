package core

import "time"

// NextRenewal returns the first date reachable from start by whole billing
// periods that is strictly after now. A start already after now is returned
// unchanged. now is read on its own calendar: 02:00 on Feb 15 in any zone
// counts as Feb 15.
//
// Each step adds the interval to the running date and clamps to the end of
// the target month, so a Jan 31 monthly subscription renews Feb 29 and then
// Mar 29 in a leap year.
func NextRenewal(start Date, c BillingCycle, now time.Time) Date {
	months := c.IntervalMonths()
	renewal := start
	wall := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
	for !renewal.After(wall) {
		renewal = AddMonths(renewal, months)
	}
	return renewal
}

// AddMonths adds n calendar months to d, clamping the day to the last day of
// the resulting month.
func AddMonths(d Date, n int) Date {
	year, month, day := d.Date()
	total := int(month) - 1 + n
	year += total / 12
	m := total % 12
	if m < 0 {
		m += 12
		year--
	}
	target := time.Month(m + 1)
	if last := daysIn(year, target); day > last {
		day = last
	}
	return Date{Time: time.Date(year, target, day, 0, 0, 0, 0, time.UTC)}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
