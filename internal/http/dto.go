package http

import (
	"bytes"
	"encoding/json"

	"subtrack/internal/core"
)

type subscriptionJSON struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	BillingCycle string  `json:"billing_cycle"`
	Category     string  `json:"category"`
	StartDate    string  `json:"start_date"`
	RenewalDate  string  `json:"renewal_date"`
	MonthlyCost  float64 `json:"monthly_cost"`
}

type renewalJSON struct {
	subscriptionJSON
	DaysUntil int  `json:"days_until"`
	Urgent    bool `json:"urgent"`
}

type categoryJSON struct {
	Category   string  `json:"category"`
	Monthly    float64 `json:"monthly"`
	Percentage float64 `json:"percentage"`
}

type metricsJSON struct {
	TotalMonthly       float64           `json:"total_monthly"`
	TotalAnnual        float64           `json:"total_annual"`
	TotalSubscriptions int               `json:"total_subscriptions"`
	Categories         orderedCategories `json:"categories"`
	Breakdown          []categoryJSON    `json:"breakdown"`
}

type createdJSON struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// orderedCategories encodes as a JSON object whose keys keep the
// highest-spend-first order of the breakdown.
type orderedCategories []core.CategoryAmount

func (c orderedCategories) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(cat.Monthly)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func toSubscriptionJSON(s core.Subscription) subscriptionJSON {
	return subscriptionJSON{
		ID:           s.ID,
		Name:         s.Name,
		Amount:       s.Amount.Units(),
		BillingCycle: string(s.Cycle),
		Category:     s.Category,
		StartDate:    s.StartDate.String(),
		RenewalDate:  s.RenewalDate.String(),
		MonthlyCost:  core.Round2(s.MonthlyCost()),
	}
}

func toSubscriptionsJSON(subs []core.Subscription) []subscriptionJSON {
	out := make([]subscriptionJSON, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubscriptionJSON(s))
	}
	return out
}

func toRenewalsJSON(renewals []core.Renewal) []renewalJSON {
	out := make([]renewalJSON, 0, len(renewals))
	for _, r := range renewals {
		out = append(out, renewalJSON{
			subscriptionJSON: toSubscriptionJSON(r.Subscription),
			DaysUntil:        r.DaysUntil,
			Urgent:           r.Urgent(),
		})
	}
	return out
}

func toMetricsJSON(m core.Metrics) metricsJSON {
	breakdown := make([]categoryJSON, 0, len(m.ByCategory))
	for _, c := range m.ByCategory {
		breakdown = append(breakdown, categoryJSON{
			Category:   c.Name,
			Monthly:    c.Monthly,
			Percentage: core.Round2(c.Percentage),
		})
	}
	return metricsJSON{
		TotalMonthly:       m.TotalMonthly,
		TotalAnnual:        m.TotalAnnual,
		TotalSubscriptions: m.TotalSubscriptions,
		Categories:         orderedCategories(m.ByCategory),
		Breakdown:          breakdown,
	}
}
