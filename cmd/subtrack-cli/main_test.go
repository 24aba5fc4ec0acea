package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"subtrack/internal/core"
)

func sampleSubs() []core.Subscription {
	return []core.Subscription{
		{ID: 1, Name: "Netflix", Amount: core.Money{Cents: 64900}, Cycle: core.Monthly, Category: "Streaming",
			StartDate: core.NewDate(2024, 1, 5), RenewalDate: core.NewDate(2024, 3, 5)},
		{ID: 2, Name: "Gym", Amount: core.Money{Cents: 120000}, Cycle: core.Annual, Category: "Health",
			StartDate: core.NewDate(2023, 6, 1), RenewalDate: core.NewDate(2024, 6, 1)},
	}
}

func TestDefaultReportPath(t *testing.T) {
	got := defaultReportPath(time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC))
	if got != "subscription_insights_20240301_140509.xlsx" {
		t.Errorf("defaultReportPath() = %q", got)
	}
}

func TestRenderSubscriptions(t *testing.T) {
	var buf bytes.Buffer
	renderSubscriptions(&buf, sampleSubs(), "₹")
	out := buf.String()

	for _, want := range []string{"Netflix", "Gym", "₹649.00", "₹1200.00", "₹100.00", "2024-06-01", "₹749.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	renderSubscriptions(&buf, nil, "₹")
	if !strings.Contains(buf.String(), "No subscriptions tracked.") {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestRenderMetrics(t *testing.T) {
	var buf bytes.Buffer
	renderMetrics(&buf, core.Summarize(sampleSubs()), "$")
	out := buf.String()

	for _, want := range []string{"Subscriptions: 2", "Monthly spend: $749.00", "Annual spend:  $8988.00", "Streaming", "86.6%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Streaming") > strings.Index(out, "Health") {
		t.Error("categories should be listed highest spend first")
	}
}

func TestRenderRenewals(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	renewals := core.UpcomingRenewals(sampleSubs(), now, 30)

	var buf bytes.Buffer
	renderRenewals(&buf, renewals, 30, "€")
	out := buf.String()
	if !strings.Contains(out, "Netflix") || strings.Contains(out, "Gym") {
		t.Errorf("unexpected renewals output:\n%s", out)
	}
	if !strings.Contains(out, "2024-03-05") {
		t.Errorf("missing renewal date:\n%s", out)
	}

	buf.Reset()
	renderRenewals(&buf, nil, 7, "€")
	if buf.String() != "No renewals in the next 7 days.\n" {
		t.Errorf("empty output = %q", buf.String())
	}
}
