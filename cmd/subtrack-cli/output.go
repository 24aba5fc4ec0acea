package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subtrack/internal/core"
)

func formatAmount(symbol string, v float64) string {
	return fmt.Sprintf("%s%.2f", symbol, v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func renderSubscriptions(w io.Writer, subs []core.Subscription, symbol string) {
	if len(subs) == 0 {
		fmt.Fprintln(w, "No subscriptions tracked.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Category", "Cycle", "Amount", "Monthly", "Started", "Renews"})
	var total float64
	for _, s := range subs {
		monthly := s.MonthlyCost()
		total += monthly
		t.AppendRow(table.Row{
			s.ID, s.Name, s.Category, string(s.Cycle),
			formatAmount(symbol, s.Amount.Units()),
			formatAmount(symbol, monthly),
			s.StartDate.String(), s.RenewalDate.String(),
		})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", "", text.Bold.Sprint("Total"), text.Bold.Sprint(formatAmount(symbol, core.Round2(total))), "", ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

func renderMetrics(w io.Writer, m core.Metrics, symbol string) {
	fmt.Fprintf(w, "Subscriptions: %d\n", m.TotalSubscriptions)
	fmt.Fprintf(w, "Monthly spend: %s\n", formatAmount(symbol, m.TotalMonthly))
	fmt.Fprintf(w, "Annual spend:  %s\n", formatAmount(symbol, m.TotalAnnual))
	if len(m.ByCategory) == 0 {
		return
	}
	fmt.Fprintln(w)

	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Monthly", "Share"})
	for _, c := range m.ByCategory {
		t.AppendRow(table.Row{c.Name, formatAmount(symbol, c.Monthly), fmt.Sprintf("%.1f%%", c.Percentage)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func renderRenewals(w io.Writer, renewals []core.Renewal, days int, symbol string) {
	if len(renewals) == 0 {
		fmt.Fprintf(w, "No renewals in the next %d days.\n", days)
		return
	}

	t := newTable(w)
	t.SetTitle(fmt.Sprintf("Renewals in the next %d days", days))
	t.AppendHeader(table.Row{"Name", "Renews", "Days", "Amount", "Cycle"})
	for _, r := range renewals {
		daysCell := fmt.Sprint(r.DaysUntil)
		if r.Urgent() {
			daysCell = text.FgYellow.Sprint(daysCell)
		}
		t.AppendRow(table.Row{r.Name, r.RenewalDate.String(), daysCell, formatAmount(symbol, r.Amount.Units()), string(r.Cycle)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}
