// Package report renders subscription spending insights as an xlsx workbook.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"subtrack/internal/core"
)

const (
	SheetSummary       = "Summary"
	SheetSubscriptions = "All Subscriptions"
	SheetRenewals      = "Upcoming Renewals"

	// Filename is the attachment name used when the workbook is downloaded.
	Filename = "subscription_insights.xlsx"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultTopN = 10
)

// Data is everything the workbook is built from.
type Data struct {
	Subscriptions  []core.Subscription
	Metrics        core.Metrics
	Renewals       []core.Renewal
	Days           int
	GeneratedAt    time.Time
	CurrencySymbol string
}

// Generator builds insight workbooks.
type Generator struct {
	// TopN bounds the "Top Subscriptions" table. Zero means 10.
	TopN int
}

func NewGenerator() *Generator {
	return &Generator{TopN: defaultTopN}
}

// Write builds the workbook and streams it to w.
func (g *Generator) Write(w io.Writer, data Data) error {
	f, err := g.Build(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Build returns the populated workbook. The caller owns the file and must close it.
func (g *Generator) Build(data Data) (*excelize.File, error) {
	f := excelize.NewFile()
	b := &builder{f: f, data: data, topN: g.TopN}
	if b.topN <= 0 {
		b.topN = defaultTopN
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"styles", b.initStyles},
		{"summary sheet", b.summary},
		{"subscriptions sheet", b.subscriptions},
		{"renewals sheet", b.renewals},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			f.Close()
			return nil, fmt.Errorf("build %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

type styles struct {
	title, subtitle, section, italic        int
	tableHeader, subsHeader, renewalsHeader int
	monthly, annual, bold, urgent           int
}

type builder struct {
	f     *excelize.File
	data  Data
	topN  int
	style styles
	err   error
}

func (b *builder) initStyles() error {
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&b.style.title, &excelize.Style{Font: &excelize.Font{Size: 18, Bold: true}}},
		{&b.style.subtitle, &excelize.Style{Font: &excelize.Font{Size: 16, Bold: true}}},
		{&b.style.section, &excelize.Style{Font: &excelize.Font{Size: 14, Bold: true}}},
		{&b.style.italic, &excelize.Style{Font: &excelize.Font{Size: 10, Italic: true}}},
		{&b.style.tableHeader, headerStyle("D3D3D3", "000000")},
		{&b.style.subsHeader, headerStyle("4472C4", "FFFFFF")},
		{&b.style.renewalsHeader, headerStyle("FF6B6B", "FFFFFF")},
		{&b.style.monthly, &excelize.Style{Font: &excelize.Font{Bold: true, Color: "0000FF"}}},
		{&b.style.annual, &excelize.Style{Font: &excelize.Font{Bold: true, Color: "008000"}}},
		{&b.style.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&b.style.urgent, &excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"FFD700"}, Pattern: 1},
		}},
	}
	for _, d := range defs {
		id, err := b.f.NewStyle(d.style)
		if err != nil {
			return err
		}
		*d.dst = id
	}
	return nil
}

func headerStyle(fill, font string) *excelize.Style {
	return &excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: font},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}
}

// set writes value at (col,row) with an optional style. The first failure
// sticks and later calls become no-ops.
func (b *builder) set(sheet string, col, row int, value any, style int) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		b.err = err
		return
	}
	if err := b.f.SetCellValue(sheet, cell, value); err != nil {
		b.err = err
		return
	}
	if style != 0 {
		b.err = b.f.SetCellStyle(sheet, cell, cell, style)
	}
}

func (b *builder) widths(sheet string, widths ...float64) {
	for i, w := range widths {
		if b.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			b.err = err
			return
		}
		b.err = b.f.SetColWidth(sheet, col, col, w)
	}
}

func (b *builder) money(v float64) string {
	return fmt.Sprintf("%s%.2f", b.data.CurrencySymbol, v)
}

func (b *builder) summary() error {
	const sheet = SheetSummary
	if err := b.f.SetSheetName(b.f.GetSheetName(0), sheet); err != nil {
		return err
	}
	m := b.data.Metrics
	generated := b.data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	b.set(sheet, 1, 1, "Subscription Spending Insights", b.style.title)
	if b.err == nil {
		b.err = b.f.MergeCell(sheet, "A1", "D1")
	}
	b.set(sheet, 1, 2, "Generated: "+generated.Format("2006-01-02 15:04"), b.style.italic)

	b.set(sheet, 1, 4, "Key Metrics", b.style.section)
	b.set(sheet, 1, 5, "Total Monthly Cost:", 0)
	b.set(sheet, 2, 5, b.money(m.TotalMonthly), b.style.monthly)
	b.set(sheet, 1, 6, "Total Annual Cost:", 0)
	b.set(sheet, 2, 6, b.money(m.TotalAnnual), b.style.annual)
	b.set(sheet, 1, 7, "Active Subscriptions:", 0)
	b.set(sheet, 2, 7, m.TotalSubscriptions, b.style.bold)

	b.set(sheet, 1, 9, "Spending by Category", b.style.section)
	for i, h := range []string{"Category", "Monthly Cost", "Percentage"} {
		b.set(sheet, i+1, 10, h, b.style.tableHeader)
	}
	row := 11
	for _, c := range m.ByCategory {
		b.set(sheet, 1, row, c.Name, 0)
		b.set(sheet, 2, row, c.Monthly, 0)
		b.set(sheet, 3, row, fmt.Sprintf("%.1f%%", c.Percentage), 0)
		row++
	}
	if b.err != nil {
		return b.err
	}
	if len(m.ByCategory) > 0 {
		err := b.f.AddChart(sheet, "E9", &excelize.Chart{
			Type: excelize.Pie,
			Series: []excelize.ChartSeries{{
				Name:       "Monthly Cost",
				Categories: fmt.Sprintf("%s!$A$11:$A$%d", sheet, row-1),
				Values:     fmt.Sprintf("%s!$B$11:$B$%d", sheet, row-1),
			}},
			Title:     []excelize.RichTextRun{{Text: "Spending by Category"}},
			Dimension: excelize.ChartDimension{Width: 480, Height: 290},
		})
		if err != nil {
			return fmt.Errorf("add category chart: %w", err)
		}
	}

	topTitle := row + 2
	b.set(sheet, 1, topTitle, "Top Subscriptions by Monthly Cost", b.style.section)
	b.set(sheet, 1, topTitle+1, "Subscription", b.style.tableHeader)
	b.set(sheet, 2, topTitle+1, "Monthly Cost", b.style.tableHeader)
	top := core.TopByMonthlyCost(b.data.Subscriptions, b.topN)
	first := topTitle + 2
	for i, s := range top {
		b.set(sheet, 1, first+i, s.Name, 0)
		b.set(sheet, 2, first+i, core.Round2(s.MonthlyCost()), 0)
	}
	if b.err != nil {
		return b.err
	}
	if len(top) > 0 {
		last := first + len(top) - 1
		err := b.f.AddChart(sheet, fmt.Sprintf("E%d", row+10), &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       "Monthly Cost",
				Categories: fmt.Sprintf("%s!$A$%d:$A$%d", sheet, first, last),
				Values:     fmt.Sprintf("%s!$B$%d:$B$%d", sheet, first, last),
			}},
			Title:     []excelize.RichTextRun{{Text: "Top Subscriptions by Monthly Cost"}},
			Legend:    excelize.ChartLegend{Position: "none"},
			Dimension: excelize.ChartDimension{Width: 640, Height: 320},
		})
		if err != nil {
			return fmt.Errorf("add top subscriptions chart: %w", err)
		}
	}

	b.widths(sheet, 30, 18, 15)
	return b.err
}

func (b *builder) subscriptions() error {
	const sheet = SheetSubscriptions
	if _, err := b.f.NewSheet(sheet); err != nil {
		return err
	}

	b.set(sheet, 1, 1, "All Subscriptions", b.style.subtitle)
	headers := []string{"Name", "Amount", "Billing Cycle", "Category", "Start Date", "Renewal Date", "Monthly Cost"}
	for i, h := range headers {
		b.set(sheet, i+1, 3, h, b.style.subsHeader)
	}
	for i, s := range b.data.Subscriptions {
		row := 4 + i
		b.set(sheet, 1, row, s.Name, 0)
		b.set(sheet, 2, row, s.Amount.Units(), 0)
		b.set(sheet, 3, row, capitalize(string(s.Cycle)), 0)
		b.set(sheet, 4, row, s.Category, 0)
		b.set(sheet, 5, row, s.StartDate.String(), 0)
		b.set(sheet, 6, row, s.RenewalDate.String(), 0)
		b.set(sheet, 7, row, core.Round2(s.MonthlyCost()), 0)
	}
	b.widths(sheet, 25, 12, 15, 15, 14, 14, 14)
	return b.err
}

func (b *builder) renewals() error {
	const sheet = SheetRenewals
	if _, err := b.f.NewSheet(sheet); err != nil {
		return err
	}

	days := b.data.Days
	if days <= 0 {
		days = core.DefaultRenewalWindowDays
	}
	b.set(sheet, 1, 1, fmt.Sprintf("Upcoming Renewals (Next %d Days)", days), b.style.subtitle)

	if len(b.data.Renewals) == 0 {
		b.set(sheet, 1, 3, fmt.Sprintf("No upcoming renewals in the next %d days", days), b.style.italic)
		b.widths(sheet, 40)
		return b.err
	}

	headers := []string{"Name", "Amount", "Billing Cycle", "Category", "Renewal Date", "Days Until Renewal"}
	for i, h := range headers {
		b.set(sheet, i+1, 3, h, b.style.renewalsHeader)
	}
	for i, r := range b.data.Renewals {
		row := 4 + i
		b.set(sheet, 1, row, r.Name, 0)
		b.set(sheet, 2, row, r.Amount.Units(), 0)
		b.set(sheet, 3, row, capitalize(string(r.Cycle)), 0)
		b.set(sheet, 4, row, r.Category, 0)
		b.set(sheet, 5, row, r.RenewalDate.String(), 0)
		daysStyle := 0
		if r.Urgent() {
			daysStyle = b.style.urgent
		}
		b.set(sheet, 6, row, r.DaysUntil, daysStyle)
	}
	b.widths(sheet, 25, 12, 15, 15, 14, 20)
	return b.err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
