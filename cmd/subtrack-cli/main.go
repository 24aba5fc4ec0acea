package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"

	"subtrack/internal/cli"
	"subtrack/internal/log"
	"subtrack/internal/services"
)

type Params struct {
	Action string `descr:"What to show" alts:"list,metrics,renewals,export" strict:"true" positional:"true"`
	DB     string `descr:"SQLite database path, overrides SQLITE_DB_PATH and selects the sqlite backend" optional:"true"`
	Days   int    `descr:"Renewal look-ahead in days, defaults to RENEWAL_WINDOW_DAYS" optional:"true"`
	Out    string `descr:"Output path for export, defaults to a timestamped file" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("subtrack-cli").
		WithShort("Inspect tracked subscriptions from the terminal").
		WithLong("Lists subscriptions, shows spend metrics and upcoming renewals, or exports the insight workbook from the configured storage backend.").
		WithRunFunc(func(params *Params) {
			if err := run(context.Background(), params, time.Now()); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(ctx context.Context, params *Params, now time.Time) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	if params.DB != "" {
		cfg.DataBackend = "sqlite"
		cfg.SQLiteDBPath = params.DB
	}
	if cfg.LogLevel == "info" {
		// Keep stdout for tables unless the user asked for more.
		cfg.LogLevel = "warn"
	}
	logger := cli.SetupLogger(cfg, log.ComponentCLI)

	clock := func() time.Time { return now }
	res, err := cli.OpenBackend(ctx, cfg, logger, clock)
	if err != nil {
		return err
	}
	defer res.Cleanup()

	// The CLI never publishes events: it only reads.
	svc := services.NewSubscriptionService(res.Repository, services.Options{
		RenewalWindowDays: cfg.RenewalWindowDays,
		CurrencySymbol:    cfg.CurrencySymbol,
		Now:               clock,
		Logger:            logger,
	})

	out := os.Stdout
	switch params.Action {
	case "list":
		subs, err := svc.List(ctx)
		if err != nil {
			return err
		}
		renderSubscriptions(out, subs, cfg.CurrencySymbol)
	case "metrics":
		m, err := svc.Metrics(ctx)
		if err != nil {
			return err
		}
		renderMetrics(out, m, cfg.CurrencySymbol)
	case "renewals":
		days := params.Days
		if days <= 0 {
			days = svc.WindowDays()
		}
		renewals, err := svc.Renewals(ctx, days)
		if err != nil {
			return err
		}
		renderRenewals(out, renewals, days, cfg.CurrencySymbol)
	case "export":
		path := params.Out
		if path == "" {
			path = defaultReportPath(now)
		}
		if err := svc.SaveReport(ctx, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report saved to %s\n", path)
	default:
		return fmt.Errorf("unknown action %q", params.Action)
	}
	return nil
}

func defaultReportPath(now time.Time) string {
	return fmt.Sprintf("subscription_insights_%s.xlsx", now.Format("20060102_150405"))
}
