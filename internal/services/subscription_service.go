package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"subtrack/internal/amqp"
	"subtrack/internal/cache"
	"subtrack/internal/core"
	"subtrack/internal/log"
	"subtrack/internal/report"
	"subtrack/internal/storage"
)

// ErrMissingFields is returned when name, amount or start date is absent.
var ErrMissingFields = errors.New("missing required fields")

const metricsCacheKey = "metrics"

// Publisher emits subscription lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event amqp.SubscriptionEvent) error
}

// NewSubscription is the unvalidated user input for a create request.
type NewSubscription struct {
	Name           string
	Amount         string
	StartDate      string
	BillingCycle   string
	Category       string
	CustomCategory string
}

// Options configures a SubscriptionService. Zero values select defaults.
type Options struct {
	Publisher         Publisher
	MetricsCacheTTL   time.Duration
	RenewalWindowDays int
	CurrencySymbol    string
	Now               func() time.Time
	Logger            *log.Logger
	Registerer        prometheus.Registerer
}

// SubscriptionService orchestrates storage, spend calculations, events and reports.
type SubscriptionService struct {
	repo       storage.Repository
	publisher  Publisher
	metrics    cache.Cache[core.Metrics]
	reports    *report.Generator
	now        func() time.Time
	windowDays int
	currency   string
	logger     *log.Logger
	stats      *serviceMetrics
}

func NewSubscriptionService(repo storage.Repository, opts Options) *SubscriptionService {
	s := &SubscriptionService{
		repo:       repo,
		publisher:  opts.Publisher,
		metrics:    cache.NewTTL[core.Metrics](opts.MetricsCacheTTL),
		reports:    report.NewGenerator(),
		now:        opts.Now,
		windowDays: opts.RenewalWindowDays,
		currency:   opts.CurrencySymbol,
		logger:     opts.Logger,
		stats:      newServiceMetrics(opts.Registerer),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.windowDays <= 0 {
		s.windowDays = core.DefaultRenewalWindowDays
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(log.ComponentSubscription)
	return s
}

// WindowDays is the default look-ahead for upcoming renewals.
func (s *SubscriptionService) WindowDays() int {
	return s.windowDays
}

// Create validates the input, derives the next renewal date and stores the subscription.
func (s *SubscriptionService) Create(ctx context.Context, in NewSubscription) (core.Subscription, error) {
	sub, err := s.parse(in)
	if err != nil {
		s.stats.validationFail.WithLabelValues(validationReason(err)).Inc()
		return core.Subscription{}, err
	}

	sub.RenewalDate = core.NextRenewal(sub.StartDate, sub.Cycle, s.now())

	id, err := s.repo.Insert(ctx, sub)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("save subscription: %w", err)
	}
	sub.ID = id
	s.metrics.Flush()
	s.stats.created.Inc()

	log.NewStructuredLogger(s.logger).LogSubscriptionCreated(ctx, sub.ID, sub.Name, sub.Amount.Cents,
		string(sub.Cycle), sub.Category, sub.RenewalDate.String())

	s.publish(ctx, amqp.SubscriptionEvent{
		Type:         amqp.EventSubscriptionCreated,
		ID:           sub.ID,
		Name:         sub.Name,
		AmountCents:  sub.Amount.Cents,
		BillingCycle: string(sub.Cycle),
		Category:     sub.Category,
		RenewalDate:  sub.RenewalDate.String(),
	})
	return sub, nil
}

func (s *SubscriptionService) parse(in NewSubscription) (core.Subscription, error) {
	name := strings.TrimSpace(in.Name)
	amount := strings.TrimSpace(in.Amount)
	start := strings.TrimSpace(in.StartDate)
	if name == "" || amount == "" || start == "" {
		return core.Subscription{}, ErrMissingFields
	}

	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return core.Subscription{}, core.ErrInvalidAmount
	}
	startDate, err := core.ParseDate(start)
	if err != nil {
		return core.Subscription{}, core.ErrInvalidDate
	}

	sub := core.Subscription{
		Name:      name,
		Amount:    core.Money{Cents: cents},
		Cycle:     core.ParseBillingCycle(in.BillingCycle),
		Category:  core.ResolveCategory(in.Category, in.CustomCategory),
		StartDate: startDate,
	}
	if err := sub.Validate(); err != nil {
		return core.Subscription{}, err
	}
	if !sub.Cycle.Valid() {
		s.logger.Warn("Unknown billing cycle, treating as monthly",
			log.FieldBillingCycle, string(sub.Cycle),
			log.FieldName, sub.Name)
	}
	return sub, nil
}

func validationReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, core.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, core.ErrInvalidDate):
		return "invalid_date"
	default:
		return "other"
	}
}

// IsValidation reports whether err was caused by bad user input.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrMissingFields, core.ErrInvalidAmount, core.ErrInvalidDate,
		core.ErrEmptyName, core.ErrMissingStartDate, core.ErrEmptyCategory,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// List returns every subscription ordered by name.
func (s *SubscriptionService) List(ctx context.Context) ([]core.Subscription, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// Delete removes a subscription. Unknown ids are not an error.
func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	s.metrics.Flush()
	s.stats.deleted.Inc()
	log.NewStructuredLogger(s.logger).LogSubscriptionDeleted(ctx, id)

	s.publish(ctx, amqp.SubscriptionEvent{Type: amqp.EventSubscriptionDeleted, ID: id})
	return nil
}

// Metrics returns the spend summary, served from cache while fresh.
func (s *SubscriptionService) Metrics(ctx context.Context) (core.Metrics, error) {
	if m, ok := s.metrics.Get(metricsCacheKey); ok {
		s.stats.cacheLookups.WithLabelValues("hit").Inc()
		return m, nil
	}
	s.stats.cacheLookups.WithLabelValues("miss").Inc()

	subs, err := s.repo.List(ctx)
	if err != nil {
		return core.Metrics{}, fmt.Errorf("load subscriptions for metrics: %w", err)
	}
	m := core.Summarize(subs)
	s.metrics.Set(metricsCacheKey, m)
	return m, nil
}

// Renewals returns subscriptions renewing within the next days days. A
// non-positive days selects the configured window.
func (s *SubscriptionService) Renewals(ctx context.Context, days int) ([]core.Renewal, error) {
	if days <= 0 {
		days = s.windowDays
	}
	now := s.now()
	// Renewal dates are UTC midnights. The prefilter spans one extra calendar
	// day and UpcomingRenewals applies the exact window.
	utc := now.UTC()
	from := core.NewDate(utc.Year(), int(utc.Month()), utc.Day())
	to := core.NewDate(utc.Year(), int(utc.Month()), utc.Day()+days+1)

	subs, err := s.repo.ListRenewingBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load renewals: %w", err)
	}
	return core.UpcomingRenewals(subs, now, days), nil
}

// ReportData gathers everything the insight workbook needs.
func (s *SubscriptionService) ReportData(ctx context.Context) (report.Data, error) {
	subs, err := s.List(ctx)
	if err != nil {
		return report.Data{}, err
	}
	now := s.now()
	return report.Data{
		Subscriptions:  subs,
		Metrics:        core.Summarize(subs),
		Renewals:       core.UpcomingRenewals(subs, now, s.windowDays),
		Days:           s.windowDays,
		GeneratedAt:    now,
		CurrencySymbol: s.currency,
	}, nil
}

// Export streams the insight workbook to w.
func (s *SubscriptionService) Export(ctx context.Context, w io.Writer) error {
	data, err := s.ReportData(ctx)
	if err != nil {
		return err
	}
	if err := s.reports.Write(w, data); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	s.stats.exports.Inc()
	s.logger.InfoContext(ctx, "Report exported",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(data.Subscriptions))
	return nil
}

// SaveReport writes the insight workbook to path.
func (s *SubscriptionService) SaveReport(ctx context.Context, path string) error {
	data, err := s.ReportData(ctx)
	if err != nil {
		return err
	}
	f, err := s.reports.Build(data)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report %s: %w", path, err)
	}
	s.stats.exports.Inc()
	return nil
}

// Ready checks that the storage backend is reachable.
func (s *SubscriptionService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish never fails the caller; the local write already succeeded.
func (s *SubscriptionService) publish(ctx context.Context, event amqp.SubscriptionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.stats.publishFailed.WithLabelValues(string(event.Type)).Inc()
		s.logger.ErrorContext(ctx, "Failed to publish subscription event",
			log.FieldSubscriptionID, event.ID,
			log.FieldOperation, log.OpPublish,
			log.FieldError, err.Error())
	}
}
