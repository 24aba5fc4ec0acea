package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type serviceMetrics struct {
	created        prometheus.Counter
	deleted        prometheus.Counter
	publishFailed  *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	exports        prometheus.Counter
	validationFail *prometheus.CounterVec
}

// newServiceMetrics registers the service collectors on reg. A nil reg
// yields working but unregistered collectors.
func newServiceMetrics(reg prometheus.Registerer) *serviceMetrics {
	f := promauto.With(reg)
	return &serviceMetrics{
		created: f.NewCounter(prometheus.CounterOpts{
			Namespace: "subtrack",
			Name:      "subscriptions_created_total",
			Help:      "Subscriptions successfully created.",
		}),
		deleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "subtrack",
			Name:      "subscriptions_deleted_total",
			Help:      "Delete requests handled, including ids that did not exist.",
		}),
		publishFailed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subtrack",
			Name:      "event_publish_failures_total",
			Help:      "Subscription events that could not be published.",
		}, []string{"type"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subtrack",
			Name:      "metrics_cache_lookups_total",
			Help:      "Spend metrics cache lookups by result.",
		}, []string{"result"}),
		exports: f.NewCounter(prometheus.CounterOpts{
			Namespace: "subtrack",
			Name:      "reports_exported_total",
			Help:      "Insight workbooks generated.",
		}),
		validationFail: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subtrack",
			Name:      "validation_failures_total",
			Help:      "Rejected create requests by reason.",
		}, []string{"reason"}),
	}
}
