package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// WashServicesCreated counts service records by type and applied discount.
	WashServicesCreated *prometheus.CounterVec
	// WashRevenueMinor sums final prices (minor units) of created records.
	WashRevenueMinor *prometheus.CounterVec
	// WashCreateConflicts counts record creations aborted by concurrent modification.
	WashCreateConflicts prometheus.Counter
	// LoyaltyFreeWashes counts free washes granted by crossing a threshold.
	LoyaltyFreeWashes prometheus.Counter
	// SalesAggregateTotal counts sales aggregation requests by period and cache outcome.
	SalesAggregateTotal *prometheus.CounterVec
	// JobsProcessedTotal counts background jobs by task type and outcome.
	JobsProcessedTotal *prometheus.CounterVec
	// LoginsThrottled counts login attempts refused by the rate limiter.
	LoginsThrottled prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		WashServicesCreated = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wash_services_created_total",
			Help:      "Count of created wash service records by type and discount.",
		}, []string{"service_type", "discount"}))
		WashRevenueMinor = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wash_revenue_minor_total",
			Help:      "Sum of final prices of created records in minor currency units.",
		}, []string{"service_type"}))
		WashCreateConflicts = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wash_create_conflicts_total",
			Help:      "Record creations that failed on concurrent modification.",
		}))
		LoyaltyFreeWashes = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loyalty_free_washes_total",
			Help:      "Free washes granted by reaching a loyalty threshold.",
		}))
		SalesAggregateTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_aggregate_total",
			Help:      "Sales aggregation requests by period and cache outcome.",
		}, []string{"period", "cache"}))
		JobsProcessedTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_processed_total",
			Help:      "Background jobs processed by task type and result.",
		}, []string{"task", "result"}))
		LoginsThrottled = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_throttled_total",
			Help:      "Customer and employee login attempts refused by the rate limiter.",
		}))
	})
}
