package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	SpinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpinsTotal,
			Help: HelpTextSpinsTotal,
		},
		[]string{LabelGame, LabelAgent, LabelOutcome},
	)

	SpinBetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpinBetsTotal,
			Help: HelpTextSpinBetsTotal,
		},
		[]string{LabelGame, LabelAgent},
	)

	SpinPayoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpinPayoutsTotal,
			Help: HelpTextSpinPayoutsTotal,
		},
		[]string{LabelGame, LabelAgent},
	)

	PoolBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNamePoolBalance,
			Help: HelpTextPoolBalance,
		},
		[]string{LabelAgent},
	)

	LedgerEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLedgerEntriesTotal,
			Help: HelpTextLedgerEntriesTotal,
		},
		[]string{LabelKind},
	)

	DegradedLimitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDegradedLimitsTotal,
			Help: HelpTextDegradedLimitsTotal,
		},
		[]string{LabelTier},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)
