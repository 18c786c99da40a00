package metrics

// Metric Names

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameSpinsTotal          = "spins_total"
	MetricNameSpinPayoutsTotal    = "spin_payouts_total"
	MetricNameSpinBetsTotal       = "spin_bets_total"
	MetricNamePoolBalance         = "pool_balance"
	MetricNameLedgerEntriesTotal  = "ledger_entries_total"
	MetricNameDegradedLimitsTotal = "degraded_limits_total"
	MetricNameEventsPublished     = "events_published_total"
	MetricNameEventHandlerErrors  = "event_handler_errors_total"
)

// Metric Help Text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextSpinsTotal          = "Total number of resolved spins"
	HelpTextSpinPayoutsTotal    = "Total payout amount in minor units"
	HelpTextSpinBetsTotal       = "Total bet amount in minor units"
	HelpTextPoolBalance         = "Current liquidity pool balance in minor units"
	HelpTextLedgerEntriesTotal  = "Total number of ledger entries appended"
	HelpTextDegradedLimitsTotal = "Total number of CheckLimits calls that degraded the odds"
	HelpTextEventsPublished     = "Total number of events published"
	HelpTextEventHandlerErrors  = "Total number of event handler errors"
)

// Metric Labels
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelGame    = "game"
	LabelAgent   = "agent"
	LabelOutcome = "outcome"
	LabelKind    = "kind"
	LabelTier    = "tier"
	LabelType    = "type"
)

// HTTPLatencyBuckets are latency histogram buckets in seconds
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
