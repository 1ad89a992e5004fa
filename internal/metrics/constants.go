package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Ingestion metric names
const (
	MetricNamePollsTotal          = "killwatch_polls_total"
	MetricNamePollDuration        = "killwatch_poll_duration_seconds"
	MetricNameDetailFetches       = "killwatch_detail_fetches_total"
	MetricNameKillmailsRejected   = "killwatch_killmails_rejected_total"
	MetricNameKillmailsDuplicate  = "killwatch_killmails_duplicate_total"
	MetricNameKillmailsAdmitted   = "killwatch_killmails_admitted_total"
	MetricNamePersistenceFailures = "killwatch_persistence_failures_total"
)

// Aggregate metric names
const (
	MetricNameHotspotsDetected = "killwatch_hotspots_detected_total"
	MetricNameBattlesStarted   = "killwatch_battles_started_total"
	MetricNameBattlesEnded     = "killwatch_battles_ended_total"
	MetricNameConflictsAged    = "killwatch_conflicts_aged_total"
	MetricNameISKDestroyed     = "killwatch_isk_destroyed_total"
)

// Alert metric names
const (
	MetricNameAlertsSent    = "killwatch_alerts_sent_total"
	MetricNameAlertsFailed  = "killwatch_alerts_failed_total"
	MetricNameAlertsSkipped = "killwatch_alerts_skipped_total"
	MetricNameAlertsDropped = "killwatch_alerts_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Ingestion metric help text
const (
	HelpTextPollsTotal          = "Queue polls by outcome"
	HelpTextPollDuration        = "Queue long-poll latency in seconds"
	HelpTextDetailFetches       = "Killmail detail fetches by outcome"
	HelpTextKillmailsRejected   = "Killmails dropped by the parser, by reason"
	HelpTextKillmailsDuplicate  = "Duplicate killmails, by the layer that caught them"
	HelpTextKillmailsAdmitted   = "Killmails admitted into the permanent record"
	HelpTextPersistenceFailures = "Admissions that failed to persist"
)

// Aggregate metric help text
const (
	HelpTextHotspotsDetected = "Systems that crossed the hotspot threshold"
	HelpTextBattlesStarted   = "Battles opened"
	HelpTextBattlesEnded     = "Battles closed by the sweep"
	HelpTextConflictsAged    = "Conflicts moved toward a terminal status, by new status"
	HelpTextISKDestroyed     = "Total ISK value of admitted killmails"
)

// Alert metric help text
const (
	HelpTextAlertsSent    = "Alerts delivered, by kind"
	HelpTextAlertsFailed  = "Alerts that failed to deliver, by kind"
	HelpTextAlertsSkipped = "Alerts skipped because another worker held the claim, by kind"
	HelpTextAlertsDropped = "Alerts dropped because the alert queue was full, by kind"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelOutcome = "outcome"
	LabelReason  = "reason"
	LabelLayer   = "layer"
	LabelKind    = "kind"
)

// Poll and detail outcomes
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeRateLimited = "rate_limited"
	OutcomeServerError = "server_error"
	OutcomeNetwork     = "network_error"
	OutcomeClientError = "client_error"
	OutcomeCacheHit    = "cache_hit"
	OutcomeUnavailable = "unavailable"
)

// Duplicate layers
const (
	LayerState = "state"
	LayerStore = "store"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// PollLatencyBuckets covers an immediate reply up to a full ttw wait plus slack
var PollLatencyBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 7.5, 10, 15, 30}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Unexpected event payload type"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
