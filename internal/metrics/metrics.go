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

// Ingestion Metrics
var (
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePollsTotal,
			Help: HelpTextPollsTotal,
		},
		[]string{LabelOutcome},
	)

	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNamePollDuration,
			Help:    HelpTextPollDuration,
			Buckets: PollLatencyBuckets,
		},
	)

	DetailFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDetailFetches,
			Help: HelpTextDetailFetches,
		},
		[]string{LabelOutcome},
	)

	KillmailsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameKillmailsRejected,
			Help: HelpTextKillmailsRejected,
		},
		[]string{LabelReason},
	)

	KillmailsDuplicate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameKillmailsDuplicate,
			Help: HelpTextKillmailsDuplicate,
		},
		[]string{LabelLayer},
	)

	KillmailsAdmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameKillmailsAdmitted,
			Help: HelpTextKillmailsAdmitted,
		},
	)

	PersistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePersistenceFailures,
			Help: HelpTextPersistenceFailures,
		},
	)
)

// Aggregate Metrics
var (
	HotspotsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameHotspotsDetected,
			Help: HelpTextHotspotsDetected,
		},
	)

	BattlesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBattlesStarted,
			Help: HelpTextBattlesStarted,
		},
	)

	BattlesEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBattlesEnded,
			Help: HelpTextBattlesEnded,
		},
	)

	ConflictsAged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConflictsAged,
			Help: HelpTextConflictsAged,
		},
		[]string{LabelStatus},
	)

	ISKDestroyed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameISKDestroyed,
			Help: HelpTextISKDestroyed,
		},
	)
)

// Alert Metrics
var (
	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAlertsSent,
			Help: HelpTextAlertsSent,
		},
		[]string{LabelKind},
	)

	AlertsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAlertsFailed,
			Help: HelpTextAlertsFailed,
		},
		[]string{LabelKind},
	)

	AlertsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAlertsSkipped,
			Help: HelpTextAlertsSkipped,
		},
		[]string{LabelKind},
	)

	AlertsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAlertsDropped,
			Help: HelpTextAlertsDropped,
		},
		[]string{LabelKind},
	)
)
