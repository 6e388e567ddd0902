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

	HTTPRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRejected,
			Help: HelpTextHTTPRejected,
		},
		[]string{LabelReason},
	)
)

// Message statistics
var (
	MessagesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMessagesRecorded,
			Help: HelpTextMessagesRecorded,
		},
	)

	MessagesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMessagesSkipped,
			Help: HelpTextMessagesSkipped,
		},
		[]string{LabelReason},
	)

	RankQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRankQueries,
			Help: HelpTextRankQueries,
		},
		[]string{LabelType},
	)

	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameRankDuration,
			Help:    HelpTextRankDuration,
			Buckets: RankLatencyBuckets,
		},
	)

	Commands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommands,
			Help: HelpTextCommands,
		},
		[]string{LabelCommand},
	)
)

// Cache and storage
var (
	NicknameLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameNicknameLookups,
			Help: HelpTextNicknameLookups,
		},
		[]string{LabelTier},
	)

	StoreFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStoreFlushes,
			Help: HelpTextStoreFlushes,
		},
		[]string{LabelResult},
	)

	StoreDirtyGroups = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameStoreDirty,
			Help: HelpTextStoreDirty,
		},
	)
)

// Delivery
var (
	PushDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePushDeliveries,
			Help: HelpTextPushDeliveries,
		},
		[]string{LabelResult},
	)

	RenderFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRenderFallbacks,
			Help: HelpTextRenderFallbacks,
		},
	)
)
