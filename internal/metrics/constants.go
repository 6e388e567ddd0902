package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameHTTPRejected         = "http_requests_rejected_total"
)

// Message statistics metric names
const (
	MetricNameMessagesRecorded = "messages_recorded_total"
	MetricNameMessagesSkipped  = "messages_skipped_total"
	MetricNameRankQueries      = "rank_queries_total"
	MetricNameRankDuration     = "rank_build_duration_seconds"
	MetricNameCommands         = "commands_total"
)

// Cache and storage metric names
const (
	MetricNameNicknameLookups = "nickname_lookups_total"
	MetricNameStoreFlushes    = "store_flushes_total"
	MetricNameStoreDirty      = "store_dirty_groups"
)

// Delivery metric names
const (
	MetricNamePushDeliveries  = "push_deliveries_total"
	MetricNameRenderFallbacks = "render_fallbacks_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextHTTPRejected         = "HTTP requests refused by the security middleware, by reason"
)

// Message statistics help text
const (
	HelpTextMessagesRecorded = "Total number of group messages counted"
	HelpTextMessagesSkipped  = "Total number of group messages not counted, by reason"
	HelpTextRankQueries      = "Total number of leaderboards built, by rank type"
	HelpTextRankDuration     = "Time spent building a leaderboard in seconds"
	HelpTextCommands         = "Total number of chat commands handled, by command"
)

// Cache and storage help text
const (
	HelpTextNicknameLookups = "Nickname resolutions by the tier that answered"
	HelpTextStoreFlushes    = "Group store flushes to durable storage, by result"
	HelpTextStoreDirty      = "Groups with changes not yet flushed"
)

// Delivery help text
const (
	HelpTextPushDeliveries  = "Scheduled leaderboard deliveries, by result"
	HelpTextRenderFallbacks = "Leaderboards sent as text because image rendering failed"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelReason  = "reason"
	LabelType    = "type"
	LabelTier    = "tier"
	LabelResult  = "result"
	LabelCommand = "command"
)

// Label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// ============================================================================
// Buckets
// ============================================================================

var (
	HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
	RankLatencyBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5}
)
