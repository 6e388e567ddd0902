package logger

// Service identity attached to every record.
const (
	DefaultServiceName = "message-stats"
	DefaultVersion     = "dev"
	// EnvironmentDev turns on source locations in log records.
	EnvironmentDev = "dev"
)

// Accepted LOG_LEVEL and LOG_FORMAT values. Anything else logs at info in text.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	FormatJSON = "json"
	FormatText = "text"
)

// Attribute keys shared across packages so records can be filtered by group,
// user or channel regardless of which component wrote them.
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyGroupID     = "group_id"
	AttrKeyUserID      = "user_id"
	AttrKeyChannelID   = "channel_id"
	AttrKeyRankType    = "rank_type"
	AttrKeyCount       = "count"
)
