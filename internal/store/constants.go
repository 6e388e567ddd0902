package store

import "time"

// Cache defaults
const (
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 5 * time.Minute
)

// Error messages
const (
	ErrMsgLoadGroupFailed   = "failed to load group"
	ErrMsgSaveGroupFailed   = "failed to save group"
	ErrMsgDeleteGroupFailed = "failed to delete group"
	ErrMsgListGroupsFailed  = "failed to list groups"
)

// Log messages
const (
	LogMsgGroupCreated   = "Created group store"
	LogMsgGroupCleared   = "Cleared group store"
	LogMsgFlushCompleted = "Flushed group stores"
	LogMsgFlushFailed    = "Failed to flush group store"
)
