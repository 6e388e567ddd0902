package stats

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgMessageRejected  = "Message not counted: validation failed"
	LogMsgMessageBlocked   = "Message not counted: blocked"
	LogMsgRecordFailed     = "Failed to record message"
	LogMsgSettingsFallback = "Settings unavailable, using defaults"
	LogMsgReconcileFailed  = "Nickname reconciliation before rank failed"
	LogMsgRankBuilt        = "Built leaderboard"
	LogMsgGroupCleared     = "Group statistics cleared"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgRecordFailed   = "failed to record message"
	ErrMsgSnapshotFailed = "failed to read group"
	ErrMsgClearFailed    = "failed to clear group"
)

// Skip reasons used as metric labels
const (
	SkipReasonInvalid      = "invalid"
	SkipReasonBlockedUser  = "blocked_user"
	SkipReasonBlockedGroup = "blocked_group"
)
