package nickname

import "time"

// Cache defaults
const (
	DefaultNicknameTTL  = 5 * time.Minute
	DefaultNicknameSize = 500
	DefaultMemberTTL    = 5 * time.Minute
	DefaultMemberSize   = 100
	DefaultFetchRetries = 2
	fetchInitialBackoff = 200 * time.Millisecond
)

// Tier names, also used as metric labels
const (
	TierNicknameCache = "nickname_cache"
	TierMemberCache   = "member_cache"
	TierRemote        = "remote"
	TierSenderName    = "sender_name"
	TierPlaceholder   = "placeholder"
)

// Log messages
const (
	LogMsgFetchFailed = "Member list fetch failed, falling through"
	LogMsgRefreshed   = "Refreshed nickname caches"
	LogMsgReconciled  = "Reconciled stored nicknames"
)
