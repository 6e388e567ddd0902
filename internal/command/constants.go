package command

// PlatformDiscord is the platform whose members carry roles.
const PlatformDiscord = "discord"

// Command names
const (
	CmdRank         = "rank"
	CmdRankDaily    = "rank-daily"
	CmdRankWeekly   = "rank-weekly"
	CmdRankMonthly  = "rank-monthly"
	CmdRankYearly   = "rank-yearly"
	CmdRankLastYear = "rank-lastyear"

	CmdRankLimit   = "rank-limit"
	CmdRankImage   = "rank-image"
	CmdRankClear   = "rank-clear"
	CmdRankRefresh = "rank-refresh"
	CmdRankCache   = "rank-cache"

	CmdPushStatus = "push-status"
	CmdPushNow    = "push-now"
	CmdPushTime   = "push-time"
	CmdPushGroups = "push-groups"
	CmdPushRemove = "push-remove"
	CmdPushOn     = "push-on"
	CmdPushOff    = "push-off"
	CmdPushType   = "push-type"
)

// Rank query argument keys
const (
	argKeyGroupID = "group_id"
	argKeyGuildID = "guild_id"
	argKeyRoles   = "roles"
)

// Skip reasons reported to metrics
const (
	SkipReasonBot          = "bot"
	SkipReasonNoGroup      = "no_group"
	SkipReasonRejected     = "rejected"
	SkipReasonRecordFailed = "record_failed"
)

// Replies
const (
	ReplyTryAgainLater   = "Something went wrong, please try again later."
	ReplyGroupOnly       = "This command only works inside a server channel."
	ReplyNeedsAdmin      = "This command needs the Manage Server permission."
	ReplyGroupExcluded   = "This group is excluded from message statistics."
	ReplyInvalidGroupID  = "That group id is not valid. Example: %srank 123456789"
	ReplyNeedTarget      = "Please give the target group id, for example: %srank discord 123456789"
	ReplyRolesNeedHint   = "roles= is only supported together with the discord hint, for example: %srank discord roles=111,222"
	ReplyRolesMalformed  = "roles= expects a comma separated list of role ids, for example: roles=111,222"
	ReplyNoRoleMatches   = "No ranked members hold any of the given roles."
	ReplyLimitUsage      = "Usage: %srank-limit <%d-%d>"
	ReplyLimitSet        = "Leaderboards now show %d entries."
	ReplyImageUsage      = "Usage: %srank-image on|off"
	ReplyImageOn         = "Leaderboards are now sent as images."
	ReplyImageOff        = "Leaderboards are now sent as text."
	ReplyCleared         = "Message statistics for this group were cleared."
	ReplyNothingToClear  = "There were no message statistics to clear for this group."
	ReplyRefreshed       = "Member, nickname and name caches refreshed. %d stored nicknames updated."
	ReplyRefreshFailed   = "Could not fetch the member list, please try again later."
	ReplyCacheStatus     = "Cache status\nNicknames: %d\nMember lists: %d\nMember dictionaries: %d\nCached groups: %d\nUnsaved groups: %d\nSettings: %d"
	ReplyPushTimeUsage   = "Usage: %spush-time HH:MM (for example 16:30)"
	ReplyPushTimeSet     = "Scheduled leaderboard enabled.\nTime: %s\nAdded group: %s\nType: %s"
	ReplyPushGroupsUsage = "Usage: %spush-groups <group id> [group id...] (ids are at least 5 digits)"
	ReplyPushGroupsSet   = "Push target groups: %s"
	ReplyPushNoTargets   = "No push target groups are set. Add one with %spush-groups or %spush-time."
	ReplyPushCleared     = "All push target groups removed."
	ReplyPushOn          = "Scheduled leaderboard enabled."
	ReplyPushOff         = "Scheduled leaderboard disabled."
	ReplyPushTypeUsage   = "Usage: %spush-type total|daily|weekly|monthly|yearly|lastyear"
	ReplyPushTypeSet     = "Scheduled leaderboard type: %s"
	ReplyPushNowDone     = "Push finished. Delivered: %d, failed: %d, skipped: %d."
	ReplyPushUnavailable = "Scheduled pushes are not available."
	ReplyNone            = "none"
	ReplyEnabled         = "enabled"
	ReplyDisabled        = "disabled"
	ReplyImageMode       = "image"
	ReplyTextMode        = "text"
	ReplyNotScheduled    = "not scheduled"
	ReplyChannelKnown    = "channel known"
	ReplyChannelUnknown  = "no channel seen yet"
)

// Log messages
const (
	LogMsgCommandFailed  = "Command failed"
	LogMsgRecordFailed   = "Failed to record message"
	LogMsgMessageSkipped = "Message not recorded"
)
