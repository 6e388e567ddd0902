package domain

// Display limits
const (
	DefaultRankLimit = 20
	MinRankLimit     = 1
	MaxRankLimit     = 100
)

// Identifier and nickname policy
const (
	MinGroupIDLength  = 5
	MaxGroupIDLength  = 32
	MinUserIDLength   = 1
	MaxUserIDLength   = 20
	MaxNicknameLength = 50

	// DangerousNicknameChars may not appear in stored nicknames.
	DangerousNicknameChars = "<>:\"|?*\x00\n\r"
)

// Placeholders
const (
	NicknamePlaceholderPrefix = "user"
	GroupNamePrefix           = "Group "
)

// Scheduled push defaults
const (
	DefaultPushTime = "09:00"
	PushTimeLayout  = "15:04"
	DefaultPushRank = RankDaily
)

// PlaceholderNickname returns the display name used when no source knows the user.
func PlaceholderNickname(userID string) string {
	return NicknamePlaceholderPrefix + userID
}

// DefaultGroupName returns the display name of a group the platform has not named yet.
func DefaultGroupName(groupID string) string {
	return GroupNamePrefix + groupID
}
