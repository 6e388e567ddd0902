package domain

import "slices"

// Settings is the persisted plugin configuration shared by all groups.
type Settings struct {
	RankLimit       int           `json:"rank_limit"`
	SendImage       bool          `json:"send_image"`
	BlockedUsers    []string      `json:"blocked_users"`
	BlockedGroups   []string      `json:"blocked_groups"`
	DetailedLogging bool          `json:"detailed_logging"`
	Timer           TimerSettings `json:"timer"`
}

// TimerSettings configures the scheduled leaderboard push.
type TimerSettings struct {
	Enabled      bool     `json:"enabled"`
	PushTime     string   `json:"push_time"`
	TargetGroups []string `json:"target_groups"`
	RankType     RankType `json:"rank_type"`
}

// DefaultSettings returns the configuration used before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		RankLimit:     DefaultRankLimit,
		SendImage:     true,
		BlockedUsers:  []string{},
		BlockedGroups: []string{},
		Timer: TimerSettings{
			PushTime:     DefaultPushTime,
			TargetGroups: []string{},
			RankType:     DefaultPushRank,
		},
	}
}

func (s Settings) IsUserBlocked(userID string) bool {
	return slices.Contains(s.BlockedUsers, userID)
}

func (s Settings) IsGroupBlocked(groupID string) bool {
	return slices.Contains(s.BlockedGroups, groupID)
}

// Clone returns a copy whose slices are not shared with s.
func (s Settings) Clone() Settings {
	c := s
	c.BlockedUsers = slices.Clone(s.BlockedUsers)
	c.BlockedGroups = slices.Clone(s.BlockedGroups)
	c.Timer.TargetGroups = slices.Clone(s.Timer.TargetGroups)
	return c
}
