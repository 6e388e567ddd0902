package domain

import (
	"slices"

	"cloud.google.com/go/civil"
)

// UserRecord is one user's message statistics within one group.
type UserRecord struct {
	UserID       string  `json:"user_id"`
	Nickname     string  `json:"nickname"`
	MessageCount int     `json:"message_count"`
	History      History `json:"history,omitempty"`
	Roles        []int64 `json:"roles,omitempty"`
}

// NewUserRecord creates an empty record for a first-seen user.
func NewUserRecord(userID, nickname string) *UserRecord {
	return &UserRecord{UserID: userID, Nickname: nickname}
}

// RecordMessage counts one message sent on day. The nickname always takes the
// latest observed value; roles are replaced only when non-nil.
func (u *UserRecord) RecordMessage(day civil.Date, nickname string, roles []int64) {
	u.History.Record(day)
	u.MessageCount++
	u.Nickname = nickname
	if roles != nil {
		u.Roles = NormalizeRoles(roles)
	}
}

// MessageCountInPeriod returns the messages sent within [start, end].
func (u *UserRecord) MessageCountInPeriod(start, end civil.Date) int {
	return u.History.CountInPeriod(start, end)
}

// HasAnyRole reports whether the user holds at least one of the given roles.
func (u *UserRecord) HasAnyRole(roles []int64) bool {
	for _, r := range roles {
		if slices.Contains(u.Roles, r) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (u *UserRecord) Clone() *UserRecord {
	c := *u
	c.History = u.History.Clone()
	if u.Roles != nil {
		c.Roles = slices.Clone(u.Roles)
	}
	return &c
}

// NormalizeRoles returns the roles sorted with duplicates removed.
func NormalizeRoles(roles []int64) []int64 {
	out := slices.Clone(roles)
	slices.Sort(out)
	return slices.Compact(out)
}
