package domain

import (
	"fmt"
	"strings"
)

// RankType selects the window a leaderboard covers.
type RankType int

const (
	RankTotal RankType = iota
	RankDaily
	RankWeekly
	RankMonthly
	RankYearly
	RankLastYear
)

var rankTypeNames = [...]string{
	RankTotal:    "total",
	RankDaily:    "daily",
	RankWeekly:   "weekly",
	RankMonthly:  "monthly",
	RankYearly:   "yearly",
	RankLastYear: "lastyear",
}

var rankTypeAliases = map[string]RankType{
	"total":     RankTotal,
	"all":       RankTotal,
	"daily":     RankDaily,
	"day":       RankDaily,
	"today":     RankDaily,
	"weekly":    RankWeekly,
	"week":      RankWeekly,
	"monthly":   RankMonthly,
	"month":     RankMonthly,
	"yearly":    RankYearly,
	"year":      RankYearly,
	"lastyear":  RankLastYear,
	"last_year": RankLastYear,
	"last-year": RankLastYear,
}

// RankTypes lists every rank type in declaration order.
func RankTypes() []RankType {
	return []RankType{RankTotal, RankDaily, RankWeekly, RankMonthly, RankYearly, RankLastYear}
}

func (r RankType) String() string {
	if !r.Valid() {
		return fmt.Sprintf("RankType(%d)", int(r))
	}
	return rankTypeNames[r]
}

// Valid reports whether r is a declared rank type.
func (r RankType) Valid() bool {
	return r >= RankTotal && r <= RankLastYear
}

// ParseRankType accepts a rank type name or one of its aliases, case-insensitively.
func ParseRankType(s string) (RankType, error) {
	if r, ok := rankTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r, nil
	}
	return RankTotal, fmt.Errorf("%w: %q", ErrInvalidRankType, s)
}

func (r RankType) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRankType, int(r))
	}
	return []byte(r.String()), nil
}

func (r *RankType) UnmarshalText(text []byte) error {
	parsed, err := ParseRankType(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RankEntry is one leaderboard row. User is a copy owned by the caller.
type RankEntry struct {
	User  *UserRecord
	Value int
}

// Member is one entry of a platform member list.
type Member struct {
	UserID   string
	Card     string // group-specific display name
	Nickname string
}

// DisplayName prefers the group-specific name.
func (m Member) DisplayName() string {
	if m.Card != "" {
		return m.Card
	}
	return m.Nickname
}
