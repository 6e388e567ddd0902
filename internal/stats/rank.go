package stats

import (
	"slices"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/osse101/MessageStats_Go/internal/domain"
)

// RankQuery describes one leaderboard computation.
type RankQuery struct {
	Type  domain.RankType
	Today civil.Date
	// Roles restricts the rank to users holding any of them. Empty means no filter.
	Roles   []int64
	Blocked []string
}

// BuildRank filters, scores and orders a group's users. Users with no
// activity in the window are left out; equal values keep the group's user
// order. The full list is returned, truncation is up to the renderer.
func BuildRank(group *domain.GroupStore, q RankQuery) []domain.RankEntry {
	window, windowed := WindowFor(q.Type, q.Today)

	entries := make([]domain.RankEntry, 0, len(group.Users))
	for _, u := range group.Users {
		if slices.Contains(q.Blocked, u.UserID) {
			continue
		}
		if len(q.Roles) > 0 && !u.HasAnyRole(q.Roles) {
			continue
		}

		value := u.MessageCount
		if windowed {
			value = u.MessageCountInPeriod(window.Start, window.End)
		}
		if value <= 0 {
			continue
		}
		entries = append(entries, domain.RankEntry{User: u, Value: value})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

// Total sums the values of a rank.
func Total(entries []domain.RankEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Value
	}
	return total
}
