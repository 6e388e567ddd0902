package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MessageStats_Go/internal/domain"
)

var today = date(2024, time.January, 15)

// user builds a record with total lifetime messages, todayCount of them sent today.
func user(id string, total, todayCount int, roles ...int64) *domain.UserRecord {
	u := &domain.UserRecord{UserID: id, Nickname: "n" + id, MessageCount: total, Roles: roles}
	if earlier := total - todayCount; earlier > 0 {
		u.History = append(u.History, domain.HistoryEntry{Date: today.AddDays(-40), Count: earlier})
	}
	if todayCount > 0 {
		u.History = append(u.History, domain.HistoryEntry{Date: today, Count: todayCount})
	}
	return u
}

func ids(entries []domain.RankEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.User.UserID
	}
	return out
}

func values(entries []domain.RankEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}

func TestBuildRank_TotalAndDaily(t *testing.T) {
	group := &domain.GroupStore{GroupID: "123456", Users: []*domain.UserRecord{
		user("B", 3, 0),
		user("A", 5, 2),
	}}

	total := BuildRank(group, RankQuery{Type: domain.RankTotal, Today: today})
	assert.Equal(t, []string{"A", "B"}, ids(total))
	assert.Equal(t, []int{5, 3}, values(total))

	daily := BuildRank(group, RankQuery{Type: domain.RankDaily, Today: today})
	assert.Equal(t, []string{"A"}, ids(daily))
	assert.Equal(t, []int{2}, values(daily))
}

func TestBuildRank_ExcludesZeroActivity(t *testing.T) {
	group := &domain.GroupStore{Users: []*domain.UserRecord{
		{UserID: "idle"},
		user("A", 1, 1),
	}}
	for _, rt := range domain.RankTypes() {
		entries := BuildRank(group, RankQuery{Type: rt, Today: today})
		assert.NotContains(t, ids(entries), "idle", rt.String())
	}
}

func TestBuildRank_LegacyRecordOnlyInTotal(t *testing.T) {
	group := &domain.GroupStore{Users: []*domain.UserRecord{{UserID: "old", MessageCount: 9}}}

	assert.Equal(t, []string{"old"}, ids(BuildRank(group, RankQuery{Type: domain.RankTotal, Today: today})))
	assert.Empty(t, BuildRank(group, RankQuery{Type: domain.RankYearly, Today: today}))
}

func TestBuildRank_Blocked(t *testing.T) {
	group := &domain.GroupStore{Users: []*domain.UserRecord{
		user("C", 10, 10),
		user("A", 5, 2),
	}}
	for _, rt := range domain.RankTypes() {
		entries := BuildRank(group, RankQuery{Type: rt, Today: today, Blocked: []string{"C"}})
		assert.NotContains(t, ids(entries), "C", rt.String())
	}
}

func TestBuildRank_RoleFilterIsOr(t *testing.T) {
	group := &domain.GroupStore{Users: []*domain.UserRecord{
		user("A", 5, 0, 1, 2),
		user("B", 4, 0),
	}}

	assert.Equal(t, []string{"A"}, ids(BuildRank(group, RankQuery{Type: domain.RankTotal, Today: today, Roles: []int64{2, 3}})))
	assert.Empty(t, BuildRank(group, RankQuery{Type: domain.RankTotal, Today: today, Roles: []int64{4}}))
	assert.Len(t, BuildRank(group, RankQuery{Type: domain.RankTotal, Today: today}), 2)
}

func TestBuildRank_StableTies(t *testing.T) {
	group := &domain.GroupStore{Users: []*domain.UserRecord{
		user("first", 3, 0),
		user("top", 9, 0),
		user("second", 3, 0),
		user("third", 3, 0),
	}}

	entries := BuildRank(group, RankQuery{Type: domain.RankTotal, Today: today})
	assert.Equal(t, []string{"top", "first", "second", "third"}, ids(entries))
}

func TestBuildRank_NotTruncated(t *testing.T) {
	group := &domain.GroupStore{}
	for i := 0; i < 150; i++ {
		group.Users = append(group.Users, user(string(rune('a'+i%26))+string(rune('0'+i/26)), i+1, 0))
	}
	entries := BuildRank(group, RankQuery{Type: domain.RankTotal, Today: today})
	require.Len(t, entries, 150)
	assert.Equal(t, 150*151/2, Total(entries))
}

func TestBuildRank_EmptyGroup(t *testing.T) {
	entries := BuildRank(&domain.GroupStore{}, RankQuery{Type: domain.RankDaily, Today: today})
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
