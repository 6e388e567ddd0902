package stats

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/store"
	"github.com/osse101/MessageStats_Go/internal/testing/memrepo"
)

type staticSettings struct {
	settings domain.Settings
	err      error
}

func (s *staticSettings) Get(ctx context.Context) (domain.Settings, error) {
	return s.settings, s.err
}

type fakeResolver struct {
	names      map[string]string
	reconciled []string
	err        error
}

func (f *fakeResolver) Resolve(ctx context.Context, groupID, userID, hint string) string {
	if n, ok := f.names[userID]; ok {
		return n
	}
	if hint != "" {
		return hint
	}
	return domain.PlaceholderNickname(userID)
}

func (f *fakeResolver) Reconcile(ctx context.Context, groupID string) (int, error) {
	f.reconciled = append(f.reconciled, groupID)
	return 0, f.err
}

const groupID = "123456789"

func newTestService(t *testing.T, settings domain.Settings) (Service, *store.Store, *fakeResolver, *memrepo.Groups) {
	t.Helper()
	repo := memrepo.NewGroups()
	st := store.New(repo, store.Config{})
	resolver := &fakeResolver{names: map[string]string{}}
	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	svc := NewService(st, resolver, &staticSettings{settings: settings}, Config{
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})
	return svc, st, resolver, repo
}

func TestService_RecordMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("records and ranks", func(t *testing.T) {
		svc, _, _, _ := newTestService(t, domain.DefaultSettings())
		for i := 0; i < 3; i++ {
			ok, err := svc.RecordMessage(ctx, Message{GroupID: groupID, UserID: "1", SenderName: "alice"})
			require.NoError(t, err)
			assert.True(t, ok)
		}
		ok, err := svc.RecordMessage(ctx, Message{GroupID: groupID, GroupName: "Guild", UserID: "2", SenderName: "bob"})
		require.NoError(t, err)
		assert.True(t, ok)

		result, err := svc.GetRank(ctx, RankRequest{GroupID: groupID, Type: domain.RankDaily})
		require.NoError(t, err)
		assert.Equal(t, "Guild", result.GroupName)
		assert.Equal(t, 4, result.Total)
		require.Len(t, result.Entries, 2)
		assert.Equal(t, "alice", result.Entries[0].User.Nickname)
		assert.Equal(t, 3, result.Entries[0].Value)
		assert.True(t, result.Windowed)
	})

	t.Run("invalid ids are skipped without error", func(t *testing.T) {
		svc, st, _, _ := newTestService(t, domain.DefaultSettings())
		ok, err := svc.RecordMessage(ctx, Message{GroupID: "12", UserID: "1", SenderName: "alice"})
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = svc.RecordMessage(ctx, Message{GroupID: groupID, UserID: "1", SenderName: strings.Repeat("x", 60)})
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = st.Snapshot(ctx, groupID)
		assert.ErrorIs(t, err, domain.ErrGroupNotFound)
	})

	t.Run("blocked users and groups are skipped", func(t *testing.T) {
		settings := domain.DefaultSettings()
		settings.BlockedUsers = []string{"666"}
		settings.BlockedGroups = []string{"777777"}
		svc, _, _, _ := newTestService(t, settings)

		ok, err := svc.RecordMessage(ctx, Message{GroupID: groupID, UserID: "666", SenderName: "x"})
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = svc.RecordMessage(ctx, Message{GroupID: "777777", UserID: "1", SenderName: "x"})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing name falls back to placeholder", func(t *testing.T) {
		svc, st, _, _ := newTestService(t, domain.DefaultSettings())
		_, err := svc.RecordMessage(ctx, Message{GroupID: groupID, UserID: "55"})
		require.NoError(t, err)

		g, err := st.Snapshot(ctx, groupID)
		require.NoError(t, err)
		assert.Equal(t, "user55", g.Users[0].Nickname)
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		svc, _, _, repo := newTestService(t, domain.DefaultSettings())
		repo.Err = errors.New("disk full")
		ok, err := svc.RecordMessage(ctx, Message{GroupID: groupID, UserID: "1", SenderName: "a"})
		assert.False(t, ok)
		assert.ErrorIs(t, err, domain.ErrStorage)
	})
}

func TestService_GetRank(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown group is not found", func(t *testing.T) {
		svc, _, _, _ := newTestService(t, domain.DefaultSettings())
		_, err := svc.GetRank(ctx, RankRequest{GroupID: groupID, Type: domain.RankTotal})
		assert.ErrorIs(t, err, domain.ErrGroupNotFound)
	})

	t.Run("known group with no activity in window is empty", func(t *testing.T) {
		svc, _, _, _ := newTestService(t, domain.DefaultSettings())
		_, err := svc.RecordMessage(ctx, Message{GroupID: groupID, UserID: "1", SenderName: "a"})
		require.NoError(t, err)

		result, err := svc.GetRank(ctx, RankRequest{GroupID: groupID, Type: domain.RankLastYear})
		require.NoError(t, err)
		assert.Empty(t, result.Entries)
		assert.Zero(t, result.Total)
	})

	t.Run("blocked users excluded from rank", func(t *testing.T) {
		settings := domain.DefaultSettings()
		svc, st, _, _ := newTestService(t, settings)
		require.NoError(t, st.Update(ctx, groupID, func(g *domain.GroupStore) (bool, error) {
			g.UserOrCreate("C", "c").MessageCount = 10
			g.UserOrCreate("A", "a").MessageCount = 5
			return true, nil
		}))

		blocking := NewService(st, nil, &staticSettings{settings: domain.Settings{BlockedUsers: []string{"C"}}}, Config{})
		result, err := blocking.GetRank(ctx, RankRequest{GroupID: groupID, Type: domain.RankTotal})
		require.NoError(t, err)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "A", result.Entries[0].User.UserID)

		result, err = svc.GetRank(ctx, RankRequest{GroupID: groupID, Type: domain.RankTotal})
		require.NoError(t, err)
		assert.Len(t, result.Entries, 2)
	})

	t.Run("reconciles nicknames first and tolerates failure", func(t *testing.T) {
		svc, _, resolver, _ := newTestService(t, domain.DefaultSettings())
		_, err := svc.RecordMessage(ctx, Message{GroupID: groupID, UserID: "1", SenderName: "a"})
		require.NoError(t, err)

		resolver.err = errors.New("platform down")
		_, err = svc.GetRank(ctx, RankRequest{GroupID: groupID, Type: domain.RankTotal})
		require.NoError(t, err)
		assert.Equal(t, []string{groupID}, resolver.reconciled)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc, _, _, _ := newTestService(t, domain.DefaultSettings())
		_, err := svc.GetRank(ctx, RankRequest{GroupID: groupID, Type: domain.RankType(42)})
		assert.ErrorIs(t, err, domain.ErrInvalidRankType)
		_, err = svc.GetRank(ctx, RankRequest{GroupID: "1", Type: domain.RankTotal})
		assert.ErrorIs(t, err, domain.ErrInvalidGroupID)
	})

	t.Run("settings failure falls back to defaults", func(t *testing.T) {
		st := store.New(memrepo.NewGroups(), store.Config{})
		svc := NewService(st, nil, &staticSettings{err: errors.New("boom")}, Config{})
		ok, err := svc.RecordMessage(ctx, Message{GroupID: groupID, UserID: "1", SenderName: "a"})
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestService_ClearGroup(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t, domain.DefaultSettings())

	cleared, err := svc.ClearGroup(ctx, groupID)
	require.NoError(t, err)
	assert.False(t, cleared)

	_, err = svc.RecordMessage(ctx, Message{GroupID: groupID, UserID: "1", SenderName: "a"})
	require.NoError(t, err)
	cleared, err = svc.ClearGroup(ctx, groupID)
	require.NoError(t, err)
	assert.True(t, cleared)

	groups, err := svc.ListGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
