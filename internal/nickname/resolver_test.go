package nickname

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/store"
	"github.com/osse101/MessageStats_Go/internal/testing/memrepo"
)

// MockMemberFetcher
type MockMemberFetcher struct {
	mock.Mock
}

func (m *MockMemberFetcher) FetchMembers(ctx context.Context, groupID string) ([]domain.Member, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

const groupID = "123456789"

func newResolver(fetcher MemberFetcher) (*Resolver, *store.Store) {
	st := store.New(memrepo.NewGroups(), store.Config{})
	return NewResolver(fetcher, st, Config{FetchRetries: -1}), st
}

func TestResolve_Tiers(t *testing.T) {
	ctx := context.Background()

	t.Run("remote fetch populates caches", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("FetchMembers", mock.Anything, groupID).Return([]domain.Member{
			{UserID: "1", Card: "Card One", Nickname: "one"},
			{UserID: "2", Nickname: "two"},
		}, nil).Once()
		r, _ := newResolver(fetcher)

		assert.Equal(t, "Card One", r.Resolve(ctx, groupID, "1", "hint"))
		assert.Equal(t, "two", r.Resolve(ctx, groupID, "2", ""))
		assert.Equal(t, "Card One", r.Resolve(ctx, groupID, "1", ""))

		fetcher.AssertNumberOfCalls(t, "FetchMembers", 1)
		stats := r.Stats()
		assert.Equal(t, 2, stats.Nicknames)
		assert.Equal(t, 1, stats.MemberLists)
	})

	t.Run("user missing from a fresh list does not refetch", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("FetchMembers", mock.Anything, groupID).Return([]domain.Member{{UserID: "1", Nickname: "one"}}, nil).Once()
		r, _ := newResolver(fetcher)

		assert.Equal(t, "hint", r.Resolve(ctx, groupID, "9", "hint"))
		assert.Equal(t, "user9", r.Resolve(ctx, groupID, "9", ""))
		fetcher.AssertNumberOfCalls(t, "FetchMembers", 1)
	})

	t.Run("fetch failure degrades to hint then placeholder", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("FetchMembers", mock.Anything, groupID).Return(nil, errors.New("timeout"))
		r, _ := newResolver(fetcher)

		assert.Equal(t, "sender", r.Resolve(ctx, groupID, "1", "sender"))
		assert.Equal(t, "user1", r.Resolve(ctx, groupID, "1", ""))
	})

	t.Run("unsafe platform names are skipped", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("FetchMembers", mock.Anything, groupID).Return([]domain.Member{{UserID: "1", Card: "<script>"}}, nil)
		r, _ := newResolver(fetcher)

		assert.Equal(t, "hint", r.Resolve(ctx, groupID, "1", "hint"))
	})

	t.Run("concurrent lookups share one fetch", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("FetchMembers", mock.Anything, groupID).
			WaitUntil(time.After(50*time.Millisecond)).
			Return([]domain.Member{{UserID: "1", Nickname: "one"}, {UserID: "2", Nickname: "two"}}, nil)
		r, _ := newResolver(fetcher)

		const callers = 8
		names := make([]string, callers)
		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				names[i] = r.Resolve(ctx, groupID, "1", "")
			}()
		}
		wg.Wait()

		for _, name := range names {
			assert.Equal(t, "one", name)
		}
		fetcher.AssertNumberOfCalls(t, "FetchMembers", 1)
	})

	t.Run("no fetcher", func(t *testing.T) {
		r, _ := newResolver(nil)
		assert.Equal(t, "user42", r.Resolve(ctx, groupID, "42", ""))
	})
}

type stubTier struct {
	name  string
	value string
	hit   bool
	calls int
}

func (s *stubTier) Name() string { return s.name }

func (s *stubTier) Lookup(ctx context.Context, q Query) (string, bool) {
	s.calls++
	return s.value, s.hit
}

func TestReadThrough_StopsAtFirstHit(t *testing.T) {
	a := &stubTier{name: "a"}
	b := &stubTier{name: "b", value: "found", hit: true}
	c := &stubTier{name: "c", value: "later", hit: true}

	name, tier, ok := readThrough(context.Background(), []Tier{a, b, c}, Query{})
	assert.True(t, ok)
	assert.Equal(t, "found", name)
	assert.Equal(t, "b", tier)
	assert.Equal(t, 0, c.calls)

	_, _, ok = readThrough(context.Background(), []Tier{a}, Query{})
	assert.False(t, ok)
}

func seedGroup(t *testing.T, st *store.Store, users map[string]string) {
	t.Helper()
	day := civil.Date{Year: 2024, Month: time.January, Day: 15}
	require.NoError(t, st.Update(context.Background(), groupID, func(g *domain.GroupStore) (bool, error) {
		for id, nick := range users {
			g.UserOrCreate(id, nick).RecordMessage(day, nick, nil)
		}
		return true, nil
	}))
}

func nicknames(t *testing.T, st *store.Store) map[string]string {
	t.Helper()
	g, err := st.Snapshot(context.Background(), groupID)
	require.NoError(t, err)
	out := map[string]string{}
	for _, u := range g.Users {
		out[u.UserID] = u.Nickname
	}
	return out
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("updates changed names and is idempotent", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("FetchMembers", mock.Anything, groupID).Return([]domain.Member{
			{UserID: "1", Card: "new-one"},
			{UserID: "2", Nickname: "two"},
		}, nil)
		r, st := newResolver(fetcher)
		seedGroup(t, st, map[string]string{"1": "old-one", "2": "two", "3": "gone"})

		updated, err := r.Refresh(ctx, groupID)
		require.NoError(t, err)
		assert.Equal(t, 1, updated)
		assert.Equal(t, map[string]string{"1": "new-one", "2": "two", "3": "gone"}, nicknames(t, st))

		updated, err = r.Refresh(ctx, groupID)
		require.NoError(t, err)
		assert.Zero(t, updated)
		fetcher.AssertNumberOfCalls(t, "FetchMembers", 2)
	})

	t.Run("only nicknames change", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("FetchMembers", mock.Anything, groupID).Return([]domain.Member{{UserID: "1", Card: "renamed"}}, nil)
		r, st := newResolver(fetcher)
		seedGroup(t, st, map[string]string{"1": "old"})

		_, err := r.Refresh(ctx, groupID)
		require.NoError(t, err)

		g, err := st.Snapshot(ctx, groupID)
		require.NoError(t, err)
		assert.Equal(t, 1, g.Users[0].MessageCount)
		assert.Equal(t, 1, g.Users[0].History.Total())
	})

	t.Run("fetch failure is reported", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("FetchMembers", mock.Anything, groupID).Return(nil, errors.New("forbidden"))
		r, _ := newResolver(fetcher)

		_, err := r.Refresh(ctx, groupID)
		assert.ErrorIs(t, err, domain.ErrMemberFetchFailed)
	})

	t.Run("clears the nickname cache", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("FetchMembers", mock.Anything, groupID).Return([]domain.Member{{UserID: "1", Nickname: "first"}}, nil).Once()
		fetcher.On("FetchMembers", mock.Anything, groupID).Return([]domain.Member{{UserID: "1", Nickname: "second"}}, nil)
		r, _ := newResolver(fetcher)

		assert.Equal(t, "first", r.Resolve(ctx, groupID, "1", ""))
		_, err := r.Refresh(ctx, groupID)
		require.NoError(t, err)
		assert.Equal(t, "second", r.Resolve(ctx, groupID, "1", ""))
	})

	t.Run("concurrent with recording loses no messages", func(t *testing.T) {
		fetcher := new(MockMemberFetcher)
		fetcher.On("FetchMembers", mock.Anything, groupID).Return([]domain.Member{{UserID: "1", Card: "fresh"}}, nil)
		r, st := newResolver(fetcher)
		seedGroup(t, st, map[string]string{"1": "stale"})

		day := civil.Date{Year: 2024, Month: time.January, Day: 15}
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				assert.NoError(t, st.Update(ctx, groupID, func(g *domain.GroupStore) (bool, error) {
					u := g.UserOrCreate("1", "fresh")
					u.RecordMessage(day, u.Nickname, nil)
					return true, nil
				}))
			}()
			go func() {
				defer wg.Done()
				_, err := r.Refresh(ctx, groupID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		g, err := st.Snapshot(ctx, groupID)
		require.NoError(t, err)
		assert.Equal(t, 51, g.Users[0].MessageCount)
		assert.Equal(t, "fresh", g.Users[0].Nickname)
	})
}

func TestReconcile_UsesCacheOnly(t *testing.T) {
	ctx := context.Background()
	fetcher := new(MockMemberFetcher)
	fetcher.On("FetchMembers", mock.Anything, groupID).Return([]domain.Member{{UserID: "1", Card: "cached"}}, nil).Once()
	r, st := newResolver(fetcher)
	seedGroup(t, st, map[string]string{"1": "old"})

	updated, err := r.Reconcile(ctx, groupID)
	require.NoError(t, err)
	assert.Zero(t, updated)
	fetcher.AssertNotCalled(t, "FetchMembers", mock.Anything, mock.Anything)

	r.Resolve(ctx, groupID, "2", "")
	updated, err = r.Reconcile(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, "cached", nicknames(t, st)["1"])
}
