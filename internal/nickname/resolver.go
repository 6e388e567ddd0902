package nickname

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/metrics"
	"github.com/osse101/MessageStats_Go/internal/store"
	"github.com/osse101/MessageStats_Go/internal/validation"
)

// MemberFetcher lists a group's members on the chat platform.
type MemberFetcher interface {
	FetchMembers(ctx context.Context, groupID string) ([]domain.Member, error)
}

// GroupUpdater applies changes to stored groups.
type GroupUpdater interface {
	Update(ctx context.Context, groupID string, fn store.MutateFunc) error
}

// Config holds cache sizes and lifetimes.
type Config struct {
	NicknameTTL  time.Duration
	NicknameSize int
	MemberTTL    time.Duration
	MemberSize   int
	// FetchRetries bounds member-list fetch retries. Zero selects the
	// default; a negative value disables retries.
	FetchRetries int
}

// CacheStats reports cache occupancy.
type CacheStats struct {
	Nicknames   int
	MemberLists int
	MemberDicts int
}

// Resolver turns user ids into display names through the nickname cache,
// the member cache, a remote member-list fetch and the sender name, in that
// order, ending with a placeholder.
type Resolver struct {
	nicknames    *expirable.LRU[string, string]
	members      *MemberCache
	fetcher      MemberFetcher
	groups       GroupUpdater
	fetchRetries int
	tiers        []Tier

	// inflight collapses concurrent member-list fetches for one group.
	inflight singleflight.Group
}

// NewResolver creates a resolver. fetcher may be nil when the platform cannot list members.
func NewResolver(fetcher MemberFetcher, groups GroupUpdater, cfg Config) *Resolver {
	if cfg.NicknameTTL <= 0 {
		cfg.NicknameTTL = DefaultNicknameTTL
	}
	if cfg.NicknameSize <= 0 {
		cfg.NicknameSize = DefaultNicknameSize
	}
	if cfg.MemberTTL <= 0 {
		cfg.MemberTTL = DefaultMemberTTL
	}
	if cfg.MemberSize <= 0 {
		cfg.MemberSize = DefaultMemberSize
	}
	switch {
	case cfg.FetchRetries == 0:
		cfg.FetchRetries = DefaultFetchRetries
	case cfg.FetchRetries < 0:
		cfg.FetchRetries = 0
	}

	r := &Resolver{
		nicknames:    expirable.NewLRU[string, string](cfg.NicknameSize, nil, cfg.NicknameTTL),
		members:      NewMemberCache(cfg.MemberSize, cfg.MemberTTL),
		fetcher:      fetcher,
		groups:       groups,
		fetchRetries: cfg.FetchRetries,
	}
	r.tiers = []Tier{nicknameTier{r}, memberTier{r}, remoteTier{r}, hintTier{}}
	return r
}

// Resolve never fails: when no tier knows the user the placeholder is returned.
func (r *Resolver) Resolve(ctx context.Context, groupID, userID, hint string) string {
	name, tier, ok := readThrough(ctx, r.tiers, Query{GroupID: groupID, UserID: userID, Hint: hint})
	if !ok {
		name, tier = domain.PlaceholderNickname(userID), TierPlaceholder
	}
	metrics.NicknameLookups.WithLabelValues(tier).Inc()
	return name
}

// Refresh drops cached names, refetches the group's member list and writes
// changed names into the stored records. It returns how many records changed.
func (r *Resolver) Refresh(ctx context.Context, groupID string) (int, error) {
	r.nicknames.Purge()
	r.members.Invalidate(groupID)

	if r.fetcher == nil {
		return 0, nil
	}
	dict, err := r.fetch(ctx, groupID)
	if err != nil {
		return 0, err
	}

	updated, err := r.reconcileWith(ctx, groupID, dict)
	if err != nil {
		return 0, err
	}
	logger.ForGroup(ctx, groupID).Info(LogMsgRefreshed, "updated", updated)
	return updated, nil
}

// Reconcile writes names from the cached member list into the stored
// records. Nothing is fetched; without a cached list it is a no-op.
func (r *Resolver) Reconcile(ctx context.Context, groupID string) (int, error) {
	dict, ok := r.members.Dict(groupID)
	if !ok {
		return 0, nil
	}
	return r.reconcileWith(ctx, groupID, dict)
}

// reconcileWith only ever touches Nickname, so it is safe alongside message
// recording. Running it twice with the same dictionary changes nothing the
// second time.
func (r *Resolver) reconcileWith(ctx context.Context, groupID string, dict map[string]domain.Member) (int, error) {
	updated := 0
	err := r.groups.Update(ctx, groupID, func(g *domain.GroupStore) (bool, error) {
		for _, u := range g.Users {
			m, ok := dict[u.UserID]
			if !ok {
				continue
			}
			name := m.DisplayName()
			if name == u.Nickname || !validation.IsSafeText(name) {
				continue
			}
			u.Nickname = name
			updated++
		}
		return updated > 0, nil
	})
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		logger.ForGroup(ctx, groupID).Debug(LogMsgReconciled, "updated", updated)
	}
	return updated, nil
}

// Stats reports cache sizes.
func (r *Resolver) Stats() CacheStats {
	lists, dicts := r.members.Len()
	return CacheStats{Nicknames: r.nicknames.Len(), MemberLists: lists, MemberDicts: dicts}
}
