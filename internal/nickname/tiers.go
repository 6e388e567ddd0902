package nickname

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"github.com/osse101/MessageStats_Go/internal/domain"
	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/validation"
)

// Query identifies the user whose display name is wanted. Hint is the name
// the platform attached to the triggering message, if any.
type Query struct {
	GroupID string
	UserID  string
	Hint    string
}

// Tier is one stage of name resolution. A miss passes the query on to the
// next tier; tiers never return errors.
type Tier interface {
	Name() string
	Lookup(ctx context.Context, q Query) (string, bool)
}

// readThrough asks each tier in order and returns the first hit.
func readThrough(ctx context.Context, tiers []Tier, q Query) (string, string, bool) {
	for _, t := range tiers {
		if name, ok := t.Lookup(ctx, q); ok {
			return name, t.Name(), true
		}
	}
	return "", "", false
}

type nicknameTier struct{ r *Resolver }

func (t nicknameTier) Name() string { return TierNicknameCache }

func (t nicknameTier) Lookup(ctx context.Context, q Query) (string, bool) {
	return t.r.nicknames.Get(q.UserID)
}

type memberTier struct{ r *Resolver }

func (t memberTier) Name() string { return TierMemberCache }

func (t memberTier) Lookup(ctx context.Context, q Query) (string, bool) {
	dict, ok := t.r.members.Dict(q.GroupID)
	if !ok {
		return "", false
	}
	return t.r.remember(dict, q.UserID)
}

// remoteTier fetches the member list only when no list is cached for the
// group; a user missing from a fresh list is not worth another fetch.
type remoteTier struct{ r *Resolver }

func (t remoteTier) Name() string { return TierRemote }

func (t remoteTier) Lookup(ctx context.Context, q Query) (string, bool) {
	if t.r.fetcher == nil || t.r.members.Has(q.GroupID) {
		return "", false
	}
	dict, err := t.r.fetch(ctx, q.GroupID)
	if err != nil {
		logger.ForGroup(ctx, q.GroupID).Warn(LogMsgFetchFailed, "error", err)
		return "", false
	}
	return t.r.remember(dict, q.UserID)
}

type hintTier struct{}

func (hintTier) Name() string { return TierSenderName }

func (hintTier) Lookup(ctx context.Context, q Query) (string, bool) {
	if q.Hint == "" {
		return "", false
	}
	return q.Hint, true
}

// remember looks the user up in dict and caches a usable name.
func (r *Resolver) remember(dict map[string]domain.Member, userID string) (string, bool) {
	m, ok := dict[userID]
	if !ok {
		return "", false
	}
	name := m.DisplayName()
	if !validation.IsSafeText(name) {
		return "", false
	}
	r.nicknames.Add(userID, name)
	return name, true
}

// fetch loads the group's member list from the platform and caches it.
// Callers asking for the same group while a fetch runs share its result.
func (r *Resolver) fetch(ctx context.Context, groupID string) (map[string]domain.Member, error) {
	v, err, _ := r.inflight.Do(groupID, func() (any, error) {
		return r.fetchOnce(ctx, groupID)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]domain.Member), nil
}

func (r *Resolver) fetchOnce(ctx context.Context, groupID string) (map[string]domain.Member, error) {
	var members []domain.Member
	op := func() error {
		var err error
		members, err = r.fetcher.FetchMembers(ctx, groupID)
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = fetchInitialBackoff
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.fetchRetries)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMemberFetchFailed, err)
	}
	return r.members.Store(groupID, members), nil
}
