package nickname

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/MessageStats_Go/internal/domain"
)

// MemberCache keeps each group's last fetched member list and the
// by-user dictionary derived from it. Both expire together.
type MemberCache struct {
	lists *expirable.LRU[string, []domain.Member]
	dicts *expirable.LRU[string, map[string]domain.Member]
}

// NewMemberCache creates a member cache holding up to size groups.
func NewMemberCache(size int, ttl time.Duration) *MemberCache {
	return &MemberCache{
		lists: expirable.NewLRU[string, []domain.Member](size, nil, ttl),
		dicts: expirable.NewLRU[string, map[string]domain.Member](size, nil, ttl),
	}
}

// Store caches a fetched member list and returns its dictionary.
func (c *MemberCache) Store(groupID string, members []domain.Member) map[string]domain.Member {
	dict := buildDict(members)
	c.lists.Add(groupID, members)
	c.dicts.Add(groupID, dict)
	return dict
}

// Dict returns the group's member dictionary, rebuilding it from the cached
// list when only the list survived.
func (c *MemberCache) Dict(groupID string) (map[string]domain.Member, bool) {
	if dict, ok := c.dicts.Get(groupID); ok {
		return dict, true
	}
	members, ok := c.lists.Get(groupID)
	if !ok {
		return nil, false
	}
	dict := buildDict(members)
	c.dicts.Add(groupID, dict)
	return dict, true
}

// Has reports whether a member list is cached for the group.
func (c *MemberCache) Has(groupID string) bool {
	return c.lists.Contains(groupID)
}

// Invalidate drops the group's list and dictionary.
func (c *MemberCache) Invalidate(groupID string) {
	c.lists.Remove(groupID)
	c.dicts.Remove(groupID)
}

func (c *MemberCache) Len() (lists, dicts int) {
	return c.lists.Len(), c.dicts.Len()
}

func buildDict(members []domain.Member) map[string]domain.Member {
	dict := make(map[string]domain.Member, len(members))
	for _, m := range members {
		dict[m.UserID] = m
	}
	return dict
}
