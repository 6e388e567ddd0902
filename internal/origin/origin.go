// Package origin remembers, per group, the channel its latest message
// arrived on. Scheduled leaderboards are delivered there.
package origin

import (
	"slices"
	"sync"
)

// Registry maps group ids to their last seen channel.
type Registry struct {
	channels sync.Map
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Remember records channelID as the group's current channel.
func (r *Registry) Remember(groupID, channelID string) {
	if groupID == "" || channelID == "" {
		return
	}
	if prev, ok := r.channels.Load(groupID); ok && prev.(string) == channelID {
		return
	}
	r.channels.Store(groupID, channelID)
}

// Channel returns the last seen channel of the group.
func (r *Registry) Channel(groupID string) (string, bool) {
	v, ok := r.channels.Load(groupID)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Known lists the groups with a remembered channel, sorted.
func (r *Registry) Known() []string {
	var ids []string
	r.channels.Range(func(key, _ any) bool {
		ids = append(ids, key.(string))
		return true
	})
	slices.Sort(ids)
	return ids
}
