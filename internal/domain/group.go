package domain

import "time"

// GroupStore holds every user record of one group. Users keeps first-seen
// order, which is the tie-break order of rankings.
type GroupStore struct {
	GroupID   string        `json:"group_id"`
	GroupName string        `json:"group_name"`
	Users     []*UserRecord `json:"users"`
	UpdatedAt time.Time     `json:"updated_at"`

	index map[string]int
}

// NewGroupStore creates an empty group.
func NewGroupStore(groupID, groupName string) *GroupStore {
	if groupName == "" {
		groupName = DefaultGroupName(groupID)
	}
	return &GroupStore{
		GroupID:   groupID,
		GroupName: groupName,
		index:     make(map[string]int),
	}
}

// User looks up a user record by id.
func (g *GroupStore) User(userID string) (*UserRecord, bool) {
	g.ensureIndex()
	i, ok := g.index[userID]
	if !ok {
		return nil, false
	}
	return g.Users[i], true
}

// UserOrCreate returns the user's record, appending a new one when absent.
func (g *GroupStore) UserOrCreate(userID, nickname string) *UserRecord {
	if u, ok := g.User(userID); ok {
		return u
	}
	u := NewUserRecord(userID, nickname)
	g.index[userID] = len(g.Users)
	g.Users = append(g.Users, u)
	return u
}

// TotalMessages sums the lifetime count of every user.
func (g *GroupStore) TotalMessages() int {
	total := 0
	for _, u := range g.Users {
		total += u.MessageCount
	}
	return total
}

// Clone returns a deep copy that shares no records with g.
func (g *GroupStore) Clone() *GroupStore {
	c := &GroupStore{
		GroupID:   g.GroupID,
		GroupName: g.GroupName,
		UpdatedAt: g.UpdatedAt,
		Users:     make([]*UserRecord, len(g.Users)),
	}
	for i, u := range g.Users {
		c.Users[i] = u.Clone()
	}
	c.ensureIndex()
	return c
}

// ensureIndex builds the id index for stores that were decoded or built
// literally. When the same id is present twice the first record wins.
func (g *GroupStore) ensureIndex() {
	if g.index != nil {
		return
	}
	g.index = make(map[string]int, len(g.Users))
	for i, u := range g.Users {
		if _, dup := g.index[u.UserID]; !dup {
			g.index[u.UserID] = i
		}
	}
}
