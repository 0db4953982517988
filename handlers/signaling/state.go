package signaling

import (
	"sort"
	"sync"

	"webinar-relay/core"
)

// State is the shared connection registry and room directory. All mutations
// take the single write lock so that membership reads used to compute
// broadcast targets never race a concurrent join or leave.
type State struct {
	mu    sync.RWMutex
	rooms map[string]map[core.ConnectionID]struct{}
	conns map[core.ConnectionID]string
}

func NewState() *State {
	return &State{
		rooms: make(map[string]map[core.ConnectionID]struct{}),
		conns: make(map[core.ConnectionID]string),
	}
}

// Register records a freshly connected transport id. The connection belongs
// to no room until its first create-room or join-room event.
func (s *State) Register(id core.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conns[id]; !ok {
		s.conns[id] = ""
	}
}

// Unregister removes the connection and its room membership, if any. It
// returns the room the connection was in so teardown can notify the
// remaining members. Unknown ids are a no-op.
func (s *State) Unregister(id core.ConnectionID) (roomID string, wasMember bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomID, ok := s.conns[id]
	if !ok {
		return "", false
	}
	delete(s.conns, id)

	if roomID == "" {
		return "", false
	}
	s.removeMember(roomID, id)
	return roomID, true
}

// Registered reports whether the connection id is known to the registry.
func (s *State) Registered(id core.ConnectionID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.conns[id]
	return ok
}

// RoomOf reports the room the connection currently belongs to.
func (s *State) RoomOf(id core.ConnectionID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roomID, ok := s.conns[id]
	if !ok || roomID == "" {
		return "", false
	}
	return roomID, true
}

// Join adds the connection to the room, creating the room entry on first
// join. Joining a room the connection is already a member of is a no-op.
// Joining a different room implicitly leaves the previous one, so a
// connection is never listed in a room it can no longer be reached through.
func (s *State) Join(roomID string, id core.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.conns[id]; ok && prev != "" && prev != roomID {
		s.removeMember(prev, id)
	}
	s.conns[id] = roomID

	members, ok := s.rooms[roomID]
	if !ok {
		members = make(map[core.ConnectionID]struct{})
		s.rooms[roomID] = members
	}
	members[id] = struct{}{}
}

// Leave removes the connection from the room. The room entry is deleted
// when its last member leaves, so an empty room is indistinguishable from
// one that never existed.
func (s *State) Leave(roomID string, id core.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.conns[id]; ok && current == roomID {
		s.conns[id] = ""
	}
	s.removeMember(roomID, id)
}

// removeMember expects the write lock to be held.
func (s *State) removeMember(roomID string, id core.ConnectionID) {
	members, ok := s.rooms[roomID]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(s.rooms, roomID)
	}
}

// Members returns the room's member ids in stable order.
func (s *State) Members(roomID string) []core.ConnectionID {
	return s.MembersExcept(roomID, "")
}

// MembersExcept returns the room's member ids minus exceptID, in stable
// order. A missing room yields an empty slice.
func (s *State) MembersExcept(roomID string, exceptID core.ConnectionID) []core.ConnectionID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members, ok := s.rooms[roomID]
	if !ok {
		return nil
	}

	ids := make([]core.ConnectionID, 0, len(members))
	for id := range members {
		if id == exceptID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Counts returns a snapshot of room ids to member counts.
func (s *State) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.rooms))
	for roomID, members := range s.rooms {
		counts[roomID] = len(members)
	}
	return counts
}

// Connections reports the number of registered connections.
func (s *State) Connections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.conns)
}
