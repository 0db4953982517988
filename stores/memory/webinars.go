package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"webinar-relay/core"
)

type webinarStore struct {
	mu       sync.RWMutex
	webinars map[string]core.Webinar
	rooms    map[string]int64
}

func NewWebinarStore() core.WebinarStore {
	return &webinarStore{
		webinars: make(map[string]core.Webinar),
		rooms:    make(map[string]int64),
	}
}

func (s *webinarStore) FindID(ctx context.Context, id string) (*core.Webinar, error) {
	log := logrus.WithField("webinar_id", id)

	s.mu.RLock()
	webinar, ok := s.webinars[id]
	s.mu.RUnlock()

	if ok {
		log.Debug("Webinar retrieved successfully")
		return &webinar, nil
	}

	log.WithField("error", "webinar not found").Warn("Webinar with specified ID not found")
	return nil, fmt.Errorf("webinar with id %s not found", id)
}

func (s *webinarStore) Create(ctx context.Context, webinar *core.Webinar) (string, error) {
	id := ulid.Make().String()
	webinar.ID = id

	s.mu.Lock()
	s.webinars[id] = *webinar
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"webinar_id": id,
		"room_id":    webinar.RoomID,
	}).Info("Webinar created successfully")

	return id, nil
}

func (s *webinarStore) TouchRoom(ctx context.Context, roomID string) error {
	if roomID == "" {
		return fmt.Errorf("room id is required")
	}

	s.mu.Lock()
	s.rooms[roomID] = time.Now().UnixMilli()
	s.mu.Unlock()

	return nil
}

func (s *webinarStore) ListRooms(ctx context.Context) ([]core.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]core.Room, 0, len(s.rooms))
	for id, last := range s.rooms {
		rooms = append(rooms, core.Room{ID: id, LastActive: last})
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].LastActive == rooms[j].LastActive {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].LastActive > rooms[j].LastActive
	})

	return rooms, nil
}

func (s *webinarStore) DeleteRoom(ctx context.Context, roomID string) error {
	if roomID == "" {
		return fmt.Errorf("room id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, roomID)
	return nil
}
