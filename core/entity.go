package core

import (
	"context"
)

type (
	// ConnectionID identifies one live signaling connection. Ids are
	// allocated by the transport at handshake and are unique for the
	// lifetime of the process.
	ConnectionID string

	Webinar struct {
		ID        string `json:"id"`
		RoomID    string `json:"room_id"`
		Title     string `json:"title"`
		CreatedAt int64  `json:"created_at"`
	}

	WebinarStore interface {
		FindID(ctx context.Context, id string) (*Webinar, error)
		Create(ctx context.Context, webinar *Webinar) (string, error)
	}

	Room struct {
		ID         string
		LastActive int64
	}

	// RoomStore records room activity for the rooms API. It is advisory
	// only; relay routing never reads from it.
	RoomStore interface {
		ListRooms(ctx context.Context) ([]Room, error)
		TouchRoom(ctx context.Context, roomID string) error
		DeleteRoom(ctx context.Context, roomID string) error
	}
)
