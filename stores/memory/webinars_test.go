package memory

import (
	"context"
	"testing"

	"webinar-relay/core"
)

func TestNewWebinarStore(t *testing.T) {
	store := NewWebinarStore()
	if store == nil {
		t.Fatal("NewWebinarStore() returned nil")
	}
}

func TestCreate_Success(t *testing.T) {
	store := NewWebinarStore()
	ctx := context.Background()

	webinar := &core.Webinar{RoomID: "abc12", Title: "Alumni talk", CreatedAt: 1234567890}

	id, err := store.Create(ctx, webinar)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if id == "" {
		t.Error("Create() returned empty ID")
	}

	// Verify the ID is a valid ULID format (26 characters)
	if len(id) != 26 {
		t.Errorf("Create() returned invalid ID length: got %d, want 26", len(id))
	}
}

func TestFindID_Success(t *testing.T) {
	store := NewWebinarStore()
	ctx := context.Background()

	id, err := store.Create(ctx, &core.Webinar{RoomID: "abc12", Title: "Alumni talk"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := store.FindID(ctx, id)
	if err != nil {
		t.Fatalf("FindID() failed: %v", err)
	}
	if retrieved.RoomID != "abc12" || retrieved.Title != "Alumni talk" {
		t.Errorf("FindID() = %+v, want room abc12 and title Alumni talk", retrieved)
	}
	if retrieved.ID != id {
		t.Errorf("FindID() ID mismatch: got %q, want %q", retrieved.ID, id)
	}
}

func TestFindID_NotFound(t *testing.T) {
	store := NewWebinarStore()
	ctx := context.Background()

	_, err := store.FindID(ctx, "nonexistent-id")
	if err == nil {
		t.Error("FindID() should return error for nonexistent ID")
	}

	expectedError := "webinar with id nonexistent-id not found"
	if err.Error() != expectedError {
		t.Errorf("FindID() error mismatch: got %q, want %q", err.Error(), expectedError)
	}
}

func TestTouchAndListRooms(t *testing.T) {
	store := NewWebinarStore().(*webinarStore)
	ctx := context.Background()

	if err := store.TouchRoom(ctx, "room-a"); err != nil {
		t.Fatalf("TouchRoom() failed: %v", err)
	}
	if err := store.TouchRoom(ctx, "room-b"); err != nil {
		t.Fatalf("TouchRoom() failed: %v", err)
	}

	rooms, err := store.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms() failed: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("ListRooms() returned %d rooms, want 2", len(rooms))
	}
	for _, room := range rooms {
		if room.LastActive == 0 {
			t.Errorf("room %s has no last-active timestamp", room.ID)
		}
	}
}

func TestTouchRoom_EmptyID(t *testing.T) {
	store := NewWebinarStore().(*webinarStore)

	if err := store.TouchRoom(context.Background(), ""); err == nil {
		t.Error("TouchRoom() should reject an empty room id")
	}
}

func TestDeleteRoom(t *testing.T) {
	store := NewWebinarStore().(*webinarStore)
	ctx := context.Background()

	if err := store.TouchRoom(ctx, "room-a"); err != nil {
		t.Fatalf("TouchRoom() failed: %v", err)
	}
	if err := store.DeleteRoom(ctx, "room-a"); err != nil {
		t.Fatalf("DeleteRoom() failed: %v", err)
	}

	rooms, err := store.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms() failed: %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("ListRooms() after delete = %v, want empty", rooms)
	}
}
