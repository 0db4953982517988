package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"webinar-relay/core"
)

func TestMain(m *testing.M) {
	if !CGOEnabled {
		fmt.Println("skipping sqlite store tests: CGO disabled")
		os.Exit(0)
	}

	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *webinarStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewWebinarStore(dbPath).(*webinarStore)
	return store
}

func TestNewWebinarStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewWebinarStore(dbPath)

	if store == nil {
		t.Fatal("NewWebinarStore() returned nil")
	}

	// Verify database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("NewWebinarStore() did not create database file")
	}
}

func TestNewWebinarStore_TablesCreated(t *testing.T) {
	store := setupTestDB(t)

	var tableName string
	err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='webinars'").Scan(&tableName)
	if err != nil {
		t.Fatalf("webinars table not created: %v", err)
	}

	err = store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='rooms'").Scan(&tableName)
	if err != nil {
		t.Fatalf("rooms table not created: %v", err)
	}
}

func TestCreateAndFindWebinar(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	id, err := store.Create(ctx, &core.Webinar{RoomID: "abc12", Title: "Alumni talk", CreatedAt: 1234567890})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if len(id) != 26 {
		t.Errorf("Create() returned invalid ID length: got %d, want 26", len(id))
	}

	retrieved, err := store.FindID(ctx, id)
	if err != nil {
		t.Fatalf("FindID() failed: %v", err)
	}
	if retrieved.RoomID != "abc12" || retrieved.Title != "Alumni talk" || retrieved.CreatedAt != 1234567890 {
		t.Errorf("FindID() = %+v, want the created webinar", retrieved)
	}
}

func TestFindID_NotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.FindID(context.Background(), "nonexistent-id")
	if err == nil {
		t.Error("FindID() should return error for nonexistent ID")
	}
}

func TestTouchRoomUpserts(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	if err := store.TouchRoom(ctx, "room-a"); err != nil {
		t.Fatalf("TouchRoom() failed: %v", err)
	}
	if err := store.TouchRoom(ctx, "room-a"); err != nil {
		t.Fatalf("TouchRoom() second call failed: %v", err)
	}

	rooms, err := store.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms() failed: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != "room-a" {
		t.Errorf("ListRooms() = %v, want a single room-a entry", rooms)
	}
}

func TestDeleteRoom(t *testing.T) {
	store := setupTestDB(t)
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
