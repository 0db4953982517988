package sqlite

import (
	"context"
	"fmt"
	"time"

	"database/sql"
	stdlog "log"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"webinar-relay/core"
)

type webinarStore struct {
	db *sql.DB
}

func NewWebinarStore(dataSourceName string) core.WebinarStore {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		stdlog.Fatal(err)
	}

	webinarsTable := `CREATE TABLE IF NOT EXISTS webinars (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL,
		title TEXT,
		created_at INTEGER NOT NULL
	);`
	_, err = db.Exec(webinarsTable)
	if err != nil {
		stdlog.Fatal(err)
	}

	roomsTable := `CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		last_active INTEGER NOT NULL
	);`
	_, err = db.Exec(roomsTable)
	if err != nil {
		stdlog.Fatal(err)
	}

	return &webinarStore{db}
}

func (s *webinarStore) FindID(ctx context.Context, id string) (*core.Webinar, error) {
	log := logrus.WithField("webinar_id", id)
	log.Debug("Retrieving webinar by ID")

	webinar := core.Webinar{ID: id}
	err := s.db.QueryRowContext(ctx,
		"SELECT room_id, title, created_at FROM webinars WHERE id = ?", id,
	).Scan(&webinar.RoomID, &webinar.Title, &webinar.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			log.WithField("error", "webinar not found").Warn("Webinar with specified ID not found")
			return nil, fmt.Errorf("webinar with id %s not found", id)
		}
		log.WithField("error", err).Error("Failed to retrieve webinar")
		return nil, err
	}
	return &webinar, nil
}

func (s *webinarStore) Create(ctx context.Context, webinar *core.Webinar) (string, error) {
	id := ulid.Make().String()
	webinar.ID = id
	log := logrus.WithFields(logrus.Fields{
		"webinar_id": id,
		"room_id":    webinar.RoomID,
	})

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO webinars (id, room_id, title, created_at) VALUES (?, ?, ?, ?)",
		id, webinar.RoomID, webinar.Title, webinar.CreatedAt)
	if err != nil {
		log.WithField("error", err).Error("Failed to create webinar")
		return "", err
	}
	log.Info("Webinar created successfully")
	return id, nil
}

func (s *webinarStore) TouchRoom(ctx context.Context, roomID string) error {
	if roomID == "" {
		return fmt.Errorf("room id is required")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, last_active) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET last_active = excluded.last_active`,
		roomID, time.Now().UnixMilli())
	return err
}

func (s *webinarStore) ListRooms(ctx context.Context) ([]core.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, last_active FROM rooms ORDER BY last_active DESC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []core.Room
	for rows.Next() {
		var room core.Room
		if err := rows.Scan(&room.ID, &room.LastActive); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *webinarStore) DeleteRoom(ctx context.Context, roomID string) error {
	if roomID == "" {
		return fmt.Errorf("room id is required")
	}

	_, err := s.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", roomID)
	return err
}
