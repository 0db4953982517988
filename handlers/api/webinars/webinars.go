package webinars

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"webinar-relay/core"
	"webinar-relay/handlers/pages"
)

type (
	CreateWebinarRequest struct {
		Title string `json:"title"`
		Room  string `json:"room"`
	}

	CreateWebinarResponse struct {
		ID   string `json:"id"`
		Room string `json:"room"`
	}
)

// HandleCreate registers a webinar and returns its id together with the
// room token viewers will join. A caller-supplied room is kept verbatim;
// otherwise a fresh token is generated.
func HandleCreate(store core.WebinarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateWebinarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logrus.WithError(err).Error("failed to decode webinar request")
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		roomID := req.Room
		if roomID == "" {
			roomID = pages.NewRoomToken()
		}

		webinar := &core.Webinar{
			RoomID:    roomID,
			Title:     req.Title,
			CreatedAt: time.Now().UnixMilli(),
		}
		id, err := store.Create(r.Context(), webinar)
		if err != nil {
			logrus.WithError(err).Error("failed to create webinar")
			http.Error(w, "Failed to create webinar", http.StatusInternalServerError)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, CreateWebinarResponse{ID: id, Room: roomID})
	}
}

// HandleGet returns the stored webinar by id.
func HandleGet(store core.WebinarStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		webinar, err := store.FindID(r.Context(), id)
		if err != nil {
			logrus.WithError(err).WithField("webinar_id", id).Warn("webinar not found")
			http.Error(w, "Webinar not found", http.StatusNotFound)
			return
		}

		render.JSON(w, r, webinar)
	}
}
