package pages

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

type pageData struct {
	RoomID    string
	WebinarID string
}

// Handle renders the named page template. Both the room and webinar query
// parameters are passed through verbatim; generateRoom pages fall back to a
// fresh random token when no room was supplied, which is how a host gets a
// shareable room id.
func Handle(name string, generateRoom bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			RoomID:    r.URL.Query().Get("room"),
			WebinarID: r.URL.Query().Get("webinar"),
		}
		if data.RoomID == "" && generateRoom {
			data.RoomID = NewRoomToken()
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.ExecuteTemplate(w, name, data); err != nil {
			logrus.WithError(err).WithField("template", name).Error("failed to render page")
			http.Error(w, "failed to render page", http.StatusInternalServerError)
		}
	}
}
