package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	socketio "github.com/zishang520/socket.io/v2/socket"

	"webinar-relay/core"
	"webinar-relay/handlers/api/webinars"
	"webinar-relay/handlers/pages"
	"webinar-relay/handlers/signaling"
	"webinar-relay/stores"
)

type roomInfo struct {
	ID         string `json:"id"`
	Users      int    `json:"users"`
	LastActive *int64 `json:"lastActive,omitempty"`
}

func setupRouter(state *signaling.State, webinarStore core.WebinarStore, roomStore core.RoomStore) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	// Hosts and viewers connect from anywhere; access control is a non-goal.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/", pages.Handle("index", false))
	r.Get("/alumni/host", pages.Handle("alumni-host", true))
	r.Get("/student/view", pages.Handle("student-view", false))
	// Legacy routes kept for old webinar links.
	r.Get("/host", pages.Handle("host", false))
	r.Get("/view", pages.Handle("view", false))

	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir("public"))))

	r.Route("/api/webinars", func(r chi.Router) {
		r.Post("/", webinars.HandleCreate(webinarStore))
		r.Get("/{id}", webinars.HandleGet(webinarStore))
	})

	r.Get("/api/rooms", handleListRooms(state, roomStore))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handleListRooms merges live member counts from the relay state with the
// last-active timestamps the store remembers.
func handleListRooms(state *signaling.State, roomStore core.RoomStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomMap := make(map[string]*roomInfo)
		for id, count := range state.Counts() {
			roomMap[id] = &roomInfo{ID: id, Users: count}
		}

		if roomStore != nil {
			if storedRooms, err := roomStore.ListRooms(r.Context()); err != nil {
				logrus.WithError(err).Warn("failed to list rooms from store")
			} else {
				for _, room := range storedRooms {
					entry, exists := roomMap[room.ID]
					if !exists {
						entry = &roomInfo{ID: room.ID}
						roomMap[room.ID] = entry
					}
					if room.LastActive > 0 {
						lastActive := room.LastActive
						entry.LastActive = &lastActive
					}
				}
			}
		}

		roomList := make([]roomInfo, 0, len(roomMap))
		for _, entry := range roomMap {
			roomList = append(roomList, *entry)
		}

		sort.Slice(roomList, func(i, j int) bool {
			if roomList[i].Users == roomList[j].Users {
				li := int64(0)
				if roomList[i].LastActive != nil {
					li = *roomList[i].LastActive
				}
				lj := int64(0)
				if roomList[j].LastActive != nil {
					lj = *roomList[j].LastActive
				}
				if li == lj {
					return roomList[i].ID < roomList[j].ID
				}
				return li > lj
			}
			return roomList[i].Users > roomList[j].Users
		})

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(roomList); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

func waitForShutdown(ioo *socketio.Server) {
	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	logrus.Info("shutting down")
	ioo.Close(nil)
	os.Exit(0)
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found")
	}

	logLevel := flag.String("loglevel", "info", "Set the logging level: debug, info, warn, error, fatal, panic")
	listenAddr := flag.String("listen", ":3000", "Set the server listen address")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	logrus.SetLevel(level)

	webinarStore := stores.GetStore()
	var roomStore core.RoomStore
	if rs, ok := webinarStore.(core.RoomStore); ok {
		roomStore = rs
	}

	state := signaling.NewState()
	ioo := signaling.SetupSocketIO(state, roomStore)

	r := setupRouter(state, webinarStore, roomStore)
	r.Handle("/socket.io/", ioo.ServeHandler(nil))

	logrus.WithField("addr", *listenAddr).Info("starting server")
	go func() {
		if err := http.ListenAndServe(*listenAddr, r); err != nil {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	waitForShutdown(ioo)
}
