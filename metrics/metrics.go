package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "webinar_relay",
		Name:      "connected_clients",
		Help:      "Number of currently connected signaling clients.",
	})
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "webinar_relay",
		Name:      "active_rooms",
		Help:      "Number of rooms with at least one member.",
	})
	RelayedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webinar_relay",
		Name:      "relayed_events_total",
		Help:      "Signaling events forwarded to peers, by event name.",
	}, []string{"event"})
	DroppedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "webinar_relay",
		Name:      "dropped_events_total",
		Help:      "Inbound signaling events dropped as malformed.",
	})
)
