package signaling

import (
	"context"

	"github.com/sirupsen/logrus"

	"webinar-relay/core"
	"webinar-relay/metrics"
)

// Transport is the delivery side of the signaling channel. Both operations
// are fire-and-forget: a target or room that no longer exists is a silent
// no-op, which is expected during teardown races.
type Transport interface {
	Send(target core.ConnectionID, event string, args ...any)
	Broadcast(roomID string, except core.ConnectionID, event string, args ...any)
}

// Relay routes signaling events between the members of a room. Payloads are
// opaque; every forwarded event is stamped with the sender's connection id
// so the recipient knows who to reply to. The relay never reports errors
// back over the signaling channel; malformed events are dropped and logged.
type Relay struct {
	state     *State
	transport Transport
	rooms     core.RoomStore
}

// NewRelay wires a relay over the shared state and a transport. The room
// store may be nil; it only feeds the rooms API.
func NewRelay(state *State, transport Transport, rooms core.RoomStore) *Relay {
	return &Relay{state: state, transport: transport, rooms: rooms}
}

func (r *Relay) State() *State {
	return r.state
}

// HandleConnect records a new transport connection.
func (r *Relay) HandleConnect(sender core.ConnectionID) {
	r.state.Register(sender)
	r.syncGauges()
	logrus.WithField("connection_id", sender).Debug("client connected")
}

// HandleCreateRoom joins the sender to the room as its host. The room
// becomes routable immediately; nothing is forwarded because there are no
// viewers yet.
func (r *Relay) HandleCreateRoom(sender core.ConnectionID, datas []any) {
	roomID, ok := stringArg(datas, 0)
	if !ok || roomID == "" {
		r.drop(sender, "create-room", "missing room id")
		return
	}

	r.joinRoom(roomID, sender)
	logrus.WithFields(logrus.Fields{
		"connection_id": sender,
		"room_id":       roomID,
	}).Info("host created room")
}

// HandleJoinRoom joins the sender to the room as a viewer and announces the
// arrival to every other member.
func (r *Relay) HandleJoinRoom(sender core.ConnectionID, datas []any) {
	roomID, ok := stringArg(datas, 0)
	if !ok || roomID == "" {
		r.drop(sender, "join-room", "missing room id")
		return
	}

	r.joinRoom(roomID, sender)
	logrus.WithFields(logrus.Fields{
		"connection_id": sender,
		"room_id":       roomID,
	}).Info("viewer joined room")

	r.transport.Broadcast(roomID, sender, "viewer-joined", string(sender))
	metrics.RelayedEvents.WithLabelValues("viewer-joined").Inc()
}

// HandleOffer forwards a session description. A present target id addresses
// one peer; otherwise the offer goes to every other room member.
func (r *Relay) HandleOffer(sender core.ConnectionID, datas []any) {
	if len(datas) == 0 {
		r.drop(sender, "offer", "missing payload")
		return
	}
	sdp := datas[0]
	roomID, _ := stringArg(datas, 1)
	targetID, _ := stringArg(datas, 2)

	switch {
	case targetID != "":
		r.transport.Send(core.ConnectionID(targetID), "offer", sdp, string(sender))
	case roomID != "":
		r.transport.Broadcast(roomID, sender, "offer", sdp, string(sender))
	default:
		r.drop(sender, "offer", "missing room id and target id")
		return
	}
	metrics.RelayedEvents.WithLabelValues("offer").Inc()
}

// HandleAnswer forwards a session description reply to one peer.
func (r *Relay) HandleAnswer(sender core.ConnectionID, datas []any) {
	if len(datas) == 0 {
		r.drop(sender, "answer", "missing payload")
		return
	}
	targetID, _ := stringArg(datas, 1)
	if targetID == "" {
		r.drop(sender, "answer", "missing target id")
		return
	}

	r.transport.Send(core.ConnectionID(targetID), "answer", datas[0], string(sender))
	metrics.RelayedEvents.WithLabelValues("answer").Inc()
}

// HandleICECandidate forwards a connectivity candidate to one peer.
// Candidates are only useful to the peer the negotiation is with, so there
// is no room-wide form.
func (r *Relay) HandleICECandidate(sender core.ConnectionID, datas []any) {
	if len(datas) == 0 {
		r.drop(sender, "ice-candidate", "missing payload")
		return
	}
	targetID, _ := stringArg(datas, 1)
	if targetID == "" {
		r.drop(sender, "ice-candidate", "missing target id")
		return
	}

	r.transport.Send(core.ConnectionID(targetID), "ice-candidate", datas[0], string(sender))
	metrics.RelayedEvents.WithLabelValues("ice-candidate").Inc()
}

// HandleDisconnect tears the connection down: remaining room members learn
// the peer is gone, then the registry and directory entries are removed.
// Teardown is unconditional; there is nothing to retry.
func (r *Relay) HandleDisconnect(sender core.ConnectionID) {
	roomID, inRoom := r.state.RoomOf(sender)
	if inRoom {
		r.transport.Broadcast(roomID, sender, "user-disconnected", string(sender))
		metrics.RelayedEvents.WithLabelValues("user-disconnected").Inc()
	}

	r.state.Unregister(sender)
	r.syncGauges()

	if inRoom {
		logrus.WithFields(logrus.Fields{
			"connection_id": sender,
			"room_id":       roomID,
		}).Info("client left room")
		if len(r.state.Members(roomID)) == 0 {
			r.deleteRoomEntry(roomID)
		}
	}
	logrus.WithField("connection_id", sender).Debug("client disconnected")
}

func (r *Relay) joinRoom(roomID string, sender core.ConnectionID) {
	prev, hadRoom := r.state.RoomOf(sender)
	r.state.Join(roomID, sender)
	r.syncGauges()

	if hadRoom && prev != roomID && len(r.state.Members(prev)) == 0 {
		r.deleteRoomEntry(prev)
	}

	if r.rooms != nil {
		if err := r.rooms.TouchRoom(context.Background(), roomID); err != nil {
			logrus.WithError(err).WithField("room_id", roomID).Warn("failed to record room activity")
		}
	}
}

func (r *Relay) deleteRoomEntry(roomID string) {
	if r.rooms == nil {
		return
	}
	if err := r.rooms.DeleteRoom(context.Background(), roomID); err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Warn("failed to delete room activity")
	}
}

func (r *Relay) drop(sender core.ConnectionID, event, reason string) {
	metrics.DroppedEvents.Inc()
	logrus.WithFields(logrus.Fields{
		"connection_id": sender,
		"event":         event,
		"reason":        reason,
	}).Warn("dropped malformed signaling event")
}

func (r *Relay) syncGauges() {
	metrics.ConnectedClients.Set(float64(r.state.Connections()))
	metrics.ActiveRooms.Set(float64(len(r.state.Counts())))
}

func stringArg(datas []any, i int) (string, bool) {
	if i >= len(datas) {
		return "", false
	}
	s, ok := datas[i].(string)
	return s, ok
}
