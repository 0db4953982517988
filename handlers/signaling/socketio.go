package signaling

import (
	"time"

	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"

	"webinar-relay/core"
)

// serverTransport delivers relay messages through the socket.io adapter.
// Direct sends address the per-socket-id room every socket is auto-joined
// to; emitting to a room nobody is in is a no-op, which gives the relay its
// silent-drop semantics for stale targets.
type serverTransport struct {
	srv *socketio.Server
}

func (t *serverTransport) Send(target core.ConnectionID, event string, args ...any) {
	_ = t.srv.To(socketio.Room(target)).Emit(event, args...)
}

func (t *serverTransport) Broadcast(roomID string, except core.ConnectionID, event string, args ...any) {
	_ = t.srv.To(socketio.Room(roomID)).Except(socketio.Room(except)).Emit(event, args...)
}

// SetupSocketIO builds the socket.io server and binds the signaling events
// to a relay over the given state. Room membership at the adapter level is
// kept in sync with the directory so room broadcasts reach exactly the
// current members.
func SetupSocketIO(state *State, rooms core.RoomStore) *socketio.Server {
	opts := socketio.DefaultServerOptions()
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	opts.SetMaxHttpBufferSize(1e8)
	opts.SetPingTimeout(60 * time.Second)
	opts.SetPingInterval(25 * time.Second)
	// Anyone may host or join; access control is the deployment's problem.
	opts.SetCors(&types.Cors{
		Origin: "*",
	})

	srv := socketio.NewServer(nil, opts)
	relay := NewRelay(state, &serverTransport{srv: srv}, rooms)

	//nolint:errcheck // socket.io event handlers do not return useful errors
	srv.On("connection", func(clients ...any) {
		socket, ok := clients[0].(*socketio.Socket)
		if !ok {
			return
		}

		me := core.ConnectionID(socket.Id())
		relay.HandleConnect(me)

		socket.On("create-room", func(datas ...any) {
			syncSocketRoom(socket, datas)
			relay.HandleCreateRoom(me, datas)
		})

		socket.On("join-room", func(datas ...any) {
			syncSocketRoom(socket, datas)
			relay.HandleJoinRoom(me, datas)
		})

		socket.On("offer", func(datas ...any) {
			relay.HandleOffer(me, datas)
		})

		socket.On("answer", func(datas ...any) {
			relay.HandleAnswer(me, datas)
		})

		socket.On("ice-candidate", func(datas ...any) {
			relay.HandleICECandidate(me, datas)
		})

		// "disconnecting" fires while the socket is still in its rooms, so
		// the departure broadcast can still reach the remaining members.
		socket.On("disconnecting", func(datas ...any) {
			relay.HandleDisconnect(me)
		})

		socket.On("disconnect", func(datas ...any) {
			socket.RemoveAllListeners("")
		})
	})

	return srv
}

// syncSocketRoom mirrors the directory's one-room-per-connection policy at
// the adapter: joining a room leaves any previously joined one. The socket's
// own-id room is left alone, it is the direct-send address.
func syncSocketRoom(socket *socketio.Socket, datas []any) {
	roomID, ok := stringArg(datas, 0)
	if !ok || roomID == "" {
		return
	}

	own := socketio.Room(socket.Id())
	next := socketio.Room(roomID)
	for _, current := range socket.Rooms().Keys() {
		if current == own || current == next {
			continue
		}
		socket.Leave(current)
	}
	socket.Join(next)
}
