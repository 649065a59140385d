package socket

import (
	"log"

	"baequest_server/models"

	socketio "github.com/googollee/go-socket.io"
)

type roomRequest struct {
	GatheringID string `json:"gatheringId"`
	Kind        string `json:"kind"`
}

func (r roomRequest) room() string {
	if r.Kind == models.GatheringKindPlace {
		return models.PlaceRoom(r.GatheringID)
	}
	return models.EventRoom(r.GatheringID)
}

// NewSocketServer initializes and returns a new Socket.IO server. The server
// only manages room membership; what flows through the rooms is decided by
// the broadcaster's callers.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", models.SocketJoinEvent, func(c socketio.Conn, req roomRequest) {
		if req.GatheringID == "" {
			log.Println("❌ Invalid gatheringId in join request")
			return
		}
		c.Join(req.room())
		log.Printf("👥 Socket %s joined room %s", c.ID(), req.room())
	})

	server.OnEvent("/", models.SocketLeaveEvent, func(c socketio.Conn, req roomRequest) {
		if req.GatheringID == "" {
			return
		}
		c.Leave(req.room())
		log.Printf("Socket %s left room %s", c.ID(), req.room())
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}

// RoomBroadcaster adapts the Socket.IO server to the presence broadcaster
// contract. Best-effort delivery to currently-connected subscribers only.
type RoomBroadcaster struct {
	Server *socketio.Server
}

// ToRoom publishes to one gathering's room.
func (b *RoomBroadcaster) ToRoom(room, event string, payload interface{}) {
	b.Server.BroadcastToRoom("/", room, event, payload)
}

// ToAll publishes to every connected client.
func (b *RoomBroadcaster) ToAll(event string, payload interface{}) {
	b.Server.BroadcastToNamespace("/", event, payload)
}
