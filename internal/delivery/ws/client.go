package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/framesync/framesync/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Client represents a single websocket connection and its session
// attributes. The attributes below ID are populated on joinRoom and are
// guarded by the hub's mutex.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	Name     string
	RoomCode string
	IsHost   bool
	UserID   string
	Avatar   string
	JoinedAt time.Time
}

// NewClient creates a new Client with a transport-assigned connection id
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New().String(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ReadPump pumps events from the websocket connection into the hub.
// Handlers run to completion in arrival order for this connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var env domain.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.hub.log.Debug().Err(err).Str("conn_id", c.ID).Msg("dropping malformed frame")
			continue
		}

		c.dispatch(env)
	}
}

// dispatch routes one inbound event to its hub handler. Unknown event types
// are ignored rather than rejected.
func (c *Client) dispatch(env domain.Envelope) {
	switch env.Type {
	case domain.EventJoinRoom:
		var p domain.JoinRoomPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleJoinRoom(c, p)
		}

	case domain.EventCreateRoom:
		var p domain.CreateRoomPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleCreateRoom(c, p)
		}

	case domain.EventLeaveRoom:
		var p domain.RoomCodePayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleLeaveRoom(c, p.RoomCode)
		}

	case domain.EventGetPublicRooms:
		c.hub.HandleGetPublicRooms(c)

	case domain.EventUpdateStatus:
		var p domain.UpdateStatusPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleUpdateStatus(c, p)
		}

	case domain.EventLoadVideo:
		var p domain.LoadVideoPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleLoadVideo(c, p)
		}

	case domain.EventLoadFile:
		var p domain.LoadFilePayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleLoadFile(c, p)
		}

	case domain.EventStartScreenShare:
		var p domain.ScreenSharePayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleStartScreenShare(c, p)
		}

	case domain.EventStopScreenShare:
		var p domain.ScreenSharePayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleStopScreenShare(c, p)
		}

	case domain.EventVideoState:
		c.hub.HandleVideoState(c, env.Payload)

	case domain.EventChatMessage:
		var p domain.ChatMessagePayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleChatMessage(c, p)
		}

	case domain.EventReaction:
		var p domain.ReactionPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleReaction(c, p)
		}

	case domain.EventJoinVideo:
		var p domain.RoomCodePayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleJoinVideo(c, p.RoomCode)
		}

	case domain.EventLeaveVideo:
		var p domain.RoomCodePayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.hub.HandleLeaveVideo(c, p.RoomCode)
		}

	case domain.EventOffer, domain.EventAnswer, domain.EventIceCandidate:
		c.hub.RelaySignal(env.Type, env.Payload)
	}
}

// WritePump pumps messages from the hub to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue adds a message to the client's send queue, dropping it when the
// buffer is full rather than blocking the hub
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}
