package domain

import "encoding/json"

// EventType defines the type of event being sent over the wire
type EventType string

const (
	// Room lifecycle
	EventJoinRoom    EventType = "joinRoom"
	EventCreateRoom  EventType = "createRoom"
	EventLeaveRoom   EventType = "leaveRoom"
	EventRoomCreated EventType = "roomCreated" // ack for createRoom
	EventRoomEnded   EventType = "roomEnded"
	EventUpdateUsers EventType = "updateUsers"

	// Discovery
	EventGetPublicRooms  EventType = "getPublicRooms"
	EventPublicRoomsList EventType = "publicRoomsList"

	// Playback sync
	EventLoadVideo         EventType = "loadVideo"
	EventLoadFile          EventType = "loadFile"
	EventVideoState        EventType = "videoState"
	EventRoomInitialSync   EventType = "roomInitialSync"
	EventRequestVideoState EventType = "requestVideoState" // drift pulse, server -> host
	EventStartScreenShare  EventType = "startScreenShare"
	EventStopScreenShare   EventType = "stopScreenShare"

	// Chat and presence
	EventChatMessage   EventType = "chatMessage"
	EventReaction      EventType = "reaction"
	EventUpdateStatus  EventType = "updateStatus"
	EventStatusUpdated EventType = "statusUpdated" // ack for updateStatus
	EventAuthError     EventType = "authError"

	// Social
	EventFriendRequestAccepted EventType = "friendRequestAccepted"

	// WebRTC signaling (relayed verbatim)
	EventJoinVideo             EventType = "join-video"
	EventLeaveVideo            EventType = "leave-video"
	EventOffer                 EventType = "offer"
	EventAnswer                EventType = "answer"
	EventIceCandidate          EventType = "ice-candidate"
	EventUserConnectedVideo    EventType = "user-connected-video"
	EventUserDisconnectedVideo EventType = "user-disconnected-video"
)

// Envelope is the wire frame for every event in both directions
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent marshals an outbound event into its wire form
func NewEvent(t EventType, payload interface{}) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(Envelope{Type: t, Payload: raw})
}
