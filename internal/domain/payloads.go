package domain

// Payload field names are camelCase: they mirror the protocol the browser
// client already speaks.

// JoinRoomPayload is sent by a client entering a room
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	UserName string `json:"userName"`
	IsHost   bool   `json:"isHost"`
	Token    string `json:"token,omitempty"`
	Email    string `json:"email,omitempty"`
}

// CreateRoomPayload registers a room, optionally in the public directory
type CreateRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Type     string `json:"type"` // "public" or "private"
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	UserName string `json:"userName"`
	Token    string `json:"token,omitempty"`
	Email    string `json:"email,omitempty"`
}

// RoomCreatedPayload acknowledges a createRoom to its issuer
type RoomCreatedPayload struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode"`
}

// RoomCodePayload addresses an event at a room (leaveRoom, join-video,
// leave-video)
type RoomCodePayload struct {
	RoomCode string `json:"roomCode"`
}

// RoomUser is one entry of an updateUsers broadcast
type RoomUser struct {
	Name     string `json:"name"`
	IsHost   bool   `json:"isHost"`
	UserID   string `json:"userId,omitempty"`
	SocketID string `json:"socketId"`
	Avatar   string `json:"avatar,omitempty"`
}

// RoomListing is one entry of the public room directory
type RoomListing struct {
	RoomCode string `json:"roomCode"`
	Title    string `json:"title"`
	Host     string `json:"host"`
	Users    int    `json:"users"`
	Max      int    `json:"max"`
	Status   string `json:"status"`
}

// LoadVideoPayload loads a YouTube video for a room
type LoadVideoPayload struct {
	RoomCode string `json:"roomCode"`
	VideoID  string `json:"videoId"`
}

// LoadFilePayload loads an uploaded media file for a room
type LoadFilePayload struct {
	RoomCode    string `json:"roomCode"`
	URL         string `json:"url"`
	SubtitleURL string `json:"subtitleUrl,omitempty"`
	Filename    string `json:"filename,omitempty"`
}

// ScreenSharePayload announces the start or end of a screen share
type ScreenSharePayload struct {
	RoomCode string `json:"roomCode"`
	StreamID string `json:"streamId,omitempty"`
}

// ChatMessagePayload carries one chat line
type ChatMessagePayload struct {
	RoomCode string `json:"roomCode,omitempty"`
	Name     string `json:"name,omitempty"`
	Text     string `json:"text"`
}

// ReactionPayload carries one emoji reaction
type ReactionPayload struct {
	RoomCode string `json:"roomCode,omitempty"`
	Emoji    string `json:"emoji"`
}

// UpdateStatusPayload sets a user's presence status
type UpdateStatusPayload struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// StatusUpdatedPayload acknowledges an updateStatus to its issuer
type StatusUpdatedPayload struct {
	Success bool `json:"success"`
}

// FriendAcceptedPayload notifies a user of an auto-accepted friendship
type FriendAcceptedPayload struct {
	UserID   string `json:"userId"`
	FriendID string `json:"friendId"`
}

// AuthErrorPayload carries an explicit auth rejection
type AuthErrorPayload struct {
	Message string `json:"message"`
}

// SignalTarget is the part of a signaling payload the relay reads; the rest
// of the payload is forwarded untouched
type SignalTarget struct {
	Target string `json:"target"`
}

// VideoStateTarget is the part of a videoState pulse the relay reads
type VideoStateTarget struct {
	RoomCode string `json:"roomCode"`
}

// UserConnectedVideoPayload announces a peer joining the video mesh
type UserConnectedVideoPayload struct {
	SocketID string `json:"socketId"`
	Name     string `json:"name"`
}
