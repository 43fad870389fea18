package domain

// MediaMode identifies which transport a room's playback uses
type MediaMode string

const (
	MediaModeYouTube MediaMode = "youtube"
	MediaModeFile    MediaMode = "file"
	MediaModeScreen  MediaMode = "screen"
)

// PlaybackState is the last authoritative media load event for a room. It is
// overwritten whole on every host load and never updated by play/pause/seek
// pulses. The JSON field is "type" because that is what the client's
// roomInitialSync handler switches on.
type PlaybackState struct {
	Mode     MediaMode `json:"type"`
	RoomCode string    `json:"roomCode"`

	// youtube
	VideoID string `json:"videoId,omitempty"`

	// file
	URL         string `json:"url,omitempty"`
	SubtitleURL string `json:"subtitleUrl,omitempty"`
	Filename    string `json:"filename,omitempty"`

	// screen
	StreamID string `json:"streamId,omitempty"`
}

// MediaID returns the identity recorded in play history for this state
func (p *PlaybackState) MediaID() string {
	switch p.Mode {
	case MediaModeYouTube:
		return p.VideoID
	case MediaModeFile:
		if p.Filename != "" {
			return p.Filename
		}
		return p.URL
	case MediaModeScreen:
		return p.StreamID
	}
	return ""
}
