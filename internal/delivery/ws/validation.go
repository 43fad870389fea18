package ws

import "regexp"

// youtubeVideoIDRegex matches valid YouTube video IDs (11 characters, alphanumeric + - and _)
var youtubeVideoIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// IsValidYouTubeVideoID validates a YouTube video ID format
func IsValidYouTubeVideoID(videoID string) bool {
	if videoID == "" {
		return false
	}
	return youtubeVideoIDRegex.MatchString(videoID)
}
