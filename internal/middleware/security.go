package middleware

import (
	"net/http"
)

// SecurityHeaders adds security headers to HTTP responses
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Referrer policy
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Content Security Policy: self plus YouTube embeds and blob media
		// for file playback and screen share
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' https://www.youtube.com https://s.ytimg.com; "+
				"img-src 'self' data: https:; "+
				"media-src 'self' https: blob:; "+
				"frame-src https://www.youtube.com https://www.youtube-nocookie.com; "+
				"connect-src 'self' ws: wss:")

		// Camera/microphone stay enabled: the video chat surface needs them
		w.Header().Set("Permissions-Policy", "geolocation=()")

		next.ServeHTTP(w, r)
	})
}
