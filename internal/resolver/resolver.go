// Package resolver extracts canonical playlist and video identifiers
// from free-form reference strings. Pure functions, no I/O.
package resolver

import (
	"errors"
	"regexp"
)

var (
	// ErrNoPlaylistID is returned when a reference carries no playlist marker.
	ErrNoPlaylistID = errors.New("no playlist id in reference")

	// ErrNoVideoID is returned when a reference carries no video marker.
	ErrNoVideoID = errors.New("no video id in reference")
)

var (
	playlistIDPattern = regexp.MustCompile(`[&?]list=([a-zA-Z0-9_-]+)`)
	videoIDPattern    = regexp.MustCompile(`[&?]v=([a-zA-Z0-9_-]+)`)
)

// PlaylistID extracts the playlist identifier following the "list="
// query marker, up to the next delimiter or end of string.
func PlaylistID(reference string) (string, error) {
	m := playlistIDPattern.FindStringSubmatch(reference)
	if m == nil {
		return "", ErrNoPlaylistID
	}
	return m[1], nil
}

// VideoID extracts the video identifier following the "v=" query marker.
func VideoID(reference string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(reference)
	if m == nil {
		return "", ErrNoVideoID
	}
	return m[1], nil
}
