// Package playlist expands a playlist identifier into its ordered
// member items using an external metadata source.
package playlist

import (
	"context"
	"errors"

	"github.com/jrossi/playlist-archiver/internal/domain"
)

var (
	// ErrNotFound means the identifier does not resolve upstream.
	ErrNotFound = errors.New("playlist not found")

	// ErrEmptyPlaylist means the playlist resolved but has no members.
	ErrEmptyPlaylist = errors.New("no videos found in playlist")

	// ErrSourceUnavailable means the metadata source could not be reached.
	ErrSourceUnavailable = errors.New("playlist source unavailable")
)

// Expander resolves a playlist identifier into its ordered member
// items plus a display title. The source's ordering is authoritative
// and must be preserved verbatim.
type Expander interface {
	Expand(ctx context.Context, playlistID string) (*domain.Playlist, error)
}
