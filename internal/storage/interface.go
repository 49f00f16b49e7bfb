// Package storage handles file layout and persistence for processed
// playlists and their archives.
package storage

import "context"

// Storage defines where a run's output files live and how the final
// archive is published.
type Storage interface {
	// PlaylistDir returns the output directory for a playlist's tracks.
	PlaylistDir(playlistTitle string) string

	// TrackPath returns the final path for one track inside the
	// playlist's output directory.
	TrackPath(playlistTitle, trackName, ext string) string

	// ArchivePath returns the path the run's archive is written to.
	ArchivePath(playlistTitle, ext string) string

	// EnsurePlaylistDir creates the playlist's output directory.
	EnsurePlaylistDir(playlistTitle string) error

	// TempDir returns a scratch directory for raw downloads and cover art.
	TempDir() string

	// FileExists reports whether a file exists at path.
	FileExists(path string) bool

	// Publish makes the finished archive available at its durable
	// location and returns that location.
	Publish(ctx context.Context, archivePath string) (string, error)

	// Cleanup removes the scratch directory.
	Cleanup() error
}
