package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStorage implements the Storage interface for the local filesystem.
type LocalStorage struct {
	musicDir string
	tempDir  string
}

// NewLocalStorage creates a local storage instance rooted at musicDir.
func NewLocalStorage(musicDir string) (*LocalStorage, error) {
	tempDir, err := os.MkdirTemp("", "playlist-archiver-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	if err := os.MkdirAll(musicDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create music directory %s: %w", musicDir, err)
	}

	return &LocalStorage{
		musicDir: musicDir,
		tempDir:  tempDir,
	}, nil
}

// PlaylistDir returns the output directory for a playlist's tracks.
func (s *LocalStorage) PlaylistDir(playlistTitle string) string {
	return filepath.Join(s.musicDir, playlistTitle)
}

// TrackPath returns the final path for one track.
func (s *LocalStorage) TrackPath(playlistTitle, trackName, ext string) string {
	return filepath.Join(s.PlaylistDir(playlistTitle), fmt.Sprintf("%s.%s", trackName, ext))
}

// ArchivePath returns the path for the playlist's archive, next to the
// playlist directory.
func (s *LocalStorage) ArchivePath(playlistTitle, ext string) string {
	return filepath.Join(s.musicDir, fmt.Sprintf("%s.%s", playlistTitle, ext))
}

// EnsurePlaylistDir creates the playlist's output directory.
func (s *LocalStorage) EnsurePlaylistDir(playlistTitle string) error {
	return os.MkdirAll(s.PlaylistDir(playlistTitle), os.ModePerm)
}

// TempDir returns the scratch directory for raw downloads.
func (s *LocalStorage) TempDir() string {
	return s.tempDir
}

// FileExists checks if a file exists
func (s *LocalStorage) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Publish is a no-op for local storage; the archive already sits at
// its durable location.
func (s *LocalStorage) Publish(_ context.Context, archivePath string) (string, error) {
	return archivePath, nil
}

// Cleanup removes the scratch directory.
func (s *LocalStorage) Cleanup() error {
	if err := os.RemoveAll(s.tempDir); err != nil {
		return fmt.Errorf("failed to remove temp directory: %w", err)
	}
	return nil
}
