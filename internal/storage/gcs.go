package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage stages a run's files locally and publishes the finished
// archive to a Google Cloud Storage bucket.
type GCSStorage struct {
	client       *storage.Client
	bucket       string
	objectPrefix string
	local        *LocalStorage
}

// NewGCSStorage creates a GCS-backed storage instance. Local staging
// happens under stagingDir.
func NewGCSStorage(ctx context.Context, bucketName, objectPrefix, stagingDir, credentialsFile string) (*GCSStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		// Use application default credentials
		client, err = storage.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	local, err := NewLocalStorage(stagingDir)
	if err != nil {
		return nil, err
	}

	return &GCSStorage{
		client:       client,
		bucket:       bucketName,
		objectPrefix: objectPrefix,
		local:        local,
	}, nil
}

// PlaylistDir returns the local staging directory for a playlist's tracks.
func (s *GCSStorage) PlaylistDir(playlistTitle string) string {
	return s.local.PlaylistDir(playlistTitle)
}

// TrackPath returns the local staging path for one track.
func (s *GCSStorage) TrackPath(playlistTitle, trackName, ext string) string {
	return s.local.TrackPath(playlistTitle, trackName, ext)
}

// ArchivePath returns the local staging path for the archive.
func (s *GCSStorage) ArchivePath(playlistTitle, ext string) string {
	return s.local.ArchivePath(playlistTitle, ext)
}

// EnsurePlaylistDir creates the staging directory for a playlist.
func (s *GCSStorage) EnsurePlaylistDir(playlistTitle string) error {
	return s.local.EnsurePlaylistDir(playlistTitle)
}

// TempDir returns the scratch directory for raw downloads.
func (s *GCSStorage) TempDir() string {
	return s.local.TempDir()
}

// FileExists checks if a staged file exists.
func (s *GCSStorage) FileExists(path string) bool {
	return s.local.FileExists(path)
}

// Publish uploads the archive to the configured bucket and returns the
// object's gs:// location.
func (s *GCSStorage) Publish(ctx context.Context, archivePath string) (string, error) {
	objectName := filepath.Base(archivePath)
	if s.objectPrefix != "" {
		objectName = s.objectPrefix + "/" + objectName
	}

	file, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive for upload: %w", err)
	}
	defer file.Close()

	writer := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = "application/zip"

	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize archive upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// Cleanup removes the local staging directory.
func (s *GCSStorage) Cleanup() error {
	return s.local.Cleanup()
}
