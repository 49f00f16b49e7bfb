// Package archive packages an output directory into a single
// compressed file.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Archiver compresses a directory tree into a single archive file.
type Archiver interface {
	Archive(ctx context.Context, sourceDir, archivePath string) error
}

// ZipArchiver writes deflate-compressed zip archives. The archive
// contains the source directory itself as its top-level entry.
type ZipArchiver struct{}

// NewZipArchiver creates a new zip archiver.
func NewZipArchiver() *ZipArchiver {
	return &ZipArchiver{}
}

// Archive compresses sourceDir into archivePath. The archive is
// written to a temporary path and renamed into place; a failure never
// leaves a partial archive under the final name.
func (a *ZipArchiver) Archive(ctx context.Context, sourceDir, archivePath string) error {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to access source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source is not a directory: %s", sourceDir)
	}

	tempPath := archivePath + ".part"
	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer os.Remove(tempPath)

	zw := zip.NewWriter(out)
	root := filepath.Base(sourceDir)

	walkErr := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		entry, err := zw.Create(filepath.ToSlash(filepath.Join(root, rel)))
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(entry, file)
		return err
	})

	if walkErr != nil {
		zw.Close()
		out.Close()
		return fmt.Errorf("failed to archive %s: %w", sourceDir, walkErr)
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}

	if err := os.Rename(tempPath, archivePath); err != nil {
		return fmt.Errorf("failed to move archive into place: %w", err)
	}

	return nil
}
