// Package pipeline drives one end-to-end playlist archiving run:
// resolve, expand, then negotiate/fetch/transcode every item, and
// package the results into a single archive.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kennygrant/sanitize"

	"github.com/jrossi/playlist-archiver/internal/archive"
	"github.com/jrossi/playlist-archiver/internal/audio"
	"github.com/jrossi/playlist-archiver/internal/domain"
	"github.com/jrossi/playlist-archiver/internal/downloader"
	"github.com/jrossi/playlist-archiver/internal/extractor"
	"github.com/jrossi/playlist-archiver/internal/playlist"
	"github.com/jrossi/playlist-archiver/internal/resolver"
	"github.com/jrossi/playlist-archiver/internal/storage"
)

// ErrInvalidLink is the terminal error for references carrying no
// playlist identifier.
var ErrInvalidLink = errors.New("invalid playlist link")

// State names one phase of a run. A run moves strictly forward:
// Idle -> Resolving -> Expanding -> ProcessingItems -> Archiving ->
// Completed | Failed.
type State string

const (
	StateIdle            State = "idle"
	StateResolving       State = "resolving"
	StateExpanding       State = "expanding"
	StateProcessingItems State = "processing"
	StateArchiving       State = "archiving"
	StateCompleted       State = "completed"
	StateFailed          State = "failed"
)

// ProgressFunc receives batch progress after every item. Calls are
// strictly ordered and completed is monotonically non-decreasing;
// total is fixed at run start.
type ProgressFunc func(completed, total int)

// Result is the terminal state of a successful run.
type Result struct {
	// ArchivePath is the published location of the produced archive.
	ArchivePath string

	PlaylistTitle string
	Total         int
	Archived      int
	Skipped       int
}

// Options carry per-run settings.
type Options struct {
	FileExtension string
	Bitrate       string
	OnProgress    ProgressFunc
}

// Pipeline wires the run's collaborators together. One Pipeline may
// serve many runs; all run state lives on the stack of Run.
type Pipeline struct {
	expander   playlist.Expander
	negotiator extractor.Negotiator
	fetcher    downloader.Fetcher
	transcoder audio.Transcoder
	archiver   archive.Archiver
	store      storage.Storage
}

// New creates a pipeline from its collaborators.
func New(
	expander playlist.Expander,
	negotiator extractor.Negotiator,
	fetcher downloader.Fetcher,
	transcoder audio.Transcoder,
	archiver archive.Archiver,
	store storage.Storage,
) *Pipeline {
	return &Pipeline{
		expander:   expander,
		negotiator: negotiator,
		fetcher:    fetcher,
		transcoder: transcoder,
		archiver:   archiver,
		store:      store,
	}
}

// Run executes one playlist archiving run. Items are processed
// sequentially in source order; per-item failures are logged and
// skipped while all other failures terminate the run. Exactly one of
// (*Result, error) is non-nil.
func (p *Pipeline) Run(ctx context.Context, reference string, opts Options) (*Result, error) {
	if opts.FileExtension == "" {
		opts.FileExtension = "mp3"
	}

	state := StateResolving
	slog.Debug("Run state", "state", state, "reference", reference)

	playlistID, err := resolver.PlaylistID(reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLink, reference)
	}

	state = StateExpanding
	slog.Debug("Run state", "state", state, "playlist", playlistID)

	info, err := p.expander.Expand(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	title := sanitize.BaseName(info.Title)
	if title == "" {
		title = playlistID
	}

	if err := p.store.EnsurePlaylistDir(title); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	state = StateProcessingItems
	total := len(info.Items)
	slog.Info("Processing playlist", "playlist", title, "items", total)

	emit := func(completed int) {
		if opts.OnProgress != nil {
			opts.OnProgress(completed, total)
		}
	}
	emit(0)

	archived := 0
	skipped := 0
	usedNames := make(map[string]string)

	for i, item := range info.Items {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if err := p.processItem(ctx, title, item, usedNames, opts); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			skipped++
			slog.Warn("Skipping item",
				"playlist", title,
				"item", item.Reference,
				"position", i+1,
				"reason", err,
			)
		} else {
			archived++
		}

		// Progress advances on skips too, so accounting stays
		// consistent with the fixed total.
		emit(i + 1)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	state = StateArchiving
	slog.Debug("Run state", "state", state, "playlist", title)

	archivePath := p.store.ArchivePath(title, "zip")
	if err := p.archiver.Archive(ctx, p.store.PlaylistDir(title), archivePath); err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}

	location, err := p.store.Publish(ctx, archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to publish archive: %w", err)
	}

	state = StateCompleted
	slog.Info("Run completed", "state", state, "playlist", title, "archive", location, "archived", archived, "skipped", skipped)

	return &Result{
		ArchivePath:   location,
		PlaylistTitle: title,
		Total:         total,
		Archived:      archived,
		Skipped:       skipped,
	}, nil
}

// processItem handles a single playlist item: negotiate first (the
// final name is only known after metadata arrives), then the
// existence pre-check, then fetch and transcode.
func (p *Pipeline) processItem(ctx context.Context, playlistTitle string, item *domain.Item, usedNames map[string]string, opts Options) error {
	meta, handle, err := p.negotiator.Negotiate(ctx, item.Reference)
	if err != nil {
		return err
	}

	name := p.trackName(meta, usedNames)
	target := p.store.TrackPath(playlistTitle, name, opts.FileExtension)

	if p.store.FileExists(target) {
		slog.Info("Output already exists, skipping fetch", "path", target)
		return nil
	}

	rawPath := filepath.Join(p.store.TempDir(), meta.ItemID+".raw")
	if err := p.fetcher.Fetch(ctx, handle.URL, rawPath); err != nil {
		return fmt.Errorf("fetching stream: %w", err)
	}
	defer os.Remove(rawPath)

	coverPath := p.fetchCoverArt(ctx, meta)
	if coverPath != "" {
		defer os.Remove(coverPath)
	}

	err = p.transcoder.Transcode(ctx, audio.TranscodeParams{
		InputPath:     rawPath,
		OutputPath:    target,
		FileExtension: opts.FileExtension,
		Bitrate:       opts.Bitrate,
		Title:         meta.Title,
		CoverArtPath:  coverPath,
	})
	if err != nil {
		return fmt.Errorf("transcoding: %w", err)
	}

	return nil
}

// trackName derives the output file name from the item's display
// title, disambiguating collisions within the run by appending the
// item identifier.
func (p *Pipeline) trackName(meta *domain.ItemMetadata, usedNames map[string]string) string {
	name := sanitize.BaseName(meta.Title)
	if name == "" {
		name = meta.ItemID
	}

	if owner, taken := usedNames[name]; taken && owner != meta.ItemID {
		name = fmt.Sprintf("%s [%s]", name, meta.ItemID)
	}
	usedNames[name] = meta.ItemID

	return name
}

// fetchCoverArt downloads the item's cover art to a temp file.
// Best-effort: failures produce a cover-less output, never an item
// failure.
func (p *Pipeline) fetchCoverArt(ctx context.Context, meta *domain.ItemMetadata) string {
	if meta.CoverURL == "" {
		return ""
	}

	coverPath := filepath.Join(p.store.TempDir(), meta.ItemID+".jpg")
	if err := p.fetcher.Fetch(ctx, meta.CoverURL, coverPath); err != nil {
		slog.Warn("Cover art download failed", "item", meta.ItemID, "error", err)
		return ""
	}
	return coverPath
}
