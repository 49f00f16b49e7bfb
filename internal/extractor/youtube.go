package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/jrossi/playlist-archiver/internal/domain"
)

const defaultNegotiationTimeout = 30 * time.Second

// YouTubeNegotiator negotiates streams through the YouTube player API.
// Each negotiation is bounded by a timeout so an unresponsive backend
// cannot stall the batch.
type YouTubeNegotiator struct {
	client  *youtube.Client
	timeout time.Duration
}

// NewYouTubeNegotiator creates a Negotiator backed by YouTube.
func NewYouTubeNegotiator(timeout time.Duration) *YouTubeNegotiator {
	if timeout <= 0 {
		timeout = defaultNegotiationTimeout
	}
	return &YouTubeNegotiator{
		client:  &youtube.Client{},
		timeout: timeout,
	}
}

// Negotiate fetches the item's metadata and resolves a URL for its
// audio-only stream.
func (n *YouTubeNegotiator) Negotiate(ctx context.Context, itemReference string) (*domain.ItemMetadata, *domain.StreamHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	video, err := n.client.GetVideoContext(ctx, itemReference)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w: %s", ErrTimeout, itemReference)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}

	if strings.TrimSpace(video.Title) == "" {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoMetadata, itemReference)
	}

	format, err := selectAudioFormat(video.Formats)
	if err != nil {
		return nil, nil, err
	}

	streamURL, err := n.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w: %s", ErrTimeout, itemReference)
		}
		return nil, nil, fmt.Errorf("%w: resolving stream url: %v", ErrNoAudioStream, err)
	}

	meta := &domain.ItemMetadata{
		ItemID:   video.ID,
		Title:    video.Title,
		CoverURL: bestThumbnailURL(video.Thumbnails),
	}

	handle := &domain.StreamHandle{
		ItemID:   video.ID,
		URL:      streamURL,
		MimeType: format.MimeType,
	}

	slog.Debug("Negotiated audio stream",
		"item", video.ID,
		"title", video.Title,
		"itag", format.ItagNo,
		"mimeType", format.MimeType,
	)

	return meta, handle, nil
}

// selectAudioFormat picks the first variant in backend order that has
// no video component and a positive audio bitrate. Backend order is
// the tie-break when several variants qualify.
func selectAudioFormat(formats youtube.FormatList) (*youtube.Format, error) {
	for i := range formats {
		f := &formats[i]
		if f.Width != 0 || f.Height != 0 {
			continue
		}
		if f.AudioChannels <= 0 || f.Bitrate <= 0 {
			continue
		}
		return f, nil
	}
	return nil, ErrNoAudioStream
}

// bestThumbnailURL returns the URL of the widest thumbnail, or an
// empty string when none exist.
func bestThumbnailURL(thumbnails youtube.Thumbnails) string {
	var best youtube.Thumbnail
	for _, t := range thumbnails {
		if t.URL != "" && t.Width >= best.Width {
			best = t
		}
	}
	return best.URL
}
