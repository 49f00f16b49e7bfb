// Package extractor negotiates playable audio streams for individual
// playlist items with an external extraction backend.
package extractor

import (
	"context"
	"errors"

	"github.com/jrossi/playlist-archiver/internal/domain"
)

var (
	// ErrNoMetadata means the backend returned no usable metadata for the item.
	ErrNoMetadata = errors.New("no metadata for item")

	// ErrNoAudioStream means no stream variant qualifies as audio-only.
	ErrNoAudioStream = errors.New("no audio stream for item")

	// ErrTimeout means the backend did not answer within the negotiation timeout.
	ErrTimeout = errors.New("negotiation timed out")
)

// Negotiator obtains an item's metadata and a URL for an audio-only
// stream. Every error it returns is skippable for the enclosing item;
// the batch never aborts on a negotiation failure.
type Negotiator interface {
	Negotiate(ctx context.Context, itemReference string) (*domain.ItemMetadata, *domain.StreamHandle, error)
}
