package audio

import "context"

// Transcoder converts a raw downloaded stream into the target audio
// container, optionally embedding cover art.
type Transcoder interface {
	Transcode(ctx context.Context, p TranscodeParams) error
}

// TranscodeParams describes one transcode operation.
type TranscodeParams struct {
	InputPath     string
	OutputPath    string
	FileExtension string
	Bitrate       string

	// Title is written into the output's metadata tags.
	Title string

	// CoverArtPath points at a local image to embed; empty means no
	// cover. Embedding failure is non-fatal.
	CoverArtPath string
}
