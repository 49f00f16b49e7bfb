package domain

// Item represents one playable unit referenced within a playlist.
type Item struct {
	// Reference is the opaque per-item reference string, typically a
	// watch URL. Unique within a playlist but not globally enforced.
	Reference string `json:"reference"`

	// Title as reported by the playlist source. The authoritative
	// display title comes from negotiation and may differ.
	Title string `json:"title,omitempty"`
}

// Playlist holds the expanded form of a playlist reference. It is
// created once per run and never mutated afterwards; item order is the
// source's order.
type Playlist struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Items []*Item `json:"items"`
}

// ItemMetadata is the per-item metadata obtained during negotiation.
type ItemMetadata struct {
	ItemID   string `json:"itemId"`
	Title    string `json:"title"`
	CoverURL string `json:"coverUrl,omitempty"`
}

// StreamHandle points at a playable audio-only stream for one item.
// It is transient: produced and consumed within a single item's
// processing, never cached across items.
type StreamHandle struct {
	ItemID   string `json:"itemId"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
}

// ProgressEvent reports batch progress. Completed is monotonically
// non-decreasing within a run; Total is fixed at run start.
type ProgressEvent struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}
