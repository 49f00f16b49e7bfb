package playlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kkdai/youtube/v2"

	"github.com/jrossi/playlist-archiver/internal/domain"
)

const (
	watchURLTemplate        = "https://www.youtube.com/watch?v=%s"
	defaultPlaylistPageBase = "https://www.youtube.com/playlist?list="
	titleFetchTimeout       = 10 * time.Second
)

// YouTubeExpander expands playlists through the YouTube innertube API.
type YouTubeExpander struct {
	client *youtube.Client

	// pageBase is the URL prefix used for the og:title fallback fetch.
	// Overridable for tests.
	pageBase   string
	httpClient *http.Client
}

// NewYouTubeExpander creates an Expander backed by YouTube.
func NewYouTubeExpander() *YouTubeExpander {
	return &YouTubeExpander{
		client:     &youtube.Client{},
		pageBase:   defaultPlaylistPageBase,
		httpClient: &http.Client{Timeout: titleFetchTimeout},
	}
}

// Expand fetches the playlist's title and ordered member list.
func (e *YouTubeExpander) Expand(ctx context.Context, playlistID string) (*domain.Playlist, error) {
	pl, err := e.client.GetPlaylistContext(ctx, playlistID)
	if err != nil {
		if errors.Is(err, youtube.ErrInvalidPlaylist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, playlistID)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	if len(pl.Videos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, playlistID)
	}

	items := make([]*domain.Item, 0, len(pl.Videos))
	for _, entry := range pl.Videos {
		if entry == nil || entry.ID == "" {
			slog.Warn("Skipping playlist entry without id", "playlist", playlistID)
			continue
		}
		items = append(items, &domain.Item{
			Reference: fmt.Sprintf(watchURLTemplate, entry.ID),
			Title:     entry.Title,
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, playlistID)
	}

	title := strings.TrimSpace(pl.Title)
	if title == "" || title == "Playlist" {
		// The innertube response often carries an empty or generic
		// title; the page's og:title is reliable.
		if pageTitle := e.fetchPageTitle(ctx, playlistID); pageTitle != "" {
			title = pageTitle
		}
	}
	if title == "" {
		title = fmt.Sprintf("Playlist %s", playlistID)
	}

	slog.Debug("Expanded playlist", "id", playlistID, "title", title, "items", len(items))

	return &domain.Playlist{
		ID:    playlistID,
		Title: title,
		Items: items,
	}, nil
}

// fetchPageTitle reads the playlist page's og:title meta tag.
// Best-effort: any failure returns an empty string.
func (e *YouTubeExpander) fetchPageTitle(ctx context.Context, playlistID string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.pageBase+playlistID, nil)
	if err != nil {
		return ""
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		slog.Debug("Playlist title page fetch failed", "id", playlistID, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	title, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	return strings.TrimSpace(title)
}
