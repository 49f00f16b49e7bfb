package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaylistJSONSerialization(t *testing.T) {
	playlist := &Playlist{
		ID:    "PL123",
		Title: "Road Trip",
		Items: []*Item{
			{Reference: "https://www.youtube.com/watch?v=abc", Title: "Song A"},
			{Reference: "https://www.youtube.com/watch?v=def"},
		},
	}

	data, err := json.Marshal(playlist)
	assert.NoError(t, err)

	jsonStr := string(data)
	assert.Contains(t, jsonStr, `"id":"PL123"`)
	assert.Contains(t, jsonStr, `"title":"Road Trip"`)
	assert.Contains(t, jsonStr, `"reference":"https://www.youtube.com/watch?v=abc"`)

	var decoded Playlist
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, playlist.ID, decoded.ID)
	assert.Equal(t, playlist.Title, decoded.Title)
	assert.Len(t, decoded.Items, 2)

	// Omitted optional title stays empty.
	assert.Empty(t, decoded.Items[1].Title)
}
