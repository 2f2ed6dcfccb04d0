package dto

import (
	"github.com/handiism/tubeaudio/internal/model"
)

// TypeVideo is the search item type that maps to a catalog entry.
// Channels and playlists share the search endpoint.
const TypeVideo = "video"

// SearchItem is one element of the /api/v1/search response.
type SearchItem struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	VideoID       string `json:"videoId"`
	Author        string `json:"author"`
	LengthSeconds int64  `json:"lengthSeconds"`
	LiveNow       bool   `json:"liveNow"`
}

// IsVideo reports whether the item is a playable video.
func (s *SearchItem) IsVideo() bool {
	return s.Type == TypeVideo && s.VideoID != ""
}

// ToEntry converts the item to a model.Entry.
func (s *SearchItem) ToEntry() model.Entry {
	return model.NewEntry(s.VideoID, s.Title, s.LengthSeconds)
}

// ToEntries converts the video items of a search response to entries,
// keeping their order.
func ToEntries(items []SearchItem) []model.Entry {
	entries := make([]model.Entry, 0, len(items))
	for i := range items {
		if items[i].IsVideo() {
			entries = append(entries, items[i].ToEntry())
		}
	}
	return entries
}
