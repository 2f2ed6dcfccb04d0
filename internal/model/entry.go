package model

import (
	"fmt"
	"time"
)

// WatchURLPrefix is prepended to an entry ID to build its playable URL.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// Entry is one searchable, downloadable item of the remote catalog.
//
// Entries are values: a catalog session replaces its whole result set on
// every query and hands out copies, so an Entry never changes after
// construction.
//
// Example:
//
//	e := NewEntry("dQw4w9WgXcQ", "Some Song", 213)
//	fmt.Println(e.URL())            // https://www.youtube.com/watch?v=dQw4w9WgXcQ
//	fmt.Println(e.FormatDuration()) // 3:33
type Entry struct {
	// ID is the opaque video identifier used to build the playable URL.
	ID string

	// Title is the display title as reported by the catalog.
	Title string

	// Duration is the length in whole seconds.
	Duration int64
}

// NewEntry creates an Entry. Negative durations are clamped to zero.
func NewEntry(id, title string, durationSeconds int64) Entry {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	return Entry{
		ID:       id,
		Title:    title,
		Duration: durationSeconds,
	}
}

// URL returns the playable URL passed to the download tool.
func (e Entry) URL() string {
	return WatchURLPrefix + e.ID
}

// Length returns the duration as a time.Duration.
func (e Entry) Length() time.Duration {
	return time.Duration(e.Duration) * time.Second
}

// FormatDuration renders the duration as m:ss, or h:mm:ss for entries of an
// hour or longer.
func (e Entry) FormatDuration() string {
	hours := e.Duration / 3600
	minutes := (e.Duration % 3600) / 60
	seconds := e.Duration % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// String implements fmt.Stringer.
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.FormatDuration(), e.Title)
}
