// Package tui provides a Bubble Tea terminal user interface for tubeaudio.
//
// The model browses a catalog session page by page and starts downloads
// of the highlighted entry. Download progress is read from the
// downloader's state channel, one message at a time, so the UI never
// blocks the jobs.
package tui
