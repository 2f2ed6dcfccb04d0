// Package config provides configuration management for tubeaudio.
//
// This package handles:
//   - Default configuration values
//   - Loading settings from a JSON file with TUBEAUDIO_* environment overrides
//   - Saving settings back to JSON
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Music
//	// Runs yt-dlp from PATH
//	// 5 second settle delay between download states
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/settings.json")
//	// A missing file yields the defaults
//
// Environment variables override file values, with dots in nested keys
// replaced by underscores:
//
//	TUBEAUDIO_DOWNLOADS_PATH=/srv/music
//	TUBEAUDIO_LOGGING_LEVEL=debug
//
// # Configuration Options
//
// Settings includes options for:
//   - Download tool location and state pacing
//   - Catalog instances, probing and rate limits
//   - Page navigation failure behavior
//   - ID3 tagging, lyrics embedding and cover art
//   - Playlist appending and download history
//   - Logging
package config
