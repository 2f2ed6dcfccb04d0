// Package ioutils provides file system and image helpers.
//
// # Files
//
//	ioutils.EnsureDir("/music/lofi")
//	ioutils.AppendFile("/music/lofi/tubeaudio.m3u", []byte("song.mp3\n"))
//	safe := ioutils.SanitizeFileName("lofi: beats/study") // "lofi_ beats_study"
//
// PrependToFile replaces the start of a file through a temporary file in the
// same directory; the tagger uses it to put a fresh ID3 header in front of
// audio whose header could not be parsed.
//
// # Images
//
// ImageService scales and re-encodes embedded cover art:
//
//	svc := ioutils.NewImageService()
//	cover, changed, err := svc.Normalize(ctx, picture, 1000, true)
package ioutils
