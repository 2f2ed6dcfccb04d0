// Package audio post-processes downloaded MP3 files.
//
// # ID3 Tagging
//
// Tagger makes sure every file carries a readable ID3v2.4 tag with at
// least a title:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig(), logger)
//	err := tagger.Tag(ctx, "/music/My Song.mp3")
//
// A file without tag frames, or whose tag cannot be parsed, is titled after
// its file name ("My Song"). Embedded cover pictures are shrunk and
// re-encoded as JPEG per TagConfig.
//
// # Lyrics
//
// LyricsEmbedder turns the "<stem>.<lang>.lrc" subtitle files written next
// to the audio into USLT frames:
//
//	n, err := audio.NewLyricsEmbedder(false, logger).Embed(path)
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true)
//	content := creator.CreatePlaylist("lofi", items)
//
//	// Append a downloaded file to <dir>/tubeaudio.m3u
//	err := audio.AppendM3U(dir, "tubeaudio", item, true)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
