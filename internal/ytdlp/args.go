package ytdlp

// OutputTemplate names the produced file after the video title, cut to 90
// characters.
const OutputTemplate = "%(title).90s.%(ext)s"

// DefaultArgs returns the fixed argument set for an audio download.
//
// The tool extracts mp3 audio, embeds metadata and the thumbnail, derives
// artist and title from the video title and writes every available
// subtitle converted to .lrc next to the audio file.
func DefaultArgs() []string {
	return []string{
		"--extract-audio",
		"--audio-format", "mp3",
		"--add-metadata",
		"--embed-thumbnail",
		"--metadata-from-title", "%(artist)s - %(title)s",
		"--write-sub",
		"--all-subs",
		"--convert-subs", "lrc",
		"--output", OutputTemplate,
	}
}

// NewInvocation builds an audio download of url into dir using DefaultArgs.
func NewInvocation(dir, url string) Invocation {
	return Invocation{
		Dir:  dir,
		URL:  url,
		Args: DefaultArgs(),
	}
}
