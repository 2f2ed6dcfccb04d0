package ytdlp

import (
	"regexp"
)

// destinationPattern matches the line the tool prints when it writes the
// converted audio file. Older releases print it from the ffmpeg
// postprocessor, newer ones from ExtractAudio.
var destinationPattern = regexp.MustCompile(`\[(?:ffmpeg|ExtractAudio)\] Destination: (?P<name>.*)\.mp3`)

// Extractor derives the produced audio file path from the tool output.
type Extractor interface {
	// Extract returns the file path and whether a destination marker was
	// found in output.
	Extract(output, dir string) (string, bool)
}

// RegexExtractor finds the destination marker with a regular expression.
//
// Example:
//
//	var x RegexExtractor
//	path, ok := x.Extract("[ffmpeg] Destination: My Song.mp3", "/music")
//	// path == "/music/My Song.mp3", ok == true
type RegexExtractor struct{}

// Extract implements Extractor.
func (RegexExtractor) Extract(output, dir string) (string, bool) {
	m := destinationPattern.FindStringSubmatch(output)
	if m == nil {
		return dir + "/.mp3", false
	}
	name := m[destinationPattern.SubexpIndex("name")]
	return dir + "/" + name + ".mp3", true
}

// ExtractFilePath returns dir + "/" + name + ".mp3" for the first
// destination marker in output. The name is taken verbatim, non-ASCII
// characters included.
//
// Without a marker the result is the placeholder dir + "/.mp3". It never
// fails; callers that need to know whether a marker matched use
// RegexExtractor directly.
func ExtractFilePath(output, dir string) string {
	path, _ := RegexExtractor{}.Extract(output, dir)
	return path
}
