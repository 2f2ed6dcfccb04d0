package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bogem/id3v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// unknownLanguage is the ID3 language code for lyrics in an unknown language.
const unknownLanguage = "xxx"

// LyricsFile is a subtitle converted to LRC next to an audio file.
type LyricsFile struct {
	Path string

	// Lang is the language suffix as written by the download tool, e.g.
	// "en" or "zh-Hans".
	Lang string
}

// LyricsEmbedder moves .lrc subtitles into the audio file's tag.
//
// The download tool writes one "<stem>.<lang>.lrc" file per subtitle
// language. Each becomes an unsynchronised lyrics (USLT) frame whose
// language is the ISO 639-2 code of <lang> and whose description is <lang>
// itself.
type LyricsEmbedder struct {
	keepFiles bool
	logger    *zap.Logger
}

// NewLyricsEmbedder creates a LyricsEmbedder. With keepFiles set the .lrc
// files stay on disk after embedding.
func NewLyricsEmbedder(keepFiles bool, logger *zap.Logger) *LyricsEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LyricsEmbedder{keepFiles: keepFiles, logger: logger}
}

// FindLyrics returns the .lrc files belonging to the audio file at path,
// sorted by language.
func FindLyrics(path string) ([]LyricsFile, error) {
	dir := filepath.Dir(path)
	prefix := FileStem(path) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []LyricsFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		// "<stem>.lrc" leaves "lrc" here and carries no language.
		rest := strings.TrimPrefix(name, prefix)
		if !strings.HasSuffix(rest, ".lrc") {
			continue
		}
		lang := strings.TrimSuffix(rest, ".lrc")
		if lang == "" || strings.Contains(lang, ".") {
			continue
		}
		files = append(files, LyricsFile{Path: filepath.Join(dir, name), Lang: lang})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Lang < files[j].Lang })
	return files, nil
}

// ISO3 converts a BCP 47 language tag to the three letter code ID3 expects.
// Tags that cannot be parsed map to "xxx".
//
//	ISO3("en")      // "eng"
//	ISO3("zh-Hans") // "zho"
func ISO3(lang string) string {
	if lang == "" {
		return unknownLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return unknownLanguage
	}
	base, conf := tag.Base()
	if conf == language.No {
		return unknownLanguage
	}
	if code := base.ISO3(); len(code) == 3 {
		return code
	}
	return unknownLanguage
}

// Embed adds every lyrics file found next to path to its tag and returns
// how many were embedded. Existing USLT frames are replaced when at least
// one file is found.
func (e *LyricsEmbedder) Embed(path string) (int, error) {
	files, err := FindLyrics(path)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer tag.Close()

	tag.DeleteFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))

	embedded := make([]LyricsFile, 0, len(files))
	for _, f := range files {
		text, err := os.ReadFile(f.Path)
		if err != nil {
			e.logger.Warn("skipping lyrics file", zap.String("path", f.Path), zap.Error(err))
			continue
		}
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          ISO3(f.Lang),
			ContentDescriptor: f.Lang,
			Lyrics:            string(text),
		})
		embedded = append(embedded, f)
	}

	if err := tag.Save(); err != nil {
		return 0, fmt.Errorf("save lyrics to %s: %w", path, err)
	}

	if !e.keepFiles {
		for _, f := range embedded {
			if err := os.Remove(f.Path); err != nil {
				e.logger.Warn("could not remove lyrics file", zap.String("path", f.Path), zap.Error(err))
			}
		}
	}

	e.logger.Debug("embedded lyrics",
		zap.String("path", path),
		zap.Int("count", len(embedded)))

	return len(embedded), nil
}
