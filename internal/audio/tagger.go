package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	ioutils "github.com/handiism/tubeaudio/internal/io"
	"go.uber.org/zap"
)

// TagVersion is the ID3v2 major version every tagged file is saved as.
const TagVersion = 4

// TagConfig controls what Tagger does besides title repair and version
// normalization.
//
// Example:
//
//	cfg := &TagConfig{
//	    CoverMaxSize:      500, // shrink embedded thumbnails above 500px
//	    ConvertCoverToJPG: true,
//	}
type TagConfig struct {
	// CoverMaxSize is the largest width or height an embedded picture may
	// keep. 0 leaves pictures alone.
	CoverMaxSize int

	// ConvertCoverToJPG re-encodes non-JPEG pictures as JPEG.
	ConvertCoverToJPG bool
}

// DefaultTagConfig returns the default tag configuration: covers above
// 1000px are shrunk and every cover ends up as JPEG.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		CoverMaxSize:      1000,
		ConvertCoverToJPG: true,
	}
}

// Tagger repairs and normalizes the ID3v2 tag of a downloaded MP3 file.
//
// For each file Tagger:
//   - replaces an unreadable tag with a fresh one titled after the file stem
//   - titles an empty tag after the file stem
//   - saves the tag as ID3v2.4
//   - shrinks and re-encodes embedded cover pictures per TagConfig
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig(), logger)
//	if err := tagger.Tag(ctx, "/music/My Song.mp3"); err != nil {
//	    logger.Warn("tagging failed", zap.Error(err))
//	}
type Tagger struct {
	config *TagConfig
	images *ioutils.ImageService
	logger *zap.Logger
}

// NewTagger creates a new Tagger. A nil config means DefaultTagConfig(), a
// nil logger disables logging.
func NewTagger(config *TagConfig, logger *zap.Logger) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tagger{
		config: config,
		images: ioutils.NewImageService(),
		logger: logger,
	}
}

// Tag repairs and normalizes the tag of the MP3 file at path.
func (t *Tagger) Tag(ctx context.Context, path string) error {
	stem := FileStem(path)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		t.logger.Info("replacing unreadable tag",
			zap.String("path", path),
			zap.Error(err))
		if err := replaceTag(path, stem); err != nil {
			return fmt.Errorf("replace tag of %s: %w", path, err)
		}
		tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
		if err != nil {
			return fmt.Errorf("reopen %s: %w", path, err)
		}
	}
	defer tag.Close()

	if !tag.HasFrames() {
		tag.SetDefaultEncoding(id3v2.EncodingUTF8)
		tag.SetTitle(stem)
	}

	tag.SetVersion(TagVersion)
	t.normalizeCovers(ctx, tag, path)

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tag of %s: %w", path, err)
	}
	return nil
}

// normalizeCovers rewrites attached pictures that are too large or not
// JPEG. Pictures that fail to decode are kept as they are.
func (t *Tagger) normalizeCovers(ctx context.Context, tag *id3v2.Tag, path string) {
	if t.config.CoverMaxSize <= 0 && !t.config.ConvertCoverToJPG {
		return
	}

	id := tag.CommonID("Attached picture")
	frames := tag.GetFrames(id)
	if len(frames) == 0 {
		return
	}

	pictures := make([]id3v2.PictureFrame, 0, len(frames))
	changed := false
	for _, f := range frames {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok {
			return
		}
		out, resized, err := t.images.Normalize(ctx, pic.Picture, t.config.CoverMaxSize, t.config.ConvertCoverToJPG)
		if err != nil {
			t.logger.Debug("cover left unchanged", zap.String("path", path), zap.Error(err))
		} else if resized {
			pic.Picture = out
			pic.MimeType = "image/jpeg"
			changed = true
		}
		pictures = append(pictures, pic)
	}
	if !changed {
		return
	}

	tag.DeleteFrames(id)
	for _, pic := range pictures {
		tag.AddAttachedPicture(pic)
	}
}

// replaceTag puts a fresh tag titled stem in front of the audio data,
// dropping the unreadable tag when its extent can be determined.
func replaceTag(path, stem string) error {
	fresh := id3v2.NewEmptyTag()
	fresh.SetVersion(TagVersion)
	fresh.SetDefaultEncoding(id3v2.EncodingUTF8)
	fresh.SetTitle(stem)

	var head bytes.Buffer
	if _, err := fresh.WriteTo(&head); err != nil {
		return err
	}

	skip, err := existingTagSize(path)
	if err != nil {
		return err
	}
	return ioutils.PrependToFile(path, head.Bytes(), skip)
}

// existingTagSize returns the byte length of the ID3v2 tag at the start of
// path, or 0 when there is none or its declared size does not fit the file.
func existingTagSize(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	var header [10]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return 0, nil
	}
	if string(header[:3]) != "ID3" {
		return 0, nil
	}

	size := int64(header[6]&0x7f)<<21 |
		int64(header[7]&0x7f)<<14 |
		int64(header[8]&0x7f)<<7 |
		int64(header[9]&0x7f)
	total := int64(len(header)) + size
	if header[5]&0x10 != 0 { // footer present
		total += int64(len(header))
	}
	if total > info.Size() {
		return 0, nil
	}
	return total, nil
}

// FileStem returns the base name of path without its extension.
//
//	FileStem("/music/My Song.mp3") // "My Song"
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
