package audio

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

var fakeAudio = []byte("\xff\xfb\x90\x00fake mpeg frames")

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func openTag(t *testing.T, path string) *id3v2.Tag {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag: %v", err)
	}
	t.Cleanup(func() { tag.Close() })
	return tag
}

func taggedFile(t *testing.T, path string, build func(tag *id3v2.Tag)) {
	t.Helper()
	tag := id3v2.NewEmptyTag()
	build(tag)
	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	buf.Write(fakeAudio)
	writeFile(t, path, buf.Bytes())
}

func TestTagger_UntaggedFileGetsStemTitle(t *testing.T) {
	tests := []string{"My Song", "观众说《干饭人之歌》走"}

	for _, stem := range tests {
		t.Run(stem, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), stem+".mp3")
			writeFile(t, path, fakeAudio)

			if err := NewTagger(nil, nil).Tag(context.Background(), path); err != nil {
				t.Fatalf("Tag() error = %v", err)
			}

			tag := openTag(t, path)
			if got := tag.Title(); got != stem {
				t.Errorf("Title() = %q, want %q", got, stem)
			}
			if got := tag.Version(); got != TagVersion {
				t.Errorf("Version() = %d, want %d", got, TagVersion)
			}

			data, _ := os.ReadFile(path)
			if !bytes.HasSuffix(data, fakeAudio) {
				t.Error("audio data not preserved")
			}
		})
	}
}

func TestTagger_ExistingTagIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file name.mp3")
	taggedFile(t, path, func(tag *id3v2.Tag) {
		tag.SetVersion(3)
		tag.SetTitle("Real Title")
		tag.SetArtist("Someone")
	})

	if err := NewTagger(nil, nil).Tag(context.Background(), path); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	tag := openTag(t, path)
	if got := tag.Title(); got != "Real Title" {
		t.Errorf("Title() = %q, existing title must be kept", got)
	}
	if got := tag.Artist(); got != "Someone" {
		t.Errorf("Artist() = %q, want %q", got, "Someone")
	}
	if got := tag.Version(); got != TagVersion {
		t.Errorf("Version() = %d, want %d", got, TagVersion)
	}
}

func TestTagger_UnreadableTagIsReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	// ID3v2.2 header declaring a 5 byte tag.
	broken := append([]byte("ID3\x02\x00\x00\x00\x00\x00\x05junk!"), fakeAudio...)
	writeFile(t, path, broken)

	if _, err := id3v2.Open(path, id3v2.Options{Parse: true}); err == nil {
		t.Skip("id3v2 accepts this header; nothing to repair")
	}

	if err := NewTagger(nil, nil).Tag(context.Background(), path); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	tag := openTag(t, path)
	if got := tag.Title(); got != "song" {
		t.Errorf("Title() = %q, want %q", got, "song")
	}

	data, _ := os.ReadFile(path)
	if bytes.Contains(data, []byte("junk!")) {
		t.Error("old tag not dropped")
	}
	if !bytes.HasSuffix(data, fakeAudio) {
		t.Error("audio data not preserved")
	}
}

func TestTagger_MissingFile(t *testing.T) {
	err := NewTagger(nil, nil).Tag(context.Background(), filepath.Join(t.TempDir(), "nope.mp3"))
	if err == nil {
		t.Error("expected an error")
	}
}

func TestTagger_LargeCoverIsShrunk(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 300))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var cover bytes.Buffer
	if err := png.Encode(&cover, img); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "cover.mp3")
	taggedFile(t, path, func(tag *id3v2.Tag) {
		tag.SetTitle("With Cover")
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/png",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover.Bytes(),
		})
	})

	tagger := NewTagger(&TagConfig{CoverMaxSize: 100, ConvertCoverToJPG: true}, nil)
	if err := tagger.Tag(context.Background(), path); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}

	tag := openTag(t, path)
	frames := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(frames) != 1 {
		t.Fatalf("got %d pictures, want 1", len(frames))
	}
	pic, ok := frames[0].(id3v2.PictureFrame)
	if !ok {
		t.Fatalf("frame is %T", frames[0])
	}
	if pic.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q, want image/jpeg", pic.MimeType)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(pic.Picture))
	if err != nil {
		t.Fatal(err)
	}
	if format != "jpeg" || cfg.Width != 100 || cfg.Height != 100 {
		t.Errorf("cover = %s %dx%d, want jpeg 100x100", format, cfg.Width, cfg.Height)
	}
}

func TestFileStem(t *testing.T) {
	tests := map[string]string{
		"/music/My Song.mp3":  "My Song",
		"relative/a.b.mp3":    "a.b",
		"noext":               "noext",
		"/tmp/观众说《干饭人之歌》.mp3": "观众说《干饭人之歌》",
	}
	for in, want := range tests {
		if got := FileStem(in); got != want {
			t.Errorf("FileStem(%q) = %q, want %q", in, got, want)
		}
	}
}
