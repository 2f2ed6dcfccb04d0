package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

func TestISO3(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", "eng"},
		{"zh-Hans", "zho"},
		{"pt-BR", "por"},
		{"ja", "jpn"},
		{"live_chat", "xxx"},
		{"", "xxx"},
	}
	for _, tt := range tests {
		if got := ISO3(tt.lang); got != tt.want {
			t.Errorf("ISO3(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestFindLyrics(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "song.mp3")
	for _, name := range []string{"song.mp3", "song.zh-Hans.lrc", "song.en.lrc", "other.en.lrc", "song.lrc", "song.en.vtt"} {
		writeFile(t, filepath.Join(dir, name), []byte("x"))
	}

	files, err := FindLyrics(audio)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d files, want 2: %v", len(files), files)
	}
	if files[0].Lang != "en" || files[1].Lang != "zh-Hans" {
		t.Errorf("langs = %q, %q", files[0].Lang, files[1].Lang)
	}
}

func TestFindLyrics_BareLrcHasNoLanguage(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "song.mp3")
	writeFile(t, audio, []byte("x"))
	writeFile(t, filepath.Join(dir, "song.lrc"), []byte("x"))

	files, err := FindLyrics(audio)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("found %v, want none", files)
	}
}

func TestLyricsEmbedder_Embed(t *testing.T) {
	tests := []struct {
		name      string
		keepFiles bool
	}{
		{"remove files", false},
		{"keep files", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			audio := filepath.Join(dir, "song.mp3")
			writeFile(t, audio, fakeAudio)
			writeFile(t, filepath.Join(dir, "song.en.lrc"), []byte("[00:01.00]hello"))
			writeFile(t, filepath.Join(dir, "song.ja.lrc"), []byte("[00:01.00]こんにちは"))

			n, err := NewLyricsEmbedder(tt.keepFiles, nil).Embed(audio)
			if err != nil {
				t.Fatalf("Embed() error = %v", err)
			}
			if n != 2 {
				t.Errorf("Embed() = %d, want 2", n)
			}

			tag := openTag(t, audio)
			frames := tag.GetFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
			got := map[string]string{}
			for _, f := range frames {
				uslt, ok := f.(id3v2.UnsynchronisedLyricsFrame)
				if !ok {
					t.Fatalf("frame is %T", f)
				}
				got[uslt.Language] = uslt.Lyrics
			}
			if got["eng"] != "[00:01.00]hello" || got["jpn"] != "[00:01.00]こんにちは" {
				t.Errorf("lyrics frames = %v", got)
			}

			_, err = os.Stat(filepath.Join(dir, "song.en.lrc"))
			if tt.keepFiles && err != nil {
				t.Error("lyrics file removed although keepFiles is set")
			}
			if !tt.keepFiles && !os.IsNotExist(err) {
				t.Error("lyrics file not removed")
			}
		})
	}
}

func TestLyricsEmbedder_NothingToEmbed(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "song.mp3")
	writeFile(t, audio, fakeAudio)

	n, err := NewLyricsEmbedder(false, nil).Embed(audio)
	if err != nil || n != 0 {
		t.Errorf("Embed() = (%d, %v), want (0, nil)", n, err)
	}

	data, _ := os.ReadFile(audio)
	if string(data) != string(fakeAudio) {
		t.Error("file modified without lyrics")
	}
}
