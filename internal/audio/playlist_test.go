package audio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	content := NewPlaylistCreator(FormatM3U, false).CreatePlaylist("lofi", testItems())

	want := "https://www.youtube.com/watch?v=aaa\nhttps://www.youtube.com/watch?v=bbb\n"
	if content != want {
		t.Errorf("M3U = %q, want %q", content, want)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	content := NewPlaylistCreator(FormatM3U, true).CreatePlaylist("lofi", testItems())

	if !strings.HasPrefix(content, "#EXTM3U\n") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:125,Lofi One\n") {
		t.Errorf("Extended M3U missing EXTINF line: %q", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	content := NewPlaylistCreator(FormatPLS, false).CreatePlaylist("lofi", testItems())

	for _, want := range []string{"[playlist]\n", "File1=https://www.youtube.com/watch?v=aaa\n", "Length2=3600\n", "NumberOfEntries=2\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("PLS missing %q", want)
		}
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	content := NewPlaylistCreator(FormatWPL, false).CreatePlaylist("lofi", testItems())

	if !strings.Contains(content, "<?wpl") || !strings.Contains(content, "<media src=") {
		t.Errorf("unexpected WPL: %q", content)
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	content := NewPlaylistCreator(FormatZPL, false).CreatePlaylist("lofi", testItems())

	if !strings.Contains(content, "<?zpl") || !strings.Contains(content, `duration="125000"`) {
		t.Errorf("unexpected ZPL: %q", content)
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	items := []PlaylistItem{{Location: "a.mp3?x=1&y=2", Title: `Track & "Quote"`}}
	content := NewPlaylistCreator(FormatWPL, false).CreatePlaylist("Mix <Special>", items)

	if !strings.Contains(content, "&amp;") {
		t.Error("WPL should escape & as &amp;")
	}
	if strings.Contains(content, "<Special>") {
		t.Error("WPL should escape < and >")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		name   string
		want   PlaylistFormat
		wantOK bool
	}{
		{"m3u", FormatM3U, true},
		{".PLS", FormatPLS, true},
		{"wpl", FormatWPL, true},
		{"zpl", FormatZPL, true},
		{"", FormatM3U, true},
		{"xspf", FormatM3U, false},
	}
	for _, tt := range tests {
		got, ok := ParsePlaylistFormat(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePlaylistFormat(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAppendM3U(t *testing.T) {
	dir := t.TempDir()

	first := PlaylistItem{Location: filepath.Join(dir, "My Song.mp3"), Title: "My Song", Duration: time.Minute}
	second := PlaylistItem{Location: filepath.Join(dir, "Other.mp3"), Title: "Other", Duration: 2 * time.Minute}

	if err := AppendM3U(dir, "tubeaudio", first, true); err != nil {
		t.Fatal(err)
	}
	if err := AppendM3U(dir, "tubeaudio", second, true); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "tubeaudio.m3u"))
	if err != nil {
		t.Fatal(err)
	}
	want := "#EXTM3U\n#EXTINF:60,My Song\nMy Song.mp3\n#EXTINF:120,Other\nOther.mp3\n"
	if string(got) != want {
		t.Errorf("playlist = %q, want %q", got, want)
	}
}

func testItems() []PlaylistItem {
	return []PlaylistItem{
		{Location: "https://www.youtube.com/watch?v=aaa", Title: "Lofi One", Duration: 125 * time.Second},
		{Location: "https://www.youtube.com/watch?v=bbb", Title: "Lofi Two", Duration: time.Hour},
	}
}
