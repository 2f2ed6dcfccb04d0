package ytdlp

import "testing"

func TestExtractFilePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		dir    string
		want   string
	}{
		{
			name:   "non-ascii title",
			output: "sdflsdf [ffmpeg] Destination: 观众说“小哥哥，到饭点了”《干饭人之歌》走，端起饭盆干饭去.mp3 sldflsdfj",
			dir:    "/tmp",
			want:   "/tmp/观众说“小哥哥，到饭点了”《干饭人之歌》走，端起饭盆干饭去.mp3",
		},
		{
			name:   "plain title",
			output: "[youtube] abc: Downloading webpage\n[ffmpeg] Destination: My Song.mp3\nDeleting original file My Song.webm",
			dir:    "/music",
			want:   "/music/My Song.mp3",
		},
		{
			name:   "extract audio marker",
			output: "[ExtractAudio] Destination: Lofi Beats.mp3\n",
			dir:    "/music",
			want:   "/music/Lofi Beats.mp3",
		},
		{
			name:   "no marker",
			output: "ERROR: unable to download video data",
			dir:    "/music",
			want:   "/music/.mp3",
		},
		{
			name:   "empty output",
			output: "",
			dir:    "/tmp",
			want:   "/tmp/.mp3",
		},
		{
			name:   "other extension ignored",
			output: "[ffmpeg] Destination: My Song.m4a",
			dir:    "/music",
			want:   "/music/.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFilePath(tt.output, tt.dir); got != tt.want {
				t.Errorf("ExtractFilePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegexExtractor_ReportsMatch(t *testing.T) {
	var x Extractor = RegexExtractor{}

	if _, ok := x.Extract("[ffmpeg] Destination: a.mp3", "/d"); !ok {
		t.Error("expected a match")
	}
	if path, ok := x.Extract("nothing here", "/d"); ok || path != "/d/.mp3" {
		t.Errorf("Extract() = (%q, %v), want (\"/d/.mp3\", false)", path, ok)
	}
}

func TestDefaultArgs(t *testing.T) {
	args := DefaultArgs()
	want := map[string]string{
		"--audio-format":        "mp3",
		"--metadata-from-title": "%(artist)s - %(title)s",
		"--convert-subs":        "lrc",
		"--output":              OutputTemplate,
	}
	for i, a := range args {
		if v, ok := want[a]; ok {
			if i+1 >= len(args) || args[i+1] != v {
				t.Errorf("%s not followed by %q", a, v)
			}
			delete(want, a)
		}
	}
	for flag := range want {
		t.Errorf("missing %s", flag)
	}

	// Callers get their own copy.
	args[0] = "changed"
	if DefaultArgs()[0] != "--extract-audio" {
		t.Error("DefaultArgs shares its backing array")
	}
}
