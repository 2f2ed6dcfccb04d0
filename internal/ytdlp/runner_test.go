package ytdlp

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeScript creates an executable shell script standing in for the tool.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-ytdlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunner_Success(t *testing.T) {
	bin := writeScript(t, `echo "[ffmpeg] Destination: $(basename "$PWD").mp3"; for a; do last=$a; done; echo "last arg: $last" >&2`)
	dir := t.TempDir()

	res := NewRunner(bin, nil).Download(context.Background(), NewInvocation(dir, "https://www.youtube.com/watch?v=abc"))
	if res.Type != ResultSuccess {
		t.Fatalf("Type = %v, err = %v", res.Type, res.Err)
	}
	if res.Err != nil {
		t.Errorf("Err = %v, want nil", res.Err)
	}

	want := dir + "/" + filepath.Base(dir) + ".mp3"
	if got := ExtractFilePath(res.Output, dir); got != want {
		t.Errorf("ExtractFilePath() = %q, want %q", got, want)
	}
	if !strings.Contains(res.Output, "last arg: https://www.youtube.com/watch?v=abc") {
		t.Errorf("stderr not captured or URL not last: %q", res.Output)
	}
}

func TestRunner_Failure(t *testing.T) {
	bin := writeScript(t, `echo "ERROR: video unavailable" >&2; exit 3`)

	res := NewRunner(bin, nil).Download(context.Background(), NewInvocation(t.TempDir(), "u"))
	if res.Type != ResultFailure {
		t.Fatalf("Type = %v, want failure", res.Type)
	}
	if res.Err == nil || !strings.Contains(res.Err.Error(), "status 3") {
		t.Errorf("Err = %v, want exit status 3", res.Err)
	}
	if !strings.Contains(res.Err.Error(), "video unavailable") {
		t.Errorf("Err = %v, want last output line", res.Err)
	}
}

func TestRunner_MissingBinary(t *testing.T) {
	r := NewRunner(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	if r.Available() {
		t.Error("Available() = true for a missing binary")
	}

	res := r.Download(context.Background(), NewInvocation(t.TempDir(), "u"))
	if res.Type != ResultIOError {
		t.Errorf("Type = %v, want io_error", res.Type)
	}
	if res.Err == nil {
		t.Error("Err = nil")
	}
}

func TestRunner_Defaults(t *testing.T) {
	if got := NewRunner("", nil).Binary(); got != DefaultBinary {
		t.Errorf("Binary() = %q, want %q", got, DefaultBinary)
	}
}

func TestResultType_String(t *testing.T) {
	tests := map[ResultType]string{
		ResultSuccess:  "success",
		ResultIOError:  "io_error",
		ResultFailure:  "failure",
		ResultType(42): "ResultType(42)",
	}
	for rt, want := range tests {
		if got := rt.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
