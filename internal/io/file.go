package ioutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
)

// SanitizeFileName makes name usable as a file name on every platform.
//
// Characters Windows rejects become underscores, trailing dots are removed
// and whitespace runs collapse to a single space.
//
// Example:
//
//	SanitizeFileName("lofi: beats/study") // "lofi_ beats_study"
//	SanitizeFileName("Mix...")            // "Mix"
func SanitizeFileName(name string) string {
	name = whitespaceRuns.ReplaceAllString(name, " ")
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// EnsureDir creates path and its parents with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to path with mode 0644, truncating any existing file.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// AppendFile appends data to path, creating it with mode 0644 if needed.
func AppendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// PrependToFile rewrites path so that it starts with head followed by the
// previous content starting at offset skip.
//
// The new content is written to a temporary file in the same directory,
// which then replaces path. The original file is untouched on failure.
//
// Example:
//
//	// Replace a 128 byte broken header with a fresh one.
//	err := PrependToFile("/music/song.mp3", header, 128)
func PrependToFile(path string, head []byte, skip int64) (err error) {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	if skip < 0 || skip > info.Size() {
		return fmt.Errorf("prepend %s: skip %d outside file of %d bytes", path, skip, info.Size())
	}
	if _, err := src.Seek(skip, io.SeekStart); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(head); err != nil {
		return err
	}
	if _, err = io.Copy(tmp, src); err != nil {
		return err
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	src.Close()

	return os.Rename(tmp.Name(), path)
}
