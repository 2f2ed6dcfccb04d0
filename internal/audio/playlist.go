package audio

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ioutils "github.com/handiism/tubeaudio/internal/io"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files, optionally with #EXTINF lines.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates INI-style .pls files.
	FormatPLS

	// FormatWPL creates Windows Media Player .wpl files.
	FormatWPL

	// FormatZPL creates Zune .zpl files.
	FormatZPL
)

// ParsePlaylistFormat maps a format name ("m3u", "pls", "wpl", "zpl") to a
// PlaylistFormat. Unknown names yield FormatM3U and false.
func ParsePlaylistFormat(name string) (PlaylistFormat, bool) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "m3u", "":
		return FormatM3U, true
	case "pls":
		return FormatPLS, true
	case "wpl":
		return FormatWPL, true
	case "zpl":
		return FormatZPL, true
	default:
		return FormatM3U, false
	}
}

// Extension returns the file extension for the format, including the dot.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// PlaylistItem is one playlist line. Location is a file path or a URL.
type PlaylistItem struct {
	Location string
	Title    string
	Duration time.Duration
}

// PlaylistCreator renders playlists.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist("lofi", []PlaylistItem{
//	    {Location: "https://www.youtube.com/watch?v=abc", Title: "Lofi One", Duration: 2 * time.Minute},
//	})
//
//	// #EXTM3U
//	// #EXTINF:120,Lofi One
//	// https://www.youtube.com/watch?v=abc
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // M3U only
}

// NewPlaylistCreator creates a new PlaylistCreator. extended adds #EXTINF
// lines to M3U output and is ignored by the other formats.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the configured format.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist renders items as a playlist named title. Locations are
// written as given.
func (p *PlaylistCreator) CreatePlaylist(title string, items []PlaylistItem) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(items)
	case FormatWPL:
		return p.createSMIL(`<?wpl version="1.0"?>`, title, items, false)
	case FormatZPL:
		return p.createSMIL(`<?zpl version="2.0"?>`, title, items, true)
	default:
		return p.createM3U(items)
	}
}

func (p *PlaylistCreator) createM3U(items []PlaylistItem) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}
	for _, item := range items {
		writeM3UItem(&sb, item, p.extended)
	}

	return sb.String()
}

func writeM3UItem(sb *strings.Builder, item PlaylistItem, extended bool) {
	if extended {
		fmt.Fprintf(sb, "#EXTINF:%d,%s\n", int(item.Duration.Seconds()), item.Title)
	}
	sb.WriteString(item.Location + "\n")
}

func (p *PlaylistCreator) createPLS(items []PlaylistItem) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")
	for i, item := range items {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, item.Location)
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, item.Title)
		fmt.Fprintf(&sb, "Length%d=%d\n", idx, int(item.Duration.Seconds()))
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(items))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createSMIL renders the SMIL body shared by WPL and ZPL. ZPL media
// elements also carry the title and the duration in milliseconds.
func (p *PlaylistCreator) createSMIL(header, title string, items []PlaylistItem, detailed bool) string {
	var sb strings.Builder

	sb.WriteString(header + "\n<smil>\n  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(title))
	sb.WriteString("  </head>\n  <body>\n    <seq>\n")
	for _, item := range items {
		if detailed {
			fmt.Fprintf(&sb, "      <media src=\"%s\" trackTitle=\"%s\" duration=\"%d\"/>\n",
				escapeXML(item.Location), escapeXML(item.Title), item.Duration.Milliseconds())
			continue
		}
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(item.Location))
	}
	sb.WriteString("    </seq>\n  </body>\n</smil>\n")

	return sb.String()
}

// AppendM3U appends item to <dir>/<name>.m3u, creating the file when
// missing. A new extended playlist starts with #EXTM3U. Locations inside dir
// are written relative to it.
func AppendM3U(dir, name string, item PlaylistItem, extended bool) error {
	path := filepath.Join(dir, ioutils.SanitizeFileName(name)+FormatM3U.Extension())

	if !strings.Contains(item.Location, "://") {
		if rel, err := filepath.Rel(dir, item.Location); err == nil && !strings.HasPrefix(rel, "..") {
			item.Location = rel
		}
	}

	var sb strings.Builder
	if _, err := os.Stat(path); os.IsNotExist(err) && extended {
		sb.WriteString("#EXTM3U\n")
	}
	writeM3UItem(&sb, item, extended)

	return ioutils.AppendFile(path, []byte(sb.String()))
}

func escapeXML(s string) string {
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
