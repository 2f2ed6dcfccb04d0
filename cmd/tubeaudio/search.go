package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/tubeaudio/internal/app"
	"github.com/handiism/tubeaudio/internal/audio"
	"github.com/handiism/tubeaudio/internal/catalog"
	ioutils "github.com/handiism/tubeaudio/internal/io"
	"github.com/handiism/tubeaudio/internal/model"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const titleWidth = 56

var searchCmd = &cobra.Command{
	Use:   "search [flags] <keyword>...",
	Short: "Search the catalog",
	Long: `Search the catalog and list one page of videos.

Examples:
  tubeaudio search lofi
  tubeaudio search --page 2 "lofi hip hop"
  tubeaudio search lofi --export lofi.m3u`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("page", "p", 1, "Result page")
	searchCmd.Flags().String("export", "", "Write the results to a playlist (.m3u, .pls, .wpl or .zpl)")
}

type entryResponse struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration int64  `json:"duration"`
	URL      string `json:"url"`
}

type searchResponse struct {
	Keyword  string          `json:"keyword"`
	Page     int             `json:"page"`
	Instance string          `json:"instance"`
	Entries  []entryResponse `json:"entries"`
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	keyword := strings.Join(args, " ")
	page, _ := cmd.Flags().GetInt("page")
	export, _ := cmd.Flags().GetString("export")

	a, err := newApp(cmd, app.WithoutHistory())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := openPage(cmd.Context(), a.Session, keyword, page); err != nil {
		return err
	}
	items := a.Session.Items()

	if export != "" {
		if err := exportPlaylist(export, keyword, items, settings.M3UExtended); err != nil {
			return err
		}
	}

	if jsonOutput {
		resp := searchResponse{
			Keyword:  keyword,
			Page:     a.Session.Page(),
			Instance: a.Session.Domain(),
			Entries:  make([]entryResponse, 0, len(items)),
		}
		for i, e := range items {
			resp.Entries = append(resp.Entries, entryResponse{
				Index: i, ID: e.ID, Title: e.Title, Duration: e.Duration, URL: e.URL(),
			})
		}
		printJSON(resp)
		return nil
	}

	if len(items) == 0 {
		fmt.Println("No videos found")
		return nil
	}
	fmt.Printf("Page %d of %q from %s:\n\n", a.Session.Page(), keyword, a.Session.Domain())
	printEntries(os.Stdout, items)
	if export != "" {
		fmt.Printf("\nPlaylist written to %s\n", export)
	}
	return nil
}

// openPage searches keyword and pages forward until page is loaded.
func openPage(ctx context.Context, session *catalog.Session, keyword string, page int) error {
	if page < 1 {
		return fmt.Errorf("invalid page %d", page)
	}
	if err := session.Search(ctx, keyword); err != nil {
		return err
	}
	for session.Page() < page {
		if err := session.NextPage(ctx); err != nil {
			return err
		}
	}
	return nil
}

func printEntries(w io.Writer, items []model.Entry) {
	fmt.Fprintf(w, "  # │ %s │ %8s\n", runewidth.FillRight("TITLE", titleWidth), "LENGTH")
	fmt.Fprintf(w, "────┼─%s─┼──────────\n", strings.Repeat("─", titleWidth))
	for i, e := range items {
		title := runewidth.FillRight(runewidth.Truncate(e.Title, titleWidth, "..."), titleWidth)
		fmt.Fprintf(w, " %2d │ %s │ %8s\n", i, title, e.FormatDuration())
	}
}

func exportPlaylist(path, title string, items []model.Entry, extended bool) error {
	format, ok := audio.ParsePlaylistFormat(filepath.Ext(path))
	if !ok {
		return fmt.Errorf("unknown playlist format %q", filepath.Ext(path))
	}

	playlist := make([]audio.PlaylistItem, 0, len(items))
	for _, e := range items {
		playlist = append(playlist, audio.PlaylistItem{
			Location: e.URL(),
			Title:    e.Title,
			Duration: e.Length(),
		})
	}

	content := audio.NewPlaylistCreator(format, extended).CreatePlaylist(title, playlist)
	if dir := filepath.Dir(path); dir != "." {
		if err := ioutils.EnsureDir(dir); err != nil {
			return err
		}
	}
	return ioutils.WriteFile(path, []byte(content))
}
