package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/handiism/tubeaudio/internal/history"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var errHistoryDisabled = errors.New("history is disabled")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished downloads",
	Long: `Show finished downloads, newest first.

Examples:
  tubeaudio history
  tubeaudio history --limit 50
  tubeaudio history --video dQw4w9WgXcQ --json`,
	Args: cobra.NoArgs,
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of records")
	historyCmd.Flags().String("video", "", "Only show downloads of this video ID")
}

type recordResponse struct {
	Job        string    `json:"job"`
	VideoID    string    `json:"video_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Dir        string    `json:"dir"`
	Path       string    `json:"path,omitempty"`
	Outcome    string    `json:"outcome"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	videoID, _ := cmd.Flags().GetString("video")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.History == nil {
		return errHistoryDisabled
	}

	var records []history.Record
	if videoID != "" {
		records, err = a.History.ByVideo(cmd.Context(), videoID)
	} else {
		records, err = a.History.Recent(cmd.Context(), limit)
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	if jsonOutput {
		resp := make([]recordResponse, 0, len(records))
		for _, r := range records {
			resp = append(resp, recordResponse{
				Job:        r.JobID,
				VideoID:    r.VideoID,
				Title:      r.Title,
				URL:        r.URL,
				Dir:        r.Dir,
				Path:       r.Path,
				Outcome:    string(r.Outcome),
				StartedAt:  r.StartedAt,
				FinishedAt: r.FinishedAt,
			})
		}
		printJSON(resp)
		return nil
	}

	if len(records) == 0 {
		fmt.Println("No downloads recorded")
		return nil
	}
	printRecords(os.Stdout, records)
	return nil
}

func printRecords(w io.Writer, records []history.Record) {
	fmt.Fprintf(w, "%-16s │ %-8s │ %s\n", "FINISHED", "OUTCOME", "TITLE")
	for _, r := range records {
		title := runewidth.Truncate(r.Title, titleWidth, "...")
		fmt.Fprintf(w, "%-16s │ %-8s │ %s\n", r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Outcome, title)
		if r.Path != "" {
			fmt.Fprintf(w, "%16s │ %8s │ %s\n", "", "", r.Path)
		}
	}
}
