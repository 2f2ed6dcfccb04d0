package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/handiism/tubeaudio/internal/download"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [flags] <keyword>...",
	Short: "Search the catalog and download entries",
	Long: `Search the catalog and download entries of one result page as MP3.

The target defaults to the configured downloads path. A --dir naming a
file downloads into that file's directory.

Examples:
  tubeaudio get lofi
  tubeaudio get --index 2 --index 5 "lofi hip hop"
  tubeaudio get --page 3 --index 0 --dir ~/Music/lofi lofi`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGetCmd,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().IntSliceP("index", "i", []int{0}, "Result index to download, repeatable")
	getCmd.Flags().IntP("page", "p", 1, "Result page")
	getCmd.Flags().StringP("dir", "d", "", "Target directory")
}

type stateResponse struct {
	Job   string `json:"job"`
	State string `json:"state"`
	Title string `json:"title"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

func runGetCmd(cmd *cobra.Command, args []string) error {
	keyword := strings.Join(args, " ")
	indices, _ := cmd.Flags().GetIntSlice("index")
	page, _ := cmd.Flags().GetInt("page")
	dir, _ := cmd.Flags().GetString("dir")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := openPage(cmd.Context(), a.Session, keyword, page); err != nil {
		return err
	}

	var jobs int
	for _, index := range indices {
		job, err := a.Orchestrator.Start(index, dir)
		if err != nil {
			if jobs == 0 {
				return err
			}
			fmt.Fprintf(os.Stderr, "skipping index %d: %v\n", index, err)
			continue
		}
		jobs++
		if !jsonOutput {
			fmt.Printf("Downloading %s\n  into %s\n", job.Entry, job.Dir)
		}
	}

	failed := watchStates(cmd.Context(), a.Orchestrator.States(), jobs, printState)
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, jobs)
	}
	return nil
}

// watchStates consumes states until jobs Completed states were seen and
// returns how many jobs reported ErrDownload. Running jobs cannot be
// cancelled, so an interrupt only restores the default signal handling.
func watchStates(ctx context.Context, states <-chan download.TransferState, jobs int, report func(download.TransferState)) int {
	done := ctx.Done()
	var completed, failed int
	for completed < jobs {
		select {
		case <-done:
			done = nil
			signal.Reset(os.Interrupt, syscall.SIGTERM)
			fmt.Fprintf(os.Stderr, "\nWaiting for %d running download(s), interrupt again to abort\n", jobs-completed)
		case state, ok := <-states:
			if !ok {
				return failed
			}
			report(state)
			switch state.Kind {
			case download.StateErrDownload:
				failed++
			case download.StateCompleted:
				completed++
			}
		}
	}
	return failed
}

func printState(state download.TransferState) {
	if jsonOutput {
		resp := stateResponse{
			Job:   state.JobID,
			State: state.Kind.String(),
			Title: state.Entry.Title,
			Path:  state.Path,
		}
		if state.Err != nil {
			resp.Error = state.Err.Error()
		}
		printJSON(resp)
		return
	}

	switch state.Kind {
	case download.StateErrDownload:
		var msg string
		if state.Err != nil {
			msg = state.Err.Error()
		}
		fmt.Printf("  failed     %s: %s\n", state.Entry.Title, firstLine(msg))
	case download.StateCompleted:
		if state.HasPath() {
			fmt.Printf("  saved      %s\n", state.Path)
		} else {
			fmt.Printf("  finished   %s\n", state.Entry.Title)
		}
	default:
		fmt.Printf("  %-10s %s\n", strings.ToLower(state.Kind.String()), state.Entry.Title)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
