package download

import (
	"fmt"
	"time"

	"github.com/handiism/tubeaudio/internal/model"
)

// StateKind is the kind of a TransferState.
type StateKind int

const (
	// StateRunning is emitted when the job starts.
	StateRunning StateKind = iota

	// StateSuccess is emitted when the tool exited successfully.
	StateSuccess

	// StateErrDownload is emitted when the tool failed or could not run.
	StateErrDownload

	// StateCompleted is always the last state of a job.
	StateCompleted
)

// String returns the state name.
func (k StateKind) String() string {
	switch k {
	case StateRunning:
		return "Running"
	case StateSuccess:
		return "Success"
	case StateErrDownload:
		return "ErrDownload"
	case StateCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("StateKind(%d)", int(k))
	}
}

// TransferState is one step of a job's lifecycle.
//
// Every job emits, in order: StateRunning, then StateSuccess or
// StateErrDownload, then StateCompleted. Path is only set on StateCompleted
// after a successful download whose file could be located.
type TransferState struct {
	Kind  StateKind
	JobID string
	Entry model.Entry

	// Path is the downloaded file, "" when unknown.
	Path string

	// Err is the tool error on StateErrDownload.
	Err error
}

// HasPath reports whether the state carries a file path.
func (s TransferState) HasPath() bool {
	return s.Path != ""
}

// String formats the state for logs and plain text output.
func (s TransferState) String() string {
	switch s.Kind {
	case StateCompleted:
		if s.HasPath() {
			return fmt.Sprintf("Completed(%s)", s.Path)
		}
		return "Completed(None)"
	case StateErrDownload:
		if s.Err != nil {
			return fmt.Sprintf("ErrDownload(%v)", s.Err)
		}
	}
	return s.Kind.String()
}

// Job is one started download.
type Job struct {
	ID        string
	Entry     model.Entry
	Dir       string
	URL       string
	StartedAt time.Time
}
