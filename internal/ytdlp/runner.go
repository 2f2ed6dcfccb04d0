package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBinary is the executable looked up on PATH when no path is
// configured.
const DefaultBinary = "yt-dlp"

// ResultType classifies the outcome of a tool run.
type ResultType int

const (
	// ResultSuccess means the tool exited with status 0.
	ResultSuccess ResultType = iota

	// ResultIOError means the tool could not be started or its output
	// could not be read.
	ResultIOError

	// ResultFailure means the tool ran and exited with a non-zero status.
	ResultFailure
)

// String returns the lower case name used in logs and metrics.
func (t ResultType) String() string {
	switch t {
	case ResultSuccess:
		return "success"
	case ResultIOError:
		return "io_error"
	case ResultFailure:
		return "failure"
	default:
		return fmt.Sprintf("ResultType(%d)", int(t))
	}
}

// Invocation describes one tool run.
type Invocation struct {
	// Dir is the working directory of the process. Output files land here.
	Dir string

	// URL is the video to download.
	URL string

	// Args are passed before URL.
	Args []string
}

// Result is the outcome of a tool run.
type Result struct {
	Type ResultType

	// Output holds stdout and stderr interleaved.
	Output string

	// Err is set for ResultIOError and ResultFailure.
	Err error
}

// Runner runs the external download tool with os/exec.
//
// Example:
//
//	runner := ytdlp.NewRunner("", logger)
//	res := runner.Download(ctx, ytdlp.NewInvocation("/music", entry.URL()))
//	if res.Type == ytdlp.ResultSuccess {
//	    path := ytdlp.ExtractFilePath(res.Output, "/music")
//	}
type Runner struct {
	binary string
	logger *zap.Logger
}

// NewRunner creates a Runner for binary. An empty binary means
// DefaultBinary; a nil logger disables logging.
func NewRunner(binary string, logger *zap.Logger) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{binary: binary, logger: logger}
}

// Binary returns the configured executable.
func (r *Runner) Binary() string {
	return r.binary
}

// Available reports whether the executable can be resolved.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Download runs the tool for inv and blocks until it exits.
func (r *Runner) Download(ctx context.Context, inv Invocation) Result {
	args := make([]string, 0, len(inv.Args)+1)
	args = append(args, inv.Args...)
	args = append(args, inv.URL)

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = inv.Dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	r.logger.Debug("running download tool",
		zap.String("binary", r.binary),
		zap.String("dir", inv.Dir),
		zap.String("url", inv.URL))

	start := time.Now()
	err := cmd.Run()
	res := Result{Output: out.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.Type = ResultSuccess
	case errors.As(err, &exitErr):
		res.Type = ResultFailure
		res.Err = fmt.Errorf("%s exited with status %d: %s", r.binary, exitErr.ExitCode(), lastLine(res.Output))
	default:
		res.Type = ResultIOError
		res.Err = fmt.Errorf("run %s: %w", r.binary, err)
	}

	r.logger.Debug("download tool finished",
		zap.String("url", inv.URL),
		zap.Stringer("result", res.Type),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(res.Err))

	return res
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\r\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
