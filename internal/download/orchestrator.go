package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/handiism/tubeaudio/internal/audio"
	"github.com/handiism/tubeaudio/internal/config"
	"github.com/handiism/tubeaudio/internal/history"
	ioutils "github.com/handiism/tubeaudio/internal/io"
	"github.com/handiism/tubeaudio/internal/model"
	"github.com/handiism/tubeaudio/internal/monitoring"
	"github.com/handiism/tubeaudio/internal/ytdlp"
	"go.uber.org/zap"
)

var (
	// ErrInvalidTarget is returned by Start when the resolved target
	// directory does not exist or is not a directory.
	ErrInvalidTarget = errors.New("invalid download target")

	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("orchestrator closed")
)

//go:generate mockgen -source=orchestrator.go -destination=mocks/orchestrator.go -package=mocks

// EntrySource resolves a result index to an entry. *catalog.Session
// implements it.
type EntrySource interface {
	GetByIndex(i int) (model.Entry, error)
}

// Tool downloads one video. *ytdlp.Runner implements it.
type Tool interface {
	Download(ctx context.Context, inv ytdlp.Invocation) ytdlp.Result
}

// Tagger repairs the tag of a downloaded file. *audio.Tagger implements it.
type Tagger interface {
	Tag(ctx context.Context, path string) error
}

// LyricsEmbedder embeds subtitle files into a downloaded file.
// *audio.LyricsEmbedder implements it.
type LyricsEmbedder interface {
	Embed(path string) (int, error)
}

// HistoryRecorder stores finished jobs. *history.Store implements it.
type HistoryRecorder interface {
	Record(ctx context.Context, r *history.Record) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTool replaces the download tool built from settings.
func WithTool(tool Tool) Option {
	return func(o *Orchestrator) { o.tool = tool }
}

// WithExtractor replaces the output extractor.
func WithExtractor(x ytdlp.Extractor) Option {
	return func(o *Orchestrator) { o.extractor = x }
}

// WithTagger replaces the tagger built from settings. nil disables tagging.
func WithTagger(t Tagger) Option {
	return func(o *Orchestrator) {
		o.tagger = t
		o.customTagger = true
	}
}

// WithLyrics replaces the lyrics embedder built from settings. nil disables
// lyrics embedding.
func WithLyrics(l LyricsEmbedder) Option {
	return func(o *Orchestrator) {
		o.lyrics = l
		o.customLyrics = true
	}
}

// WithHistory records every finished job in h.
func WithHistory(h HistoryRecorder) Option {
	return func(o *Orchestrator) { o.history = h }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator runs downloads for catalog entries.
//
// Start resolves the entry and the target directory synchronously and then
// runs the job on its own goroutine. Progress is reported as TransferState
// values on States; each job emits exactly three states. Jobs run
// independently: there are no retries and a started job cannot be
// cancelled.
//
// The consumer must keep reading States, otherwise jobs block once the
// buffer is full. Close lifts that requirement.
//
// Example:
//
//	orch := download.NewOrchestrator(settings, session, download.WithLogger(logger))
//	job, err := orch.Start(0, "")
//	if err != nil {
//	    return err
//	}
//	for state := range orch.States() {
//	    fmt.Println(state)
//	    if state.JobID == job.ID && state.Kind == download.StateCompleted {
//	        break
//	    }
//	}
type Orchestrator struct {
	settings  *config.Settings
	source    EntrySource
	tool      Tool
	extractor ytdlp.Extractor
	tagger    Tagger
	lyrics    LyricsEmbedder
	history   HistoryRecorder
	logger    *zap.Logger

	customTagger bool
	customLyrics bool

	settle time.Duration
	states chan TransferState

	mu      sync.Mutex
	closed  bool
	closing chan struct{}
	wg      sync.WaitGroup
}

// NewOrchestrator creates an Orchestrator resolving indices against source.
//
// The download tool, tagger and lyrics embedder are built from settings
// unless replaced by options.
func NewOrchestrator(settings *config.Settings, source EntrySource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		settings:  settings,
		source:    source,
		extractor: ytdlp.RegexExtractor{},
		logger:    zap.NewNop(),
		settle:    settings.SettleDelay(),
		states:    make(chan TransferState, settings.StateBuffer),
		closing:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.tool == nil {
		o.tool = ytdlp.NewRunner(settings.ToolPath, o.logger)
	}
	if !o.customTagger && settings.ModifyTags {
		o.tagger = audio.NewTagger(&audio.TagConfig{
			CoverMaxSize:      settings.CoverMaxSize,
			ConvertCoverToJPG: settings.ConvertCoverToJPG,
		}, o.logger)
	}
	if !o.customLyrics && settings.EmbedLyrics {
		o.lyrics = audio.NewLyricsEmbedder(settings.KeepLyricsFiles, o.logger)
	}

	return o
}

// States returns the channel all jobs report on. It is closed by Close.
func (o *Orchestrator) States() <-chan TransferState {
	return o.states
}

// Start begins downloading the entry at index into the directory derived
// from hint.
//
// A hint naming a directory is used as is; any other hint stands for its
// parent directory; an empty hint selects the configured downloads path,
// or the working directory when none is configured. The entry lookup and
// the directory check happen before Start returns.
func (o *Orchestrator) Start(index int, hint string) (*Job, error) {
	entry, err := o.source.GetByIndex(index)
	if err != nil {
		return nil, fmt.Errorf("entry %d: %w", index, err)
	}

	dir, err := o.resolveDir(hint)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:        uuid.NewString(),
		Entry:     entry,
		Dir:       dir,
		URL:       entry.URL(),
		StartedAt: time.Now(),
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, ErrClosed
	}
	o.wg.Add(1)
	o.mu.Unlock()

	o.logger.Info("download started",
		zap.String("job", job.ID),
		zap.String("title", entry.Title),
		zap.String("url", job.URL),
		zap.String("dir", dir))

	go o.run(job)
	return job, nil
}

// Wait blocks until every started job emitted its final state.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close rejects new jobs, waits for running ones and closes States.
//
// Close does not depend on States being read: once it is called, jobs drop
// the states that no longer fit in the buffer instead of blocking. A
// consumer that wants every state must keep reading until the channel is
// closed.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	close(o.closing)
	o.mu.Unlock()

	o.wg.Wait()
	close(o.states)
}

func (o *Orchestrator) resolveDir(hint string) (string, error) {
	var dir string
	switch {
	case hint == "":
		dir = o.settings.DownloadsPath
		if dir == "" {
			dir = "."
		}
	case ioutils.IsDir(hint):
		dir = hint
	default:
		dir = filepath.Dir(hint)
	}

	dir = filepath.Clean(dir)
	if !ioutils.IsDir(dir) {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidTarget, dir)
	}
	return dir, nil
}

func (o *Orchestrator) run(job *Job) {
	defer o.wg.Done()

	ctx := context.Background()
	monitoring.RecordDownloadStart()
	o.emit(job, StateRunning, "", nil)

	res := o.tool.Download(ctx, ytdlp.NewInvocation(job.Dir, job.URL))

	var (
		path    string
		outcome history.Outcome
	)
	switch res.Type {
	case ytdlp.ResultSuccess:
		if p, ok := o.extractor.Extract(res.Output, job.Dir); ok && ioutils.FileExists(p) {
			o.postProcess(ctx, job, p)
			path = p
			outcome = history.OutcomeSuccess
		} else {
			o.logger.Warn("downloaded file not found",
				zap.String("job", job.ID),
				zap.String("guess", p))
			outcome = history.OutcomeNoFile
		}
		o.emit(job, StateSuccess, "", nil)
	default:
		o.logger.Warn("download failed",
			zap.String("job", job.ID),
			zap.Stringer("result", res.Type),
			zap.Error(res.Err))
		outcome = history.OutcomeError
		o.emit(job, StateErrDownload, "", res.Err)
	}

	o.pause()

	finished := time.Now()
	monitoring.RecordDownloadFinished(string(outcome), finished.Sub(job.StartedAt))
	o.record(ctx, job, path, outcome, finished)

	o.logger.Info("download finished",
		zap.String("job", job.ID),
		zap.String("outcome", string(outcome)),
		zap.String("path", path))

	o.emit(job, StateCompleted, path, nil)
}

// postProcess tags the file, embeds lyrics and appends it to the playlist.
// Failures are logged and do not affect the job outcome.
func (o *Orchestrator) postProcess(ctx context.Context, job *Job, path string) {
	if o.tagger != nil {
		if err := o.tagger.Tag(ctx, path); err != nil {
			monitoring.RecordPostProcessFailure("tag")
			o.logger.Warn("tagging failed", zap.String("path", path), zap.Error(err))
		}
	}

	if o.lyrics != nil {
		if _, err := o.lyrics.Embed(path); err != nil {
			monitoring.RecordPostProcessFailure("lyrics")
			o.logger.Warn("embedding lyrics failed", zap.String("path", path), zap.Error(err))
		}
	}

	if o.settings.AppendPlaylist {
		item := audio.PlaylistItem{
			Location: path,
			Title:    job.Entry.Title,
			Duration: job.Entry.Length(),
		}
		if err := audio.AppendM3U(job.Dir, o.settings.PlaylistName, item, o.settings.M3UExtended); err != nil {
			monitoring.RecordPostProcessFailure("playlist")
			o.logger.Warn("appending to playlist failed", zap.String("path", path), zap.Error(err))
		}
	}
}

func (o *Orchestrator) record(ctx context.Context, job *Job, path string, outcome history.Outcome, finished time.Time) {
	if o.history == nil {
		return
	}
	err := o.history.Record(ctx, &history.Record{
		JobID:      job.ID,
		VideoID:    job.Entry.ID,
		Title:      job.Entry.Title,
		URL:        job.URL,
		Dir:        job.Dir,
		Path:       path,
		Outcome:    outcome,
		StartedAt:  job.StartedAt,
		FinishedAt: finished,
	})
	if err != nil {
		monitoring.RecordPostProcessFailure("history")
		o.logger.Warn("recording history failed", zap.String("job", job.ID), zap.Error(err))
	}
}

// pause gives polling consumers time to observe the intermediate state.
func (o *Orchestrator) pause() {
	if o.settle > 0 {
		time.Sleep(o.settle)
	}
}

// emit blocks while the buffer is full, until Close is called. After that
// states that do not fit are dropped.
func (o *Orchestrator) emit(job *Job, kind StateKind, path string, err error) {
	state := TransferState{
		Kind:  kind,
		JobID: job.ID,
		Entry: job.Entry,
		Path:  path,
		Err:   err,
	}

	select {
	case o.states <- state:
		return
	case <-o.closing:
	}
	select {
	case o.states <- state:
	default:
		o.logger.Debug("state dropped after close",
			zap.String("job", job.ID),
			zap.Stringer("state", state))
	}
}
