package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/handiism/tubeaudio/internal/catalog"
	"github.com/handiism/tubeaudio/internal/config"
	"github.com/handiism/tubeaudio/internal/download"
	"github.com/handiism/tubeaudio/internal/history"
	thttp "github.com/handiism/tubeaudio/internal/http"
	"github.com/handiism/tubeaudio/internal/invidious"
	"github.com/handiism/tubeaudio/internal/monitoring"
	"go.uber.org/zap"
)

// App holds the components shared by the command line and terminal
// front ends.
type App struct {
	Settings     *config.Settings
	Logger       *zap.Logger
	Backend      *invidious.Backend
	Session      *catalog.Session
	Orchestrator *download.Orchestrator

	// History is nil when the database could not be opened.
	History *history.Store

	metrics *http.Server
}

// Option configures New.
type Option func(*options)

type options struct {
	downloadOpts []download.Option
	noHistory    bool
}

// WithDownloadOptions passes extra options to the orchestrator.
func WithDownloadOptions(opts ...download.Option) Option {
	return func(o *options) { o.downloadOpts = append(o.downloadOpts, opts...) }
}

// WithoutHistory skips opening the history database.
func WithoutHistory() Option {
	return func(o *options) { o.noHistory = true }
}

// New wires the catalog backend, session, history store and orchestrator
// from settings. A history database that cannot be opened is logged and
// skipped.
func New(ctx context.Context, settings *config.Settings, logger *zap.Logger, opts ...Option) (*App, error) {
	if settings == nil {
		return nil, errors.New("nil settings")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client := thttp.NewClient(thttp.Options{
		Timeout:           settings.RequestTimeout(),
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	backend := invidious.NewBackend(client, invidious.Config{
		Instances:      settings.Instances,
		Discover:       settings.DiscoverInstances,
		ParallelProbes: settings.ParallelProbes,
	}, logger.With(zap.String("component", "invidious")))

	sessionOpts := []catalog.Option{catalog.WithLogger(logger.With(zap.String("component", "catalog")))}
	if settings.RollbackPageOnError {
		sessionOpts = append(sessionOpts, catalog.WithPageRollback())
	}
	session := catalog.NewSession(backend, sessionOpts...)

	a := &App{
		Settings: settings,
		Logger:   logger,
		Backend:  backend,
		Session:  session,
	}

	downloadOpts := []download.Option{download.WithLogger(logger.With(zap.String("component", "download")))}
	if !o.noHistory && settings.HistoryPath != "" {
		store, err := history.Open(ctx, settings.HistoryPath)
		if err != nil {
			logger.Warn("history disabled", zap.String("path", settings.HistoryPath), zap.Error(err))
		} else {
			a.History = store
			downloadOpts = append(downloadOpts, download.WithHistory(store))
		}
	}
	downloadOpts = append(downloadOpts, o.downloadOpts...)

	a.Orchestrator = download.NewOrchestrator(settings, session, downloadOpts...)
	return a, nil
}

// ServeMetrics exposes Prometheus metrics on addr until Close.
func (a *App) ServeMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler())
	a.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("metrics server error", zap.Error(err))
		}
	}()
	a.Logger.Info("serving metrics", zap.String("addr", addr))
}

// Close waits for running downloads and releases resources.
func (a *App) Close() error {
	a.Orchestrator.Close()

	var errs []error
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
		}
	}
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close history: %w", err))
		}
	}
	a.Logger.Sync()
	return errors.Join(errs...)
}
