package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/handiism/tubeaudio/internal/model"
	"github.com/handiism/tubeaudio/internal/monitoring"
	"go.uber.org/zap"
)

// Option configures a Session.
type Option func(*Session)

// WithPageRollback restores the page number when a page query fails.
//
// Without it the page stays moved while the result set keeps the previous
// page's items.
func WithPageRollback() Option {
	return func(s *Session) {
		s.rollback = true
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session tracks search and pagination state against a catalog backend.
//
// Session holds the current keyword, the 1-based page number, the current
// result set and the backend instance that served the last successful
// search. Results are never cached per page: navigating re-queries the
// instance.
//
// Mutating calls (Search, PrevPage, NextPage) are expected to be serialized
// by the caller. Readers may run concurrently with them.
//
// Example:
//
//	session := catalog.NewSession(backend)
//	if err := session.Search(ctx, "lofi"); err != nil {
//	    return err
//	}
//	for i, entry := range session.Items() {
//	    fmt.Println(i, entry)
//	}
//	_ = session.NextPage(ctx)
type Session struct {
	backend  Backend
	rollback bool
	logger   *zap.Logger

	mu      sync.RWMutex
	keyword string
	page    int
	items   []model.Entry
	handle  Handle
}

// NewSession creates a Session on page 1 with no results.
func NewSession(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		logger:  zap.NewNop(),
		page:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search selects a backend instance for keyword and loads page 1.
//
// The keyword is recorded even when the search fails. On failure the
// previous results, page and instance are kept.
func (s *Session) Search(ctx context.Context, keyword string) error {
	s.mu.Lock()
	s.keyword = keyword
	s.mu.Unlock()

	handle, items, err := s.backend.Search(ctx, keyword)
	if err == nil && handle == nil {
		err = ErrNoBackend
	}
	monitoring.RecordCatalogQuery("search", err)
	if err != nil {
		s.logger.Warn("catalog search failed", zap.String("keyword", keyword), zap.Error(err))
		return fmt.Errorf("search %q: %w", keyword, err)
	}

	s.mu.Lock()
	s.handle = handle
	s.items = items
	s.page = 1
	s.mu.Unlock()

	s.logger.Debug("catalog search",
		zap.String("keyword", keyword),
		zap.String("domain", handle.Domain()),
		zap.Int("results", len(items)))

	return nil
}

// PrevPage loads the previous page. On page 1 it does nothing.
func (s *Session) PrevPage(ctx context.Context) error {
	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()

	if page <= 1 {
		return nil
	}
	return s.gotoPage(ctx, "prev_page", page-1)
}

// NextPage loads the next page. The page number is advanced before the
// query runs.
func (s *Session) NextPage(ctx context.Context) error {
	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()

	return s.gotoPage(ctx, "next_page", page+1)
}

func (s *Session) gotoPage(ctx context.Context, op string, page int) error {
	s.mu.Lock()
	previous := s.page
	s.page = page
	keyword := s.keyword
	handle := s.handle
	s.mu.Unlock()

	var (
		items []model.Entry
		err   error
	)
	if handle == nil {
		err = ErrNoBackend
	} else {
		items, err = handle.QueryPage(ctx, keyword, page)
	}
	monitoring.RecordCatalogQuery(op, err)

	if err != nil {
		if s.rollback {
			s.mu.Lock()
			s.page = previous
			s.mu.Unlock()
		}
		s.logger.Warn("catalog page query failed",
			zap.String("keyword", keyword),
			zap.Int("page", page),
			zap.Bool("rolled_back", s.rollback),
			zap.Error(err))
		return fmt.Errorf("query page %d: %w", page, err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Debug("catalog page",
		zap.String("keyword", keyword),
		zap.Int("page", page),
		zap.Int("results", len(items)))

	return nil
}

// GetByIndex returns the entry at position i of the current result set.
func (s *Session) GetByIndex(i int) (model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.items) {
		return model.Entry{}, ErrNotFound
	}
	return s.items[i], nil
}

// Page returns the current 1-based page number.
func (s *Session) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Keyword returns the last searched keyword, successful or not.
func (s *Session) Keyword() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keyword
}

// Items returns a copy of the current result set.
func (s *Session) Items() []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Entry(nil), s.items...)
}

// Len returns the size of the current result set.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Domain returns the identity of the active instance, or "" before the
// first successful search.
func (s *Session) Domain() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.handle == nil {
		return ""
	}
	return s.handle.Domain()
}
