package catalog

import (
	"context"
	"errors"

	"github.com/handiism/tubeaudio/internal/model"
)

var (
	// ErrNotFound is returned by GetByIndex for an index outside the
	// current result set.
	ErrNotFound = errors.New("index not found")

	// ErrNoBackend is returned by page navigation before any search has
	// selected a backend instance.
	ErrNoBackend = errors.New("no catalog backend selected")
)

//go:generate mockgen -source=backend.go -destination=mocks/backend.go -package=mocks

// Backend selects a catalog instance for a keyword.
//
// Implementations may front several equivalent mirrors and fail over
// between them; the session only sees the instance that answered.
type Backend interface {
	// Search selects an instance able to answer keyword and returns it
	// together with the first page of results.
	Search(ctx context.Context, keyword string) (Handle, []model.Entry, error)
}

// Handle is one selected catalog instance.
type Handle interface {
	// Domain returns a human readable identity of the instance.
	Domain() string

	// QueryPage returns the given 1-based page of results for keyword.
	// An empty page is a valid answer.
	QueryPage(ctx context.Context, keyword string, page int) ([]model.Entry, error)
}
