package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/handiism/tubeaudio/internal/catalog"
	"github.com/handiism/tubeaudio/internal/catalog/mocks"
	"github.com/handiism/tubeaudio/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errBackendDown = errors.New("instance unreachable")

func twoEntries() []model.Entry {
	return []model.Entry{
		model.NewEntry("aaa", "Lofi One", 120),
		model.NewEntry("bbb", "Lofi Two", 180),
	}
}

func newHandle(ctrl *gomock.Controller, domain string) *mocks.MockHandle {
	h := mocks.NewMockHandle(ctrl)
	h.EXPECT().Domain().Return(domain).AnyTimes()
	return h
}

func TestSession_Initial(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := catalog.NewSession(mocks.NewMockBackend(ctrl))

	assert.Equal(t, 1, s.Page())
	assert.Empty(t, s.Keyword())
	assert.Empty(t, s.Items())
	assert.Empty(t, s.Domain())
}

func TestSession_SearchThenEmptyNextPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	handle := newHandle(ctrl, "inv.example")

	backend.EXPECT().Search(gomock.Any(), "lofi").Return(handle, twoEntries(), nil)
	handle.EXPECT().QueryPage(gomock.Any(), "lofi", 2).Return([]model.Entry{}, nil)

	s := catalog.NewSession(backend)
	ctx := context.Background()

	require.NoError(t, s.Search(ctx, "lofi"))
	assert.Equal(t, 1, s.Page())
	assert.Equal(t, "inv.example", s.Domain())
	assert.Len(t, s.Items(), 2)

	require.NoError(t, s.NextPage(ctx))
	assert.Equal(t, 2, s.Page())
	assert.Empty(t, s.Items())
}

func TestSession_SearchFailureKeepsState(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	handle := newHandle(ctrl, "inv.example")

	gomock.InOrder(
		backend.EXPECT().Search(gomock.Any(), "lofi").Return(handle, twoEntries(), nil),
		handle.EXPECT().QueryPage(gomock.Any(), "lofi", 2).Return(twoEntries()[:1], nil),
		backend.EXPECT().Search(gomock.Any(), "jazz").Return(nil, nil, errBackendDown),
	)

	s := catalog.NewSession(backend)
	ctx := context.Background()

	require.NoError(t, s.Search(ctx, "lofi"))
	require.NoError(t, s.NextPage(ctx))

	err := s.Search(ctx, "jazz")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBackendDown)

	// The keyword is recorded, everything else is untouched.
	assert.Equal(t, "jazz", s.Keyword())
	assert.Equal(t, 2, s.Page())
	assert.Len(t, s.Items(), 1)
	assert.Equal(t, "inv.example", s.Domain())
}

func TestSession_SearchResetsPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	first := newHandle(ctrl, "one.example")
	second := newHandle(ctrl, "two.example")

	backend.EXPECT().Search(gomock.Any(), "lofi").Return(first, twoEntries(), nil)
	first.EXPECT().QueryPage(gomock.Any(), "lofi", 2).Return(twoEntries(), nil)
	first.EXPECT().QueryPage(gomock.Any(), "lofi", 3).Return(twoEntries(), nil)
	backend.EXPECT().Search(gomock.Any(), "jazz").Return(second, twoEntries()[:1], nil)

	s := catalog.NewSession(backend)
	ctx := context.Background()

	require.NoError(t, s.Search(ctx, "lofi"))
	require.NoError(t, s.NextPage(ctx))
	require.NoError(t, s.NextPage(ctx))
	assert.Equal(t, 3, s.Page())

	require.NoError(t, s.Search(ctx, "jazz"))
	assert.Equal(t, 1, s.Page())
	assert.Equal(t, "two.example", s.Domain())
	assert.Len(t, s.Items(), 1)
}

func TestSession_NilHandleIsAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Search(gomock.Any(), "x").Return(nil, twoEntries(), nil)

	s := catalog.NewSession(backend)
	err := s.Search(context.Background(), "x")
	assert.ErrorIs(t, err, catalog.ErrNoBackend)
	assert.Empty(t, s.Items())
}

func TestSession_PrevPageOnFirstPageIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	handle := newHandle(ctrl, "inv.example")
	backend.EXPECT().Search(gomock.Any(), "lofi").Return(handle, twoEntries(), nil)
	// No QueryPage expectation: any call fails the test.

	s := catalog.NewSession(backend)
	ctx := context.Background()
	require.NoError(t, s.Search(ctx, "lofi"))

	require.NoError(t, s.PrevPage(ctx))
	assert.Equal(t, 1, s.Page())
	assert.Equal(t, twoEntries(), s.Items())
}

func TestSession_PrevPageBeforeSearchIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := catalog.NewSession(mocks.NewMockBackend(ctrl))

	require.NoError(t, s.PrevPage(context.Background()))
	assert.Equal(t, 1, s.Page())
}

func TestSession_PrevPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	handle := newHandle(ctrl, "inv.example")

	pageTwo := []model.Entry{model.NewEntry("ccc", "Page Two", 60)}
	backend.EXPECT().Search(gomock.Any(), "lofi").Return(handle, twoEntries(), nil)
	handle.EXPECT().QueryPage(gomock.Any(), "lofi", 2).Return(pageTwo, nil)
	handle.EXPECT().QueryPage(gomock.Any(), "lofi", 1).Return(twoEntries(), nil)

	s := catalog.NewSession(backend)
	ctx := context.Background()
	require.NoError(t, s.Search(ctx, "lofi"))
	require.NoError(t, s.NextPage(ctx))
	assert.Equal(t, pageTwo, s.Items())

	require.NoError(t, s.PrevPage(ctx))
	assert.Equal(t, 1, s.Page())
	assert.Equal(t, twoEntries(), s.Items())
}

func TestSession_NextPageFailureKeepsIncrement(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	handle := newHandle(ctrl, "inv.example")

	backend.EXPECT().Search(gomock.Any(), "lofi").Return(handle, twoEntries(), nil)
	handle.EXPECT().QueryPage(gomock.Any(), "lofi", 2).Return(nil, errBackendDown)

	s := catalog.NewSession(backend)
	ctx := context.Background()
	require.NoError(t, s.Search(ctx, "lofi"))

	err := s.NextPage(ctx)
	assert.ErrorIs(t, err, errBackendDown)
	assert.Equal(t, 2, s.Page(), "page advances even when the query fails")
	assert.Equal(t, twoEntries(), s.Items(), "results stay stale")
}

func TestSession_PrevPageFailureKeepsDecrement(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	handle := newHandle(ctrl, "inv.example")

	pageTwo := []model.Entry{model.NewEntry("ccc", "Page Two", 60)}
	backend.EXPECT().Search(gomock.Any(), "lofi").Return(handle, twoEntries(), nil)
	handle.EXPECT().QueryPage(gomock.Any(), "lofi", 2).Return(pageTwo, nil)
	handle.EXPECT().QueryPage(gomock.Any(), "lofi", 1).Return(nil, errBackendDown)

	s := catalog.NewSession(backend)
	ctx := context.Background()
	require.NoError(t, s.Search(ctx, "lofi"))
	require.NoError(t, s.NextPage(ctx))

	assert.Error(t, s.PrevPage(ctx))
	assert.Equal(t, 1, s.Page())
	assert.Equal(t, pageTwo, s.Items())
}

func TestSession_PageRollback(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	handle := newHandle(ctrl, "inv.example")

	pageTwo := []model.Entry{model.NewEntry("ccc", "Page Two", 60)}
	backend.EXPECT().Search(gomock.Any(), "lofi").Return(handle, twoEntries(), nil)
	handle.EXPECT().QueryPage(gomock.Any(), "lofi", 2).Return(pageTwo, nil)
	handle.EXPECT().QueryPage(gomock.Any(), "lofi", 3).Return(nil, errBackendDown)
	handle.EXPECT().QueryPage(gomock.Any(), "lofi", 1).Return(nil, errBackendDown)

	s := catalog.NewSession(backend, catalog.WithPageRollback())
	ctx := context.Background()
	require.NoError(t, s.Search(ctx, "lofi"))
	require.NoError(t, s.NextPage(ctx))

	assert.Error(t, s.NextPage(ctx))
	assert.Equal(t, 2, s.Page(), "failed next page is rolled back")

	assert.Error(t, s.PrevPage(ctx))
	assert.Equal(t, 2, s.Page(), "failed prev page is rolled back")
	assert.Equal(t, pageTwo, s.Items())
}

func TestSession_NextPageBeforeSearch(t *testing.T) {
	ctrl := gomock.NewController(t)

	s := catalog.NewSession(mocks.NewMockBackend(ctrl))
	err := s.NextPage(context.Background())
	assert.ErrorIs(t, err, catalog.ErrNoBackend)
	assert.Equal(t, 2, s.Page())

	r := catalog.NewSession(mocks.NewMockBackend(ctrl), catalog.WithPageRollback())
	assert.ErrorIs(t, r.NextPage(context.Background()), catalog.ErrNoBackend)
	assert.Equal(t, 1, r.Page())
}

func TestSession_GetByIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	handle := newHandle(ctrl, "inv.example")
	backend.EXPECT().Search(gomock.Any(), "lofi").Return(handle, twoEntries(), nil)

	s := catalog.NewSession(backend)

	// Empty result set.
	for _, i := range []int{-1, 0, 1, 100} {
		_, err := s.GetByIndex(i)
		assert.ErrorIs(t, err, catalog.ErrNotFound, "index %d", i)
	}

	require.NoError(t, s.Search(context.Background(), "lofi"))

	tests := []struct {
		index   int
		wantID  string
		wantErr bool
	}{
		{0, "aaa", false},
		{1, "bbb", false},
		{2, "", true},
		{-1, "", true},
		{int(^uint(0) >> 1), "", true},
	}
	for _, tt := range tests {
		entry, err := s.GetByIndex(tt.index)
		if tt.wantErr {
			assert.ErrorIs(t, err, catalog.ErrNotFound, "index %d", tt.index)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.wantID, entry.ID)
	}
}

func TestSession_ItemsIsACopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	handle := newHandle(ctrl, "inv.example")
	backend.EXPECT().Search(gomock.Any(), "lofi").Return(handle, twoEntries(), nil)

	s := catalog.NewSession(backend)
	require.NoError(t, s.Search(context.Background(), "lofi"))

	items := s.Items()
	items[0].Title = "changed"

	entry, err := s.GetByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, "Lofi One", entry.Title)
}
