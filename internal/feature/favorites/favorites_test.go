package favorites_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/catalog/catalogtest"
	"github.com/five82/dex/internal/engine"
	"github.com/five82/dex/internal/engine/enginetest"
	favstore "github.com/five82/dex/internal/favorites"
	"github.com/five82/dex/internal/feature/detail"
	"github.com/five82/dex/internal/feature/favorites"
)

type fixture struct {
	client *catalogtest.Fake
	store  favstore.Store
	f      favorites.Feature
}

func newFixture(t *testing.T, saved ...int) fixture {
	t.Helper()
	client := catalogtest.NewFake()
	store, err := favstore.OpenBolt(filepath.Join(t.TempDir(), "favorites.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	for _, id := range saved {
		require.NoError(t, store.Save(context.Background(), client.Details[id]))
	}
	return fixture{
		client: client,
		store:  store,
		f: favorites.Feature{
			Store:  store,
			Detail: detail.Feature{Catalog: client, Favorites: store},
		},
	}
}

func ids(all []catalog.Detail) []int {
	out := make([]int, 0, len(all))
	for _, d := range all {
		out = append(out, d.ID)
	}
	return out
}

type failingDelete struct{ favstore.Store }

func (failingDelete) Delete(context.Context, int) error {
	return errors.New("read-only file system")
}

func TestOnAppearLoadsInSavedOrder(t *testing.T) {
	fx := newFixture(t, 25, 1, 4)
	e := enginetest.Start(t, favorites.State{}, fx.f.Reduce)

	e.Send(favorites.OnAppear{})
	got := enginetest.Settle(t, e)
	assert.Equal(t, []int{25, 1, 4}, ids(got.Favorites))
	assert.False(t, got.IsLoading)
	assert.Empty(t, got.ErrorMessage)
}

func TestLoadSetsLoadingAndClearsError(t *testing.T) {
	fx := newFixture(t)
	next, eff := fx.f.Reduce(favorites.State{ErrorMessage: "old"}, favorites.LoadFavorites{})
	assert.True(t, next.IsLoading)
	assert.Empty(t, next.ErrorMessage)

	require.Equal(t, engine.KindMerge, eff.Kind())
	children := eff.Children()
	require.Len(t, children, 2)
	assert.Equal(t, engine.KindCancel, children[0].Kind())
	assert.Equal(t, favorites.LoadTag, children[0].Tag())
	assert.Equal(t, engine.KindAsync, children[1].Kind())
	assert.Equal(t, favorites.LoadTag, children[1].Tag())
}

// staleFirstLoad answers its first LoadAll with an old snapshot once
// released or cancelled. Later loads read the real store.
type staleFirstLoad struct {
	favstore.Store
	stale   []catalog.Detail
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (s *staleFirstLoad) LoadAll(ctx context.Context) ([]catalog.Detail, error) {
	if s.calls.Add(1) == 1 {
		close(s.started)
		// Answer even when cancelled; the engine must still drop it.
		select {
		case <-s.release:
		case <-ctx.Done():
		}
		return s.stale, nil
	}
	return s.Store.LoadAll(ctx)
}

func TestOverlappingLoadsKeepNewestSnapshot(t *testing.T) {
	fx := newFixture(t, 1)
	store := &staleFirstLoad{
		Store:   fx.store,
		stale:   []catalog.Detail{fx.client.Details[1], fx.client.Details[4]},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	fx.f.Store = store
	e := enginetest.Start(t, favorites.State{}, fx.f.Reduce)

	e.Send(favorites.LoadFavorites{})
	<-store.started
	e.Send(favorites.LoadFavorites{})
	require.Eventually(t, func() bool {
		s := e.State()
		return len(s.Favorites) == 1 && !s.IsLoading
	}, 2*time.Second, time.Millisecond)

	close(store.release)
	got := enginetest.Settle(t, e)
	assert.Equal(t, []int{1}, ids(got.Favorites), "the older read must not overwrite the newer one")
	assert.False(t, got.IsLoading)
}

func TestDeleteFavoriteReloads(t *testing.T) {
	fx := newFixture(t, 1, 2, 3)
	e := enginetest.Start(t, favorites.State{}, fx.f.Reduce)
	e.Send(favorites.LoadFavorites{})
	enginetest.Settle(t, e)

	e.Send(favorites.DeleteFavorite{ID: 2})
	got := enginetest.Settle(t, e)
	assert.Equal(t, []int{1, 3}, ids(got.Favorites))
}

func TestDeleteFailureSurfacesMessage(t *testing.T) {
	fx := newFixture(t, 1)
	fx.f.Store = failingDelete{fx.store}
	e := enginetest.Start(t, favorites.State{}, fx.f.Reduce)
	e.Send(favorites.LoadFavorites{})
	enginetest.Settle(t, e)

	e.Send(favorites.DeleteFavorite{ID: 1})
	got := enginetest.Settle(t, e)
	assert.Equal(t, "read-only file system", got.ErrorMessage)
	assert.Equal(t, []int{1}, ids(got.Favorites))
}

func TestUnfavoriteFromOverlayReloadsList(t *testing.T) {
	fx := newFixture(t, 1, 25)
	e := enginetest.Start(t, favorites.State{}, fx.f.Reduce)
	e.Send(favorites.OnAppear{})
	got := enginetest.Settle(t, e)
	require.Len(t, got.Favorites, 2)

	e.Send(favorites.ItemTapped{Item: got.Favorites[0]})
	e.Send(favorites.Detail{Action: detail.OnAppear{}})
	got = enginetest.Settle(t, e)
	require.NotNil(t, got.Detail)
	require.True(t, got.Detail.IsFavorite)

	e.Send(favorites.Detail{Action: detail.ToggleFavorite{}})
	got = enginetest.Settle(t, e)
	assert.False(t, got.Detail.IsFavorite)
	assert.Equal(t, []int{25}, ids(got.Favorites))

	// Favoriting again from the same overlay brings it back.
	e.Send(favorites.Detail{Action: detail.ToggleFavorite{}})
	got = enginetest.Settle(t, e)
	assert.True(t, got.Detail.IsFavorite)
	assert.Equal(t, []int{25, 1}, ids(got.Favorites))
}

func TestFailedToggleDoesNotReload(t *testing.T) {
	fx := newFixture(t)
	state := favorites.State{Detail: &detail.State{ItemID: 1}}
	_, eff := fx.f.Reduce(state, favorites.Detail{Action: detail.SaveFavoriteResponse{Err: errors.New("nope")}})
	assert.True(t, eff.IsNone())

	_, eff = fx.f.Reduce(state, favorites.Detail{Action: detail.DeleteFavoriteResponse{}})
	require.Equal(t, engine.KindSend, eff.Kind())
	assert.Equal(t, favorites.LoadFavorites{}, eff.Action())
}

func TestResponsesWithoutOverlayDoNotReload(t *testing.T) {
	fx := newFixture(t)
	start := favorites.State{Favorites: []catalog.Detail{fx.client.Details[1]}}
	for _, a := range []detail.Action{detail.SaveFavoriteResponse{}, detail.DeleteFavoriteResponse{}} {
		next, eff := fx.f.Reduce(start, favorites.Detail{Action: a})
		assert.Equal(t, start, next)
		assert.True(t, eff.IsNone(), "%T", a)
	}
}

func TestDismissDetail(t *testing.T) {
	fx := newFixture(t)
	d := detail.New(1)
	next, eff := fx.f.Reduce(favorites.State{Detail: &d}, favorites.DismissDetail{})
	assert.Nil(t, next.Detail)
	require.Equal(t, engine.KindCancel, eff.Kind())
	assert.Equal(t, d.Tag(), eff.Tag())
}

func TestChangesFavorites(t *testing.T) {
	assert.True(t, favorites.ChangesFavorites(detail.SaveFavoriteResponse{}))
	assert.True(t, favorites.ChangesFavorites(detail.DeleteFavoriteResponse{}))
	assert.False(t, favorites.ChangesFavorites(detail.DeleteFavoriteResponse{Err: errors.New("x")}))
	assert.False(t, favorites.ChangesFavorites(detail.FetchDetail{}))
}
