package list_test

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/catalog/catalogtest"
	"github.com/five82/dex/internal/engine"
	"github.com/five82/dex/internal/engine/enginetest"
	"github.com/five82/dex/internal/favorites"
	"github.com/five82/dex/internal/feature/detail"
	"github.com/five82/dex/internal/feature/list"
)

func newFeature(t *testing.T, client *catalogtest.Fake) list.Feature {
	t.Helper()
	store, err := favorites.OpenBolt(filepath.Join(t.TempDir(), "favorites.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return list.Feature{
		Catalog:  client,
		Detail:   detail.Feature{Catalog: client, Favorites: store},
		Debounce: 30 * time.Millisecond,
	}
}

func names(items []catalog.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func waitForCall(t *testing.T, client *catalogtest.Fake, call string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return slices.Contains(client.Calls(), call)
	}, 2*time.Second, time.Millisecond, "waiting for %q", call)
}

func TestOnAppearFetchesFirstPage(t *testing.T) {
	client := catalogtest.NewFake()
	f := newFeature(t, client)
	e := enginetest.Start(t, list.State{}, f.Reduce)

	e.Send(list.OnAppear{})
	got := enginetest.Settle(t, e)

	want := list.State{Items: catalogtest.Starters()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"page 151"}, client.Calls())

	e.Send(list.OnAppear{})
	enginetest.Settle(t, e)
	assert.Len(t, client.Calls(), 1, "a populated list does not refetch")
}

func TestFetchAllUsesConfiguredPageSize(t *testing.T) {
	client := catalogtest.NewFake()
	f := newFeature(t, client)
	f.PageSize = 3
	e := enginetest.Start(t, list.State{}, f.Reduce)

	e.Send(list.FetchAll{})
	got := enginetest.Settle(t, e)
	assert.Equal(t, []string{"bulbasaur", "ivysaur", "venusaur"}, names(got.Items))
	assert.Equal(t, []string{"page 3"}, client.Calls())
}

func TestFetchFailureThenRetry(t *testing.T) {
	client := catalogtest.NewFake()
	client.PageErr = &catalog.NetworkError{Op: "fetch list", Kind: catalog.ErrTransport, Err: errors.New("connection refused")}
	f := newFeature(t, client)
	e := enginetest.Start(t, list.State{}, f.Reduce)

	e.Send(list.FetchAll{})
	got := enginetest.Settle(t, e)
	assert.False(t, got.IsLoading)
	assert.Empty(t, got.Items)
	assert.Equal(t, "Connection failed (fetch list)", got.ErrorMessage)

	next, eff := f.Reduce(got, list.FetchAll{})
	assert.True(t, next.IsLoading)
	assert.Empty(t, next.ErrorMessage)
	assert.Equal(t, engine.KindAsync, eff.Kind())
}

func TestQueryBurstIssuesOneSearch(t *testing.T) {
	client := catalogtest.NewFake()
	f := newFeature(t, client)
	e := enginetest.Start(t, list.State{}, f.Reduce)

	for _, q := range []string{"p", "pi", "pik"} {
		e.Send(list.QueryChanged{Text: q})
	}
	got := enginetest.Settle(t, e)

	assert.Equal(t, []string{"search pik"}, client.Calls())
	assert.Equal(t, "pik", got.Query)
	assert.Equal(t, []string{"pikachu"}, names(got.Items))
	assert.False(t, got.IsLoading)
}

func TestQueryChangedReturnsDebouncedSearch(t *testing.T) {
	f := list.Feature{}
	state, eff := f.Reduce(list.State{}, list.QueryChanged{Text: "char"})
	assert.Equal(t, "char", state.Query)
	require.Equal(t, engine.KindDebounce, eff.Kind())
	assert.Equal(t, list.SearchTag, eff.Tag())
	assert.Equal(t, list.DefaultDebounce, eff.Delay())
	assert.Equal(t, list.Search{Text: "char"}, eff.Children()[0].Action())
}

func TestClearingQueryFetchesImmediately(t *testing.T) {
	client := catalogtest.NewFake()
	f := newFeature(t, client)
	f.Debounce = 200 * time.Millisecond
	e := enginetest.Start(t, list.State{}, f.Reduce)

	e.Send(list.QueryChanged{Text: "pi"})
	e.Send(list.QueryChanged{Text: ""})
	got := enginetest.Settle(t, e)

	assert.Equal(t, []string{"page 151"}, client.Calls(), "the pending search is cancelled")
	assert.Len(t, got.Items, len(catalogtest.Starters()))
	assert.Empty(t, got.Query)
}

func TestSupersededSearchNeverLands(t *testing.T) {
	client := catalogtest.NewFake()
	client.Block = make(chan struct{})
	f := newFeature(t, client)
	f.Debounce = time.Millisecond
	e := enginetest.Start(t, list.State{}, f.Reduce)

	e.Send(list.QueryChanged{Text: "pi"})
	waitForCall(t, client, "search pi")
	e.Send(list.QueryChanged{Text: "bulb"})
	waitForCall(t, client, "search bulb")
	close(client.Block)
	got := enginetest.Settle(t, e)

	assert.Equal(t, []string{"bulbasaur"}, names(got.Items))
	assert.Empty(t, got.ErrorMessage, "the cancelled search must not report its cancellation")
}

func TestSearchIgnoresEmptyText(t *testing.T) {
	f := list.Feature{}
	start := list.State{Items: catalogtest.Starters()}
	next, eff := f.Reduce(start, list.Search{Text: ""})
	assert.Equal(t, start, next)
	assert.True(t, eff.IsNone())
}

func TestWhitespaceQueryIsNotEmpty(t *testing.T) {
	client := catalogtest.NewFake()
	f := newFeature(t, client)

	state, eff := f.Reduce(list.State{}, list.QueryChanged{Text: "  "})
	assert.Equal(t, "  ", state.Query)
	require.Equal(t, engine.KindDebounce, eff.Kind())
	assert.Equal(t, list.Search{Text: "  "}, eff.Children()[0].Action())

	// Search passes the text through untouched; the client decides matching.
	e := enginetest.Start(t, list.State{}, f.Reduce)
	e.Send(list.Search{Text: " p"})
	enginetest.Settle(t, e)
	assert.Equal(t, []string{"search  p"}, client.Calls())
}

func TestDebounceClearsSupersededLoading(t *testing.T) {
	f := list.Feature{}
	next, eff := f.Reduce(list.State{IsLoading: true, Query: "p"}, list.QueryChanged{Text: "pi"})
	assert.False(t, next.IsLoading, "the running search is cancelled by the debounce")
	assert.Equal(t, engine.KindDebounce, eff.Kind())
}

func TestSearchClearsErrorAndLoads(t *testing.T) {
	f := list.Feature{}
	next, eff := f.Reduce(list.State{ErrorMessage: "boom"}, list.Search{Text: "pi"})
	assert.True(t, next.IsLoading)
	assert.Empty(t, next.ErrorMessage)
	assert.Equal(t, list.SearchTag, eff.Tag())
}

func TestSearchFailureSurfacesMessage(t *testing.T) {
	client := catalogtest.NewFake()
	client.SearchErr = &catalog.NetworkError{Op: "search", Kind: catalog.ErrDecode}
	f := newFeature(t, client)
	e := enginetest.Start(t, list.State{}, f.Reduce)

	e.Send(list.Search{Text: "pi"})
	got := enginetest.Settle(t, e)
	assert.Equal(t, "Unexpected response (search)", got.ErrorMessage)
	assert.False(t, got.IsLoading)
}

func TestItemTappedOpensOverlay(t *testing.T) {
	client := catalogtest.NewFake()
	f := newFeature(t, client)
	id := uuid.MustParse("6f1c8f3e-2b0a-4c55-9a51-3f1bd2a0c001")
	f.Detail.NewID = func() uuid.UUID { return id }
	e := enginetest.Start(t, list.State{Items: catalogtest.Starters()}, f.Reduce)

	e.Send(list.ItemTapped{Item: catalogtest.Starters()[0]})
	e.Send(list.Detail{Action: detail.OnAppear{}})
	got := enginetest.Settle(t, e)

	require.NotNil(t, got.Detail)
	bulbasaur := client.Details[1]
	want := &detail.State{ItemID: 1, InstanceID: id, Detail: &bulbasaur}
	if diff := cmp.Diff(want, got.Detail); diff != "" {
		t.Fatalf("detail mismatch (-want +got):\n%s", diff)
	}
}

func TestReplacingOverlayCancelsOldInstance(t *testing.T) {
	client := catalogtest.NewFake()
	client.Block = make(chan struct{})
	f := newFeature(t, client)
	e := enginetest.Start(t, list.State{}, f.Reduce)

	e.Send(list.ItemTapped{Item: catalog.Item{ID: 1, Name: "bulbasaur"}})
	e.Send(list.Detail{Action: detail.FetchDetail{}})
	waitForCall(t, client, "detail 1")

	e.Send(list.ItemTapped{Item: catalog.Item{ID: 4, Name: "charmander"}})
	e.Send(list.Detail{Action: detail.FetchDetail{}})
	waitForCall(t, client, "detail 4")
	close(client.Block)
	got := enginetest.Settle(t, e)

	require.NotNil(t, got.Detail)
	assert.Equal(t, 4, got.Detail.ItemID)
	require.NotNil(t, got.Detail.Detail)
	assert.Equal(t, "charmander", got.Detail.Detail.Name)
	assert.Empty(t, got.Detail.ErrorMessage)
}

func TestDismissDiscardsLateResponses(t *testing.T) {
	client := catalogtest.NewFake()
	client.Block = make(chan struct{})
	f := newFeature(t, client)
	e := enginetest.Start(t, list.State{}, f.Reduce)

	e.Send(list.ItemTapped{Item: catalog.Item{ID: 25, Name: "pikachu"}})
	e.Send(list.Detail{Action: detail.FetchDetail{}})
	waitForCall(t, client, "detail 25")
	e.Send(list.DismissDetail{})
	close(client.Block)
	got := enginetest.Settle(t, e)

	assert.Nil(t, got.Detail)
}

func TestDetailActionsDroppedWithoutOverlay(t *testing.T) {
	f := list.Feature{}
	start := list.State{Query: "x"}
	next, eff := f.Reduce(start, list.Detail{Action: detail.ToggleFavorite{}})
	assert.Equal(t, start, next)
	assert.True(t, eff.IsNone())

	next, eff = f.Reduce(start, list.DismissDetail{})
	assert.Equal(t, start, next)
	assert.True(t, eff.IsNone())
}
