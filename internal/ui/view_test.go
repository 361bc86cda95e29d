package ui

import (
	"strings"
	"testing"

	"github.com/five82/dex/internal/catalog/catalogtest"
	"github.com/five82/dex/internal/feature/root"
)

func assertContains(t *testing.T, view string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func assertNotContains(t *testing.T, view string, unwanted ...string) {
	t.Helper()
	for _, u := range unwanted {
		if strings.Contains(view, u) {
			t.Fatalf("view unexpectedly contains %q:\n%s", u, view)
		}
	}
}

func TestViewBeforeFirstSize(t *testing.T) {
	m := New(Options{Store: newFakeStore(listState())})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() before size = %q, want Loading...", got)
	}
}

func TestViewListsItemsAndTabs(t *testing.T) {
	m := newTestModel(t, newFakeStore(listState()), 120, 40)
	assertContains(t, m.View(), logoText, "1 Browse", "2 Favorites", "#001  bulbasaur", "#172  pichu", "6 shown")
}

func TestViewShowsLoadAndError(t *testing.T) {
	loading := root.State{}
	loading.List.IsLoading = true
	m := newTestModel(t, newFakeStore(loading), 120, 40)
	assertContains(t, m.View(), "Loading...")

	failed := root.State{}
	failed.List.ErrorMessage = "Connection failed (fetch list)"
	m = newTestModel(t, newFakeStore(failed), 120, 40)
	assertContains(t, m.View(), "Connection failed (fetch list)", "Press r to retry.", "ERROR")

	empty := root.State{}
	empty.List.Query = "zzz"
	m = newTestModel(t, newFakeStore(empty), 120, 40)
	assertContains(t, m.View(), "No entries match.", `Results for "zzz"`)
}

func TestViewRendersOverlay(t *testing.T) {
	starters := catalogtest.Starters()
	state := withOverlay(listState(), starters[0], true)

	wide := newTestModel(t, newFakeStore(state), 120, 40)
	view := wide.View()
	assertContains(t, view, "bulbasaur", "grass", "0.7 m", "6.9 kg", "★ Favorite", "tackle", "Unsave")
	assertContains(t, view, "#004  charmander")

	narrow := newTestModel(t, newFakeStore(state), 60, 40)
	view = narrow.View()
	assertContains(t, view, "★ Favorite")
	assertNotContains(t, view, "charmander")

	state.List.Detail.IsFavorite = false
	m := newTestModel(t, newFakeStore(state), 120, 40)
	assertContains(t, m.View(), "☆ Press f to save", "Save")
}

func TestViewOverlayStillLoading(t *testing.T) {
	state := withOverlay(listState(), catalogtest.Starters()[4], false)
	state.List.Detail.Detail = nil
	state.List.Detail.IsLoading = true
	m := newTestModel(t, newFakeStore(state), 120, 40)
	assertContains(t, m.View(), "Loading #025...")

	state.List.Detail.IsLoading = false
	state.List.Detail.ErrorMessage = "Not found (fetch detail 25)"
	m = newTestModel(t, newFakeStore(state), 120, 40)
	assertContains(t, m.View(), "Not found (fetch detail 25)")
}

func TestViewFavoritesTab(t *testing.T) {
	starters := catalogtest.Starters()
	state := root.State{SelectedTab: root.TabFavorites}
	m := newTestModel(t, newFakeStore(state), 120, 40)
	assertContains(t, m.View(), "No favorites yet.", "0 saved")

	state.Favorites.Favorites = append(state.Favorites.Favorites, catalogtest.DetailOf(starters[4]))
	m = newTestModel(t, newFakeStore(state), 120, 40)
	assertContains(t, m.View(), "#025  pikachu", "grass", "1 saved")
}

func TestViewHelp(t *testing.T) {
	m := newTestModel(t, newFakeStore(listState()), 120, 40)
	m, _ = press(m, "?")
	assertContains(t, m.View(), "Keyboard Shortcuts", "Toggle favorite")
}

func TestViewSearchBox(t *testing.T) {
	m := newTestModel(t, newFakeStore(listState()), 120, 40)
	m, _ = press(m, "/", "p", "i")
	assertContains(t, m.View(), "/ pi")
}
