// Package root composes the list and favorites screens behind a tab bar.
package root

import (
	"github.com/five82/dex/internal/engine"
	"github.com/five82/dex/internal/feature/favorites"
	"github.com/five82/dex/internal/feature/list"
)

// Tab identifies a top-level screen.
type Tab int

const (
	TabList Tab = iota
	TabFavorites
)

func (t Tab) String() string {
	switch t {
	case TabList:
		return "list"
	case TabFavorites:
		return "favorites"
	}
	return "unknown"
}

// ParseTab maps a persisted tab name back to a Tab, defaulting to TabList.
func ParseTab(name string) Tab {
	if name == TabFavorites.String() {
		return TabFavorites
	}
	return TabList
}

// State is the whole application state tree.
type State struct {
	List        list.State
	Favorites   favorites.State
	SelectedTab Tab
}

// Action is the closed set of root actions.
type Action interface{ isRootAction() }

type TabSelected struct{ Tab Tab }

// List wraps an action for the list screen.
type List struct{ Action list.Action }

// Favorites wraps an action for the favorites screen.
type Favorites struct{ Action favorites.Action }

func (TabSelected) isRootAction() {}
func (List) isRootAction()        {}
func (Favorites) isRootAction()   {}

// Feature composes the child features.
type Feature struct {
	List      list.Feature
	Favorites favorites.Feature
}

var (
	listPath = engine.CasePath[Action, list.Action]{
		Extract: func(a Action) (list.Action, bool) {
			l, ok := a.(List)
			return l.Action, ok && l.Action != nil
		},
		Embed: func(a list.Action) Action { return List{Action: a} },
	}
	favoritesPath = engine.CasePath[Action, favorites.Action]{
		Extract: func(a Action) (favorites.Action, bool) {
			f, ok := a.(Favorites)
			return f.Action, ok && f.Action != nil
		},
		Embed: func(a favorites.Action) Action { return Favorites{Action: a} },
	}
)

// Reducer returns the root reducer. Routing is by wrapper type; the root
// only owns SelectedTab.
func (f Feature) Reducer() engine.Reducer[State, Action] {
	listReducer := engine.Scope(
		func(s State) list.State { return s.List },
		func(s State, l list.State) State { s.List = l; return s },
		listPath,
		f.List.Reduce,
	)
	favoritesReducer := engine.Scope(
		func(s State) favorites.State { return s.Favorites },
		func(s State, fs favorites.State) State { s.Favorites = fs; return s },
		favoritesPath,
		f.Favorites.Reduce,
	)

	return func(state State, action Action) (State, engine.Effect[Action]) {
		switch a := action.(type) {
		case TabSelected:
			state.SelectedTab = a.Tab
			return state, engine.Send(onAppear(a.Tab))

		case List:
			next, eff := listReducer(state, a)
			if d, ok := a.Action.(list.Detail); ok && state.List.Detail != nil && favorites.ChangesFavorites(d.Action) {
				eff = engine.Merge(eff, engine.Send[Action](Favorites{Action: favorites.LoadFavorites{}}))
			}
			return next, eff

		case Favorites:
			return favoritesReducer(state, a)
		}
		return state, engine.None[Action]()
	}
}

func onAppear(tab Tab) Action {
	if tab == TabFavorites {
		return Favorites{Action: favorites.OnAppear{}}
	}
	return List{Action: list.OnAppear{}}
}
