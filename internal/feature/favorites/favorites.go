// Package favorites is the saved-favorites screen. It always re-reads the
// store after a change instead of editing its list locally.
package favorites

import (
	"context"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/engine"
	favstore "github.com/five82/dex/internal/favorites"
	"github.com/five82/dex/internal/feature/detail"
)

// LoadTag scopes the store read. A new load cancels the previous one, so an
// older snapshot can never land after a newer one.
const LoadTag engine.Tag = "favorites/load"

// State is the favorites screen.
type State struct {
	Favorites    []catalog.Detail
	IsLoading    bool
	ErrorMessage string
	Detail       *detail.State
}

// Action is the closed set of favorites actions.
type Action interface{ isFavoritesAction() }

type OnAppear struct{}

type LoadFavorites struct{}

type FavoritesResponse struct {
	Favorites []catalog.Detail
	Err       error
}

type ItemTapped struct{ Item catalog.Detail }

type DeleteFavorite struct{ ID int }

type DeleteFavoriteResponse struct{ Err error }

// Detail routes an action to the overlay while it exists.
type Detail struct{ Action detail.Action }

type DismissDetail struct{}

func (OnAppear) isFavoritesAction()               {}
func (LoadFavorites) isFavoritesAction()          {}
func (FavoritesResponse) isFavoritesAction()      {}
func (ItemTapped) isFavoritesAction()             {}
func (DeleteFavorite) isFavoritesAction()         {}
func (DeleteFavoriteResponse) isFavoritesAction() {}
func (Detail) isFavoritesAction()                 {}
func (DismissDetail) isFavoritesAction()          {}

// Feature holds the favorites reducer's collaborators.
type Feature struct {
	Store  favstore.Store
	Detail detail.Feature
}

var detailPath = engine.CasePath[Action, detail.Action]{
	Extract: func(a Action) (detail.Action, bool) {
		d, ok := a.(Detail)
		return d.Action, ok && d.Action != nil
	},
	Embed: func(a detail.Action) Action { return Detail{Action: a} },
}

// Reduce implements engine.Reducer for the favorites screen.
func (f Feature) Reduce(state State, action Action) (State, engine.Effect[Action]) {
	switch a := action.(type) {
	case OnAppear:
		return state, engine.Send[Action](LoadFavorites{})

	case LoadFavorites:
		state.IsLoading = true
		state.ErrorMessage = ""
		return state, engine.Merge(
			engine.Cancel[Action](LoadTag),
			engine.AsyncTagged(LoadTag, func(ctx context.Context) (Action, error) {
				all, err := f.Store.LoadAll(ctx)
				return FavoritesResponse{Favorites: all, Err: err}, nil
			}),
		)

	case FavoritesResponse:
		state.IsLoading = false
		if a.Err != nil {
			state.ErrorMessage = catalog.Message(a.Err)
			return state, engine.None[Action]()
		}
		state.Favorites = a.Favorites
		return state, engine.None[Action]()

	case ItemTapped:
		var eff engine.Effect[Action]
		if state.Detail != nil {
			eff = engine.Cancel[Action](state.Detail.Tag())
		}
		d := f.Detail.Open(a.Item.ID)
		state.Detail = &d
		return state, eff

	case DeleteFavorite:
		id := a.ID
		return state, engine.Async(func(ctx context.Context) (Action, error) {
			return DeleteFavoriteResponse{Err: f.Store.Delete(ctx, id)}, nil
		})

	case DeleteFavoriteResponse:
		if a.Err != nil {
			state.ErrorMessage = catalog.Message(a.Err)
			return state, engine.None[Action]()
		}
		return state, engine.Send[Action](LoadFavorites{})

	case DismissDetail:
		if state.Detail == nil {
			return state, engine.None[Action]()
		}
		tag := state.Detail.Tag()
		state.Detail = nil
		return state, engine.Cancel[Action](tag)

	case Detail:
		next, eff := f.overlay()(state, a)
		if state.Detail != nil && ChangesFavorites(a.Action) {
			eff = engine.Merge(eff, engine.Send[Action](LoadFavorites{}))
		}
		return next, eff
	}
	return state, engine.None[Action]()
}

// ChangesFavorites reports whether a detail action confirms a successful
// save or delete, after which any favorites listing is stale.
func ChangesFavorites(a detail.Action) bool {
	switch r := a.(type) {
	case detail.SaveFavoriteResponse:
		return r.Err == nil
	case detail.DeleteFavoriteResponse:
		return r.Err == nil
	}
	return false
}

func (f Feature) overlay() engine.Reducer[State, Action] {
	return engine.IfLet(
		func(s State) *detail.State { return s.Detail },
		func(s State, d *detail.State) State { s.Detail = d; return s },
		detailPath,
		f.Detail.Reduce,
	)
}
