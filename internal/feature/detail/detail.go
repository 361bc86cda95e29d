// Package detail is the state machine behind a single item's detail overlay:
// the record itself, loaded in parallel with its favorite status, and the
// favorite toggle.
package detail

import (
	"context"

	"github.com/google/uuid"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/engine"
	"github.com/five82/dex/internal/favorites"
)

// State is one overlay instance. ItemID and InstanceID never change.
type State struct {
	ItemID       int
	InstanceID   uuid.UUID
	Detail       *catalog.Detail
	IsLoading    bool
	ErrorMessage string
	// IsFavorite is the last status confirmed by the store.
	IsFavorite bool
}

// New returns the state of a fresh overlay for itemID with a random
// instance id.
func New(itemID int) State {
	return State{ItemID: itemID, InstanceID: uuid.New()}
}

// Tag scopes every effect of this overlay instance, so dismissing or
// replacing the overlay can cancel them.
func (s State) Tag() engine.Tag {
	return engine.Tag("detail/" + s.InstanceID.String())
}

// Action is the closed set of detail actions.
type Action interface{ isDetailAction() }

type OnAppear struct{}

type FetchDetail struct{}

type DetailResponse struct {
	Detail catalog.Detail
	Err    error
}

type CheckFavorite struct{}

type FavoriteStatusResponse struct {
	IsFavorite bool
	Err        error
}

// ToggleFavorite deletes a confirmed favorite or saves a non-favorite.
type ToggleFavorite struct{}

type SaveFavoriteResponse struct{ Err error }

type DeleteFavoriteResponse struct{ Err error }

func (OnAppear) isDetailAction()               {}
func (FetchDetail) isDetailAction()            {}
func (CheckFavorite) isDetailAction()          {}
func (ToggleFavorite) isDetailAction()         {}
func (DetailResponse) isDetailAction()         {}
func (FavoriteStatusResponse) isDetailAction() {}
func (SaveFavoriteResponse) isDetailAction()   {}
func (DeleteFavoriteResponse) isDetailAction() {}

// Feature holds the collaborators the detail reducer needs.
type Feature struct {
	Catalog   catalog.Client
	Favorites favorites.Store
	// NewID issues overlay instance ids; uuid.New when nil.
	NewID     func() uuid.UUID
}

// Open returns the state of a fresh overlay for itemID. Parent reducers
// call it so the id source stays injectable.
func (f Feature) Open(itemID int) State {
	newID := f.NewID
	if newID == nil {
		newID = uuid.New
	}
	return State{ItemID: itemID, InstanceID: newID()}
}

// Reduce implements engine.Reducer for a detail overlay.
func (f Feature) Reduce(state State, action Action) (State, engine.Effect[Action]) {
	switch a := action.(type) {
	case OnAppear:
		return state, engine.Merge(
			engine.Send[Action](FetchDetail{}),
			engine.Send[Action](CheckFavorite{}),
		)

	case FetchDetail:
		state.IsLoading = true
		state.ErrorMessage = ""
		id := state.ItemID
		return state, engine.AsyncTagged(state.Tag(), func(ctx context.Context) (Action, error) {
			d, err := f.Catalog.FetchDetail(ctx, id)
			return DetailResponse{Detail: d, Err: err}, nil
		})

	case DetailResponse:
		state.IsLoading = false
		if a.Err != nil {
			state.ErrorMessage = catalog.Message(a.Err)
			return state, engine.None[Action]()
		}
		d := a.Detail
		state.Detail = &d
		return state, engine.None[Action]()

	case CheckFavorite:
		id := state.ItemID
		return state, engine.AsyncTagged(state.Tag(), func(ctx context.Context) (Action, error) {
			ok, err := f.Favorites.IsFavorite(ctx, id)
			return FavoriteStatusResponse{IsFavorite: ok, Err: err}, nil
		})

	case FavoriteStatusResponse:
		// A failed check keeps the previous status.
		if a.Err == nil {
			state.IsFavorite = a.IsFavorite
		}
		return state, engine.None[Action]()

	case ToggleFavorite:
		if state.Detail == nil {
			return state, engine.None[Action]()
		}
		d := *state.Detail
		if state.IsFavorite {
			return state, engine.AsyncTagged(state.Tag(), func(ctx context.Context) (Action, error) {
				return DeleteFavoriteResponse{Err: f.Favorites.Delete(ctx, d.ID)}, nil
			})
		}
		return state, engine.AsyncTagged(state.Tag(), func(ctx context.Context) (Action, error) {
			return SaveFavoriteResponse{Err: f.Favorites.Save(ctx, d)}, nil
		})

	case SaveFavoriteResponse:
		// Toggle failures leave the status unchanged; the store logs them.
		if a.Err == nil {
			state.IsFavorite = true
		}
		return state, engine.None[Action]()

	case DeleteFavoriteResponse:
		if a.Err == nil {
			state.IsFavorite = false
		}
		return state, engine.None[Action]()
	}
	return state, engine.None[Action]()
}
