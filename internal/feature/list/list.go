// Package list is the browse and search screen: the first catalog page, a
// debounced name search, and an optional detail overlay.
package list

import (
	"context"
	"time"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/engine"
	"github.com/five82/dex/internal/feature/detail"
)

const (
	DefaultPageSize = 151
	DefaultDebounce = 300 * time.Millisecond

	// SearchTag groups the pending search debounce, the running search and
	// the page fetch, so only the latest query can land in Items.
	SearchTag engine.Tag = "search"
)

// State is the list screen.
type State struct {
	Items        []catalog.Item
	Query        string
	IsLoading    bool
	ErrorMessage string
	Detail       *detail.State
}

// Action is the closed set of list actions.
type Action interface{ isListAction() }

type OnAppear struct{}

type FetchAll struct{}

type ListResponse struct {
	Items []catalog.Item
	Err   error
}

// QueryChanged records the search box text and schedules a search.
type QueryChanged struct{ Text string }

type Search struct{ Text string }

type SearchResponse struct {
	Items []catalog.Item
	Err   error
}

type ItemTapped struct{ Item catalog.Item }

// Detail routes an action to the overlay while it exists.
type Detail struct{ Action detail.Action }

type DismissDetail struct{}

func (OnAppear) isListAction()       {}
func (FetchAll) isListAction()       {}
func (QueryChanged) isListAction()   {}
func (Search) isListAction()         {}
func (ItemTapped) isListAction()     {}
func (Detail) isListAction()         {}
func (DismissDetail) isListAction()  {}
func (ListResponse) isListAction()   {}
func (SearchResponse) isListAction() {}

// Feature holds the list reducer's collaborators and tuning.
type Feature struct {
	Catalog  catalog.Client
	Detail   detail.Feature
	PageSize int           // DefaultPageSize when zero
	Debounce time.Duration // DefaultDebounce when zero
}

var detailPath = engine.CasePath[Action, detail.Action]{
	Extract: func(a Action) (detail.Action, bool) {
		d, ok := a.(Detail)
		return d.Action, ok && d.Action != nil
	},
	Embed: func(a detail.Action) Action { return Detail{Action: a} },
}

// Reduce implements engine.Reducer for the list screen.
func (f Feature) Reduce(state State, action Action) (State, engine.Effect[Action]) {
	switch a := action.(type) {
	case OnAppear:
		if len(state.Items) > 0 {
			return state, engine.None[Action]()
		}
		return state, engine.Send[Action](FetchAll{})

	case FetchAll:
		state.IsLoading = true
		state.ErrorMessage = ""
		limit := f.pageSize()
		return state, engine.AsyncTagged(SearchTag, func(ctx context.Context) (Action, error) {
			items, err := f.Catalog.FetchPage(ctx, limit)
			return ListResponse{Items: items, Err: err}, nil
		})

	case ListResponse:
		return applyItems(state, a.Items, a.Err), engine.None[Action]()

	case QueryChanged:
		state.Query = a.Text
		if a.Text == "" {
			return state, engine.Merge(
				engine.Cancel[Action](SearchTag),
				engine.Send[Action](FetchAll{}),
			)
		}
		// The debounce cancels whatever runs under SearchTag, so nothing is
		// loading until the search fires.
		state.IsLoading = false
		return state, engine.Debounce(engine.Send[Action](Search{Text: a.Text}), SearchTag, f.debounce())

	case Search:
		text := a.Text
		if text == "" {
			return state, engine.None[Action]()
		}
		state.IsLoading = true
		state.ErrorMessage = ""
		return state, engine.AsyncTagged(SearchTag, func(ctx context.Context) (Action, error) {
			items, err := f.Catalog.SearchByName(ctx, text)
			return SearchResponse{Items: items, Err: err}, nil
		})

	case SearchResponse:
		return applyItems(state, a.Items, a.Err), engine.None[Action]()

	case ItemTapped:
		var eff engine.Effect[Action]
		if state.Detail != nil {
			eff = engine.Cancel[Action](state.Detail.Tag())
		}
		d := f.Detail.Open(a.Item.ID)
		state.Detail = &d
		return state, eff

	case DismissDetail:
		if state.Detail == nil {
			return state, engine.None[Action]()
		}
		tag := state.Detail.Tag()
		state.Detail = nil
		return state, engine.Cancel[Action](tag)

	case Detail:
		return f.overlay()(state, a)
	}
	return state, engine.None[Action]()
}

func (f Feature) overlay() engine.Reducer[State, Action] {
	return engine.IfLet(
		func(s State) *detail.State { return s.Detail },
		func(s State, d *detail.State) State { s.Detail = d; return s },
		detailPath,
		f.Detail.Reduce,
	)
}

func (f Feature) pageSize() int {
	if f.PageSize > 0 {
		return f.PageSize
	}
	return DefaultPageSize
}

func (f Feature) debounce() time.Duration {
	if f.Debounce > 0 {
		return f.Debounce
	}
	return DefaultDebounce
}

func applyItems(state State, items []catalog.Item, err error) State {
	state.IsLoading = false
	if err != nil {
		state.ErrorMessage = catalog.Message(err)
		return state
	}
	state.Items = items
	return state
}
