// Package catalogtest provides an in-memory catalog.Client for tests.
package catalogtest

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/five82/dex/internal/catalog"
)

// Fake serves a fixed index and detail set. Errors injected through the Err
// fields take precedence. Block, when set, is awaited before every call
// returns, or until the call's context is done.
type Fake struct {
	Items   []catalog.Item
	Details map[int]catalog.Detail

	PageErr   error
	DetailErr error
	SearchErr error

	Block chan struct{}

	mu    sync.Mutex
	calls []string
}

var _ catalog.Client = (*Fake)(nil)

// Calls returns the recorded calls, e.g. "page 151", "detail 25", "search pi".
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *Fake) wait(ctx context.Context) error {
	if f.Block == nil {
		return nil
	}
	select {
	case <-f.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FetchPage implements catalog.Client.
func (f *Fake) FetchPage(ctx context.Context, limit int) ([]catalog.Item, error) {
	f.record("page " + strconv.Itoa(limit))
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.PageErr != nil {
		return nil, f.PageErr
	}
	if limit < len(f.Items) {
		return append([]catalog.Item(nil), f.Items[:limit]...), nil
	}
	return append([]catalog.Item(nil), f.Items...), nil
}

// FetchDetail implements catalog.Client.
func (f *Fake) FetchDetail(ctx context.Context, id int) (catalog.Detail, error) {
	f.record("detail " + strconv.Itoa(id))
	if err := f.wait(ctx); err != nil {
		return catalog.Detail{}, err
	}
	if f.DetailErr != nil {
		return catalog.Detail{}, f.DetailErr
	}
	d, ok := f.Details[id]
	if !ok {
		return catalog.Detail{}, &catalog.NetworkError{Op: "fetch detail " + strconv.Itoa(id), Kind: catalog.ErrNotFound}
	}
	return d, nil
}

// SearchByName implements catalog.Client.
func (f *Fake) SearchByName(ctx context.Context, query string) ([]catalog.Item, error) {
	f.record("search " + query)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	var out []catalog.Item
	for _, item := range f.Items {
		if strings.Contains(strings.ToLower(item.Name), strings.ToLower(query)) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Starters is a small index used across tests.
func Starters() []catalog.Item {
	names := []string{"bulbasaur", "ivysaur", "venusaur", "charmander", "pikachu", "pichu"}
	ids := []int{1, 2, 3, 4, 25, 172}
	out := make([]catalog.Item, len(names))
	for i, n := range names {
		out[i] = catalog.Item{ID: ids[i], Name: n, URL: "https://pokeapi.co/api/v2/pokemon/" + strconv.Itoa(ids[i]) + "/"}
	}
	return out
}

// DetailOf returns a plausible record for item.
func DetailOf(item catalog.Item) catalog.Detail {
	return catalog.Detail{
		ID:     item.ID,
		Name:   item.Name,
		Types:  []catalog.TypeSlot{{Slot: 1, Name: "grass"}},
		Moves:  []string{"tackle"},
		Height: 7,
		Weight: 69,
	}
}

// NewFake returns a Fake serving Starters and their details.
func NewFake() *Fake {
	items := Starters()
	details := make(map[int]catalog.Detail, len(items))
	for _, item := range items {
		details[item.ID] = DetailOf(item)
	}
	return &Fake{Items: items, Details: details}
}
