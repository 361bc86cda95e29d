// Package storetest keeps a conformance suite for favorites.Store
// implementations.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/favorites"
)

// Detail returns a minimal record for id.
func Detail(id int, name string) catalog.Detail {
	return catalog.Detail{
		ID:    id,
		Name:  name,
		Types: []catalog.TypeSlot{{Slot: 1, Name: "normal"}},
		Moves: []string{"tackle"},
	}
}

// TestStore runs the suite against stores produced by open. Each call to
// open must return an empty store.
func TestStore(t *testing.T, open func(t *testing.T) favorites.Store) {
	t.Run("empty", func(t *testing.T) {
		s := open(t)
		all, err := s.LoadAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)

		ok, err := s.IsFavorite(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("save keeps insertion order", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		for _, d := range []catalog.Detail{Detail(25, "pikachu"), Detail(1, "bulbasaur"), Detail(7, "squirtle")} {
			require.NoError(t, s.Save(ctx, d))
		}
		all, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{25, 1, 7}, ids(all))
		assert.Equal(t, Detail(1, "bulbasaur"), all[1])
	})

	t.Run("save is idempotent", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.Save(ctx, Detail(4, "charmander")))
		once, err := s.LoadAll(ctx)
		require.NoError(t, err)

		renamed := Detail(4, "renamed")
		require.NoError(t, s.Save(ctx, renamed))
		twice, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.Save(ctx, Detail(1, "bulbasaur")))
		require.NoError(t, s.Save(ctx, Detail(2, "ivysaur")))

		require.NoError(t, s.Delete(ctx, 1))
		require.NoError(t, s.Delete(ctx, 1), "deleting an absent id is a no-op")
		require.NoError(t, s.Delete(ctx, 99))

		ok, err := s.IsFavorite(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = s.IsFavorite(ctx, 2)
		require.NoError(t, err)
		assert.True(t, ok)

		all, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, ids(all))
	})

	t.Run("save after delete appends", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		require.NoError(t, s.Save(ctx, Detail(1, "bulbasaur")))
		require.NoError(t, s.Save(ctx, Detail(2, "ivysaur")))
		require.NoError(t, s.Delete(ctx, 1))
		require.NoError(t, s.Save(ctx, Detail(1, "bulbasaur")))

		all, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1}, ids(all))
	})

	t.Run("concurrent saves never duplicate", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, s.Save(ctx, Detail(i%4, "dup")))
			}(i)
		}
		wg.Wait()

		all, err := s.LoadAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{0, 1, 2, 3}, ids(all))
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := open(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := s.Save(ctx, Detail(1, "bulbasaur"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, favorites.ErrStore))
	})
}

func ids(all []catalog.Detail) []int {
	out := make([]int, 0, len(all))
	for _, d := range all {
		out = append(out, d.ID)
	}
	return out
}
