package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/five82/dex/internal/catalog"
)

// ErrStore marks every persistence failure. Match with errors.Is.
var ErrStore = errors.New("store error")

// Store persists the user's favorite set. Implementations are safe for
// concurrent use and serialize their own read-modify-write cycles.
type Store interface {
	// LoadAll returns every favorite in the order it was first saved.
	LoadAll(ctx context.Context) ([]catalog.Detail, error)
	// Save adds detail unless an entry with the same ID already exists.
	Save(ctx context.Context, detail catalog.Detail) error
	// Delete removes the entry for id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id int) error
	// IsFavorite reports whether id has been saved.
	IsFavorite(ctx context.Context, id int) (bool, error)
	// Close releases the underlying resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendBolt = "bolt"
	BackendFile = "file"
)

// Open returns a Store of the named backend rooted at path.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendBolt:
		return OpenBolt(path)
	case BackendFile:
		return OpenFile(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
