package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/five82/dex/internal/catalog"
)

const lockRetry = 20 * time.Millisecond

// FileStore keeps favorites as a single JSON array. A mutex serializes
// callers in this process; an advisory lock file serializes other processes.
type FileStore struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

var _ Store = (*FileStore)(nil)

// OpenFile prepares a file store at path. The file itself is created on the
// first write.
func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, storeErr("open", fmt.Errorf("create directory: %w", err))
	}
	return &FileStore{path: path, lock: flock.New(path + ".lock")}, nil
}

// LoadAll implements Store.
func (s *FileStore) LoadAll(ctx context.Context) ([]catalog.Detail, error) {
	var out []catalog.Detail
	err := s.withLock(ctx, false, func() error {
		var err error
		out, err = s.read()
		return err
	})
	if err != nil {
		return nil, storeErr("load favorites", err)
	}
	return out, nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, detail catalog.Detail) error {
	err := s.withLock(ctx, true, func() error {
		all, err := s.read()
		if err != nil {
			return err
		}
		if indexOf(all, detail.ID) >= 0 {
			return nil
		}
		return s.write(append(all, detail))
	})
	if err != nil {
		return storeErr(fmt.Sprintf("save favorite %d", detail.ID), err)
	}
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, id int) error {
	err := s.withLock(ctx, true, func() error {
		all, err := s.read()
		if err != nil {
			return err
		}
		i := indexOf(all, id)
		if i < 0 {
			return nil
		}
		return s.write(append(all[:i], all[i+1:]...))
	})
	if err != nil {
		return storeErr(fmt.Sprintf("delete favorite %d", id), err)
	}
	return nil
}

// IsFavorite implements Store.
func (s *FileStore) IsFavorite(ctx context.Context, id int) (bool, error) {
	var found bool
	err := s.withLock(ctx, false, func() error {
		all, err := s.read()
		found = indexOf(all, id) >= 0
		return err
	})
	if err != nil {
		return false, storeErr(fmt.Sprintf("check favorite %d", id), err)
	}
	return found, nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return s.lock.Close()
}

func (s *FileStore) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lock.TryLockContext(ctx, lockRetry)
	} else {
		locked, err = s.lock.TryRLockContext(ctx, lockRetry)
	}
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("acquire lock: not acquired")
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

func (s *FileStore) read() ([]catalog.Detail, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var all []catalog.Detail
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return all, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *FileStore) write(all []catalog.Detail) error {
	if all == nil {
		all = []catalog.Detail{}
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func indexOf(all []catalog.Detail, id int) int {
	for i, d := range all {
		if d.ID == id {
			return i
		}
	}
	return -1
}
