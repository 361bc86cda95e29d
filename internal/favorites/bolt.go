package favorites

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/five82/dex/internal/catalog"
)

const (
	bucketFavorites = "favorites" // seq -> JSON detail, in insertion order
	bucketIDs       = "ids"       // id -> seq
)

// BoltStore keeps favorites in a bbolt database.
type BoltStore struct {
	db *bolt.DB
}

var _ Store = (*BoltStore)(nil)

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, storeErr("open", fmt.Errorf("create directory: %w", err))
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, storeErr("open", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketFavorites, bucketIDs} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, storeErr("initialize buckets", err)
	}
	return &BoltStore{db: db}, nil
}

// LoadAll implements Store.
func (s *BoltStore) LoadAll(ctx context.Context) ([]catalog.Detail, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("load favorites", err)
	}
	var out []catalog.Detail
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketFavorites)).ForEach(func(_, v []byte) error {
			var d catalog.Detail
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("decode entry: %w", err)
			}
			out = append(out, d)
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("load favorites", err)
	}
	return out, nil
}

// Save implements Store.
func (s *BoltStore) Save(ctx context.Context, detail catalog.Detail) error {
	if err := ctx.Err(); err != nil {
		return storeErr(fmt.Sprintf("save favorite %d", detail.ID), err)
	}
	data, err := json.Marshal(detail)
	if err != nil {
		return storeErr(fmt.Sprintf("save favorite %d", detail.ID), err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		ids := tx.Bucket([]byte(bucketIDs))
		if ids.Get(marshalInt(uint64(detail.ID))) != nil {
			return nil
		}
		favs := tx.Bucket([]byte(bucketFavorites))
		seq, err := favs.NextSequence()
		if err != nil {
			return err
		}
		if err := favs.Put(marshalInt(seq), data); err != nil {
			return err
		}
		return ids.Put(marshalInt(uint64(detail.ID)), marshalInt(seq))
	})
	if err != nil {
		return storeErr(fmt.Sprintf("save favorite %d", detail.ID), err)
	}
	return nil
}

// Delete implements Store.
func (s *BoltStore) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return storeErr(fmt.Sprintf("delete favorite %d", id), err)
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		ids := tx.Bucket([]byte(bucketIDs))
		key := marshalInt(uint64(id))
		seq := ids.Get(key)
		if seq == nil {
			return nil
		}
		if err := tx.Bucket([]byte(bucketFavorites)).Delete(seq); err != nil {
			return err
		}
		return ids.Delete(key)
	})
	if err != nil {
		return storeErr(fmt.Sprintf("delete favorite %d", id), err)
	}
	return nil
}

// IsFavorite implements Store.
func (s *BoltStore) IsFavorite(ctx context.Context, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, storeErr(fmt.Sprintf("check favorite %d", id), err)
	}
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(bucketIDs)).Get(marshalInt(uint64(id))) != nil
		return nil
	})
	if err != nil {
		return false, storeErr(fmt.Sprintf("check favorite %d", id), err)
	}
	return found, nil
}

// Close implements Store.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func marshalInt(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
