package favorites

import (
	"context"

	"go.uber.org/zap"

	"github.com/five82/dex/internal/catalog"
)

// Logged wraps store so every failed operation is logged at warn level.
func Logged(store Store, logger *zap.Logger) Store {
	if logger == nil {
		return store
	}
	return &loggedStore{next: store, log: logger.Named("favorites")}
}

type loggedStore struct {
	next Store
	log  *zap.Logger
}

func (s *loggedStore) LoadAll(ctx context.Context) ([]catalog.Detail, error) {
	all, err := s.next.LoadAll(ctx)
	if err != nil {
		s.log.Warn("load favorites failed", zap.Error(err))
	}
	return all, err
}

func (s *loggedStore) Save(ctx context.Context, detail catalog.Detail) error {
	err := s.next.Save(ctx, detail)
	if err != nil {
		s.log.Warn("save favorite failed", zap.Int("id", detail.ID), zap.Error(err))
	}
	return err
}

func (s *loggedStore) Delete(ctx context.Context, id int) error {
	err := s.next.Delete(ctx, id)
	if err != nil {
		s.log.Warn("delete favorite failed", zap.Int("id", id), zap.Error(err))
	}
	return err
}

func (s *loggedStore) IsFavorite(ctx context.Context, id int) (bool, error) {
	ok, err := s.next.IsFavorite(ctx, id)
	if err != nil {
		s.log.Warn("check favorite failed", zap.Int("id", id), zap.Error(err))
	}
	return ok, err
}

func (s *loggedStore) Close() error {
	return s.next.Close()
}
