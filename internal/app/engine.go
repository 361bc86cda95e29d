package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/dex/internal/engine"
)

// StartEngine runs eng on a background goroutine and returns immediately.
// The returned func stops the engine and waits for its loop to exit; calling
// it again returns the same result.
func StartEngine[S, A any](ctx context.Context, eng *engine.Engine[S, A], logger *zap.Logger) func() error {
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan error, 1)
	go func() {
		err := eng.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("engine stopped", zap.Error(err))
		}
		done <- err
	}()

	var once sync.Once
	var result error
	return func() error {
		once.Do(func() {
			eng.Stop()
			if err := <-done; !errors.Is(err, context.Canceled) {
				result = err
			}
		})
		return result
	}
}
