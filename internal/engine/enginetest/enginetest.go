// Package enginetest runs reducers on a live engine inside tests.
package enginetest

import (
	"context"
	"testing"
	"time"

	"github.com/five82/dex/internal/engine"
)

// SettleTimeout bounds every Settle call.
const SettleTimeout = 5 * time.Second

// Start runs an engine for the duration of the test.
func Start[S, A any](t testing.TB, initial S, reducer engine.Reducer[S, A]) *engine.Engine[S, A] {
	t.Helper()
	e := engine.New(initial, reducer)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return e
}

// Settle waits until the engine is idle and returns its state.
func Settle[S, A any](t testing.TB, e *engine.Engine[S, A]) S {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), SettleTimeout)
	defer cancel()
	if err := e.Settle(ctx); err != nil {
		t.Fatalf("engine did not settle: %v", err)
	}
	return e.State()
}
