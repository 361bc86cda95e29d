package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrTaskPanic wraps a value recovered from a panicking task.
var ErrTaskPanic = errors.New("task panicked")

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// job is one unit of serialized work: an action to reduce, or a debounced
// effect whose timer has fired.
type job[A any] struct {
	action  A
	effect  *Effect[A]
	guards  []guard
	release func()
}

// Engine owns the state tree and serializes every reduction.
//
// Thread-safety model:
//   - Send, State, Updates, Settle: safe from any goroutine
//   - Run: must be called from exactly one goroutine
//
// Reductions and effect interpretation happen only inside Run. Tasks run on
// their own goroutines and talk back only through the queue.
type Engine[S, A any] struct {
	reducer Reducer[S, A]
	state   atomic.Pointer[S]
	queue   *queue[job[A]]
	tags    *tagTable
	log     *zap.Logger
	updates chan struct{}
	busy    tracker

	runCtx context.Context // set once by Run, read by the loop and its tasks
}

// New creates an Engine holding initial and driven by reducer.
func New[S, A any](initial S, reducer Reducer[S, A], opts ...Option) *Engine[S, A] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine[S, A]{
		reducer: reducer,
		queue:   newQueue[job[A]](),
		tags:    newTagTable(),
		log:     o.logger,
		updates: make(chan struct{}, 1),
	}
	e.state.Store(&initial)
	return e
}

// Send enqueues action for reduction. Actions sent from one goroutine are
// reduced in the order sent. Returns false once the engine has stopped.
func (e *Engine[S, A]) Send(action A) bool {
	if isNil(action) {
		return true
	}
	return e.enqueue(job[A]{action: action})
}

// State returns the most recently published state.
func (e *Engine[S, A]) State() S {
	return *e.state.Load()
}

// Updates fires after each published reduction. Bursts coalesce into a
// single notification; read State for the latest value.
func (e *Engine[S, A]) Updates() <-chan struct{} {
	return e.updates
}

// Settle blocks until nothing is queued, running, or waiting on a debounce
// timer, or until ctx is done.
func (e *Engine[S, A]) Settle(ctx context.Context) error {
	return e.busy.wait(ctx)
}

// Run processes queued work until ctx is cancelled or Stop is called.
// Cancelling ctx also cancels every in-flight task.
func (e *Engine[S, A]) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.runCtx = runCtx

	e.log.Debug("engine starting")
	for {
		if j, ok := e.queue.TryDequeue(); ok {
			e.process(j)
			continue
		}

		select {
		case <-ctx.Done():
			e.log.Debug("engine stopping", zap.Error(ctx.Err()))
			e.shutdown()
			return ctx.Err()
		case <-e.queue.Wait():
			if e.queue.Len() == 0 && e.queue.Closed() {
				e.log.Debug("engine stopping: queue closed")
				e.shutdown()
				return nil
			}
		}
	}
}

// Stop closes the queue; Run returns once it notices.
func (e *Engine[S, A]) Stop() {
	e.queue.Close()
}

func (e *Engine[S, A]) shutdown() {
	e.queue.Close()
	for _, j := range e.queue.Drain() {
		if j.release != nil {
			j.release()
		}
		e.busy.done()
	}
}

func (e *Engine[S, A]) enqueue(j job[A]) bool {
	e.busy.add()
	if !e.queue.Enqueue(j) {
		if j.release != nil {
			j.release()
		}
		e.busy.done()
		return false
	}
	return true
}

// process runs on the Run goroutine only.
func (e *Engine[S, A]) process(j job[A]) {
	defer e.busy.done()

	if !e.tags.fresh(j.guards) {
		e.log.Debug("dropping cancelled work", zap.String("action", describe(j.action, j.effect)))
		if j.release != nil {
			j.release()
		}
		return
	}

	if j.effect != nil {
		e.interpret(*j.effect, j.guards)
		j.release()
		return
	}

	e.log.Debug("reduce", zap.String("action", fmt.Sprintf("%T", j.action)))
	next, eff := e.reducer(*e.state.Load(), j.action)
	e.state.Store(&next)
	select {
	case e.updates <- struct{}{}:
	default:
	}
	e.interpret(eff, nil)
}

// interpret runs on the Run goroutine only. guards are inherited from an
// enclosing Debounce.
func (e *Engine[S, A]) interpret(eff Effect[A], guards []guard) {
	switch eff.kind {
	case KindNone:
	case KindSend:
		e.enqueue(job[A]{action: eff.action, guards: guards})
	case KindMerge:
		for _, child := range eff.children {
			e.interpret(child, guards)
		}
	case KindCancel:
		if n := e.tags.cancel(eff.tag); n > 0 {
			e.log.Debug("cancelled tag", zap.String("tag", string(eff.tag)), zap.Int("running", n))
		}
	case KindAsync:
		if eff.tag != "" {
			guards = withGuard(guards, e.tags.current(eff.tag))
		}
		e.spawn(eff.task, guards)
	case KindDebounce:
		e.tags.cancel(eff.tag)
		guards = withGuard(guards, e.tags.current(eff.tag))
		e.schedule(eff.children[0], eff.delay, guards)
	}
}

func (e *Engine[S, A]) spawn(task Task[A], guards []guard) {
	ctx, cancel := context.WithCancel(e.runCtx)
	release, ok := e.tags.register(guards, cancel)
	if !ok {
		return
	}
	e.busy.add()
	go func() {
		defer e.busy.done()
		defer release()

		action, err := runTask(ctx, task)
		if err != nil {
			if ctx.Err() != nil {
				e.log.Debug("task cancelled", zap.Error(err))
			} else if errors.Is(err, ErrTaskPanic) {
				e.log.Error("task failed", zap.Error(err))
			} else {
				e.log.Warn("task failed", zap.Error(err))
			}
			return
		}
		if isNil(action) {
			return
		}
		e.enqueue(job[A]{action: action, guards: guards})
	}()
}

func (e *Engine[S, A]) schedule(eff Effect[A], delay time.Duration, guards []guard) {
	ctx, cancel := context.WithCancel(e.runCtx)
	release, ok := e.tags.register(guards, cancel)
	if !ok {
		return
	}
	e.busy.add()
	go func() {
		defer e.busy.done()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			release()
			return
		case <-timer.C:
		}
		// The handle stays registered until the loop has interpreted eff, so
		// a Cancel in between still revokes it.
		e.enqueue(job[A]{effect: &eff, guards: guards, release: release})
	}()
}

func runTask[A any](ctx context.Context, task Task[A]) (action A, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return task(ctx)
}

func withGuard(guards []guard, g guard) []guard {
	out := make([]guard, len(guards), len(guards)+1)
	copy(out, guards)
	return append(out, g)
}

func describe[A any](action A, eff *Effect[A]) string {
	if eff != nil {
		return "debounced " + eff.kind.String()
	}
	return fmt.Sprintf("%T", action)
}

// tracker counts outstanding work so Settle can wait for quiescence.
type tracker struct {
	mu      sync.Mutex
	n       int
	waiters []chan struct{}
}

func (t *tracker) add() {
	t.mu.Lock()
	t.n++
	t.mu.Unlock()
}

func (t *tracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n--
	if t.n > 0 {
		return
	}
	for _, w := range t.waiters {
		close(w)
	}
	t.waiters = nil
}

func (t *tracker) wait(ctx context.Context) error {
	t.mu.Lock()
	if t.n == 0 {
		t.mu.Unlock()
		return nil
	}
	w := make(chan struct{})
	t.waiters = append(t.waiters, w)
	t.mu.Unlock()

	select {
	case <-w:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
