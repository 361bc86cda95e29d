package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAction interface{ isTest() }

type appendLog struct{ entry string }
type startTagged struct {
	tag  Tag
	name string
	gate <-chan struct{}
}
type cancelTag struct{ tag Tag }
type debounced struct {
	tag   Tag
	name  string
	delay time.Duration
}
type effectOnly struct{ eff Effect[testAction] }

func (appendLog) isTest()   {}
func (startTagged) isTest() {}
func (cancelTag) isTest()   {}
func (debounced) isTest()   {}
func (effectOnly) isTest()  {}

type testState struct {
	Log []string
}

func (s testState) with(entry string) testState {
	log := make([]string, len(s.Log), len(s.Log)+1)
	copy(log, s.Log)
	s.Log = append(log, entry)
	return s
}

func testReducer(state testState, action testAction) (testState, Effect[testAction]) {
	switch a := action.(type) {
	case appendLog:
		return state.with(a.entry), None[testAction]()
	case startTagged:
		return state.with("start " + a.name), AsyncTagged(a.tag, func(ctx context.Context) (testAction, error) {
			if a.gate != nil {
				<-a.gate // ignores ctx on purpose: completion must still be discarded
			}
			return appendLog{entry: "done " + a.name}, nil
		})
	case cancelTag:
		return state.with("cancel"), Cancel[testAction](a.tag)
	case debounced:
		return state, Debounce(Send[testAction](appendLog{entry: "fired " + a.name}), a.tag, a.delay)
	case effectOnly:
		return state, a.eff
	}
	return state, None[testAction]()
}

func startEngine(t *testing.T) *Engine[testState, testAction] {
	t.Helper()
	e := New(testState{}, testReducer)
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

func settle(t *testing.T, e *Engine[testState, testAction]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Settle(ctx))
}

func TestEngine_ProcessesInDispatchOrder(t *testing.T) {
	e := startEngine(t)
	for i := 0; i < 100; i++ {
		require.True(t, e.Send(appendLog{entry: fmt.Sprint(i)}))
	}
	settle(t, e)

	log := e.State().Log
	require.Len(t, log, 100)
	for i, entry := range log {
		assert.Equal(t, fmt.Sprint(i), entry)
	}
}

func TestEngine_AsyncResultReentersQueue(t *testing.T) {
	e := startEngine(t)
	e.Send(startTagged{name: "a"})
	settle(t, e)
	assert.Equal(t, []string{"start a", "done a"}, e.State().Log)
}

func TestEngine_MergeRunsEveryChild(t *testing.T) {
	e := startEngine(t)
	task := func(name string) Effect[testAction] {
		return Async(func(context.Context) (testAction, error) {
			return appendLog{entry: name}, nil
		})
	}
	e.Send(effectOnly{eff: Merge(task("x"), task("y"), Send[testAction](appendLog{entry: "z"}))})
	settle(t, e)
	assert.ElementsMatch(t, []string{"x", "y", "z"}, e.State().Log)
}

func TestEngine_CancelDiscardsCompletedButUncommittedWork(t *testing.T) {
	e := startEngine(t)
	gate := make(chan struct{})

	e.Send(startTagged{tag: "t", name: "slow", gate: gate})
	require.Eventually(t, func() bool { return e.tags.running("t") == 1 }, time.Second, time.Millisecond)

	e.Send(cancelTag{tag: "t"})
	require.Eventually(t, func() bool {
		log := e.State().Log
		return len(log) == 2 && log[1] == "cancel"
	}, time.Second, time.Millisecond)

	close(gate)
	settle(t, e)
	assert.Equal(t, []string{"start slow", "cancel"}, e.State().Log)
}

func TestEngine_CancelRacingCompletionNeverCommitsAfterCancel(t *testing.T) {
	e := startEngine(t)
	const rounds = 200
	for i := 0; i < rounds; i++ {
		tag := Tag(fmt.Sprintf("race-%d", i))
		e.Send(startTagged{tag: tag, name: string(tag)})
		e.Send(cancelTag{tag: tag})
	}
	settle(t, e)

	cancelled := map[string]bool{}
	pendingStart := ""
	for _, entry := range e.State().Log {
		switch {
		case len(entry) > 6 && entry[:6] == "start ":
			pendingStart = entry[6:]
		case entry == "cancel":
			cancelled[pendingStart] = true
		case len(entry) > 5 && entry[:5] == "done ":
			assert.False(t, cancelled[entry[5:]], "%s committed after its cancel", entry)
		}
	}
}

func TestEngine_CancelOnlyAffectsItsTag(t *testing.T) {
	e := startEngine(t)
	gateA := make(chan struct{})
	gateB := make(chan struct{})
	e.Send(startTagged{tag: "a", name: "a", gate: gateA})
	e.Send(startTagged{tag: "b", name: "b", gate: gateB})
	require.Eventually(t, func() bool {
		return e.tags.running("a") == 1 && e.tags.running("b") == 1
	}, time.Second, time.Millisecond)

	e.Send(cancelTag{tag: "a"})
	require.Eventually(t, func() bool { return len(e.State().Log) == 3 }, time.Second, time.Millisecond)
	close(gateA)
	close(gateB)
	settle(t, e)

	log := e.State().Log
	assert.Contains(t, log, "done b")
	assert.NotContains(t, log, "done a")
}

func TestEngine_WorkAfterCancelUsesFreshGeneration(t *testing.T) {
	e := startEngine(t)
	e.Send(cancelTag{tag: "t"})
	e.Send(startTagged{tag: "t", name: "after"})
	settle(t, e)
	assert.Equal(t, []string{"cancel", "start after", "done after"}, e.State().Log)
}

func TestEngine_DebounceCollapsesBursts(t *testing.T) {
	e := startEngine(t)
	for _, name := range []string{"p", "pi", "pik"} {
		e.Send(debounced{tag: "search", name: name, delay: 40 * time.Millisecond})
	}
	settle(t, e)
	assert.Equal(t, []string{"fired pik"}, e.State().Log)
}

func TestEngine_DebounceFiresAgainAfterQuietPeriod(t *testing.T) {
	e := startEngine(t)
	e.Send(debounced{tag: "search", name: "one", delay: 5 * time.Millisecond})
	settle(t, e)
	e.Send(debounced{tag: "search", name: "two", delay: 5 * time.Millisecond})
	settle(t, e)
	assert.Equal(t, []string{"fired one", "fired two"}, e.State().Log)
}

func TestEngine_CancelRevokesPendingDebounce(t *testing.T) {
	e := startEngine(t)
	e.Send(debounced{tag: "search", name: "never", delay: 30 * time.Millisecond})
	e.Send(cancelTag{tag: "search"})
	settle(t, e)
	assert.Equal(t, []string{"cancel"}, e.State().Log)
}

func TestEngine_DebouncedAsyncIsRevokedByLaterDebounce(t *testing.T) {
	e := startEngine(t)
	gate := make(chan struct{})
	var started atomic.Int32

	slow := Debounce(Async(func(context.Context) (testAction, error) {
		started.Add(1)
		<-gate
		return appendLog{entry: "stale"}, nil
	}), "search", time.Millisecond)
	e.Send(effectOnly{eff: slow})
	require.Eventually(t, func() bool { return started.Load() == 1 }, time.Second, time.Millisecond)

	fresh := Debounce(Send[testAction](appendLog{entry: "fresh"}), "search", time.Millisecond)
	e.Send(effectOnly{eff: fresh})
	require.Eventually(t, func() bool { return len(e.State().Log) == 1 }, time.Second, time.Millisecond)

	close(gate)
	settle(t, e)
	assert.Equal(t, []string{"fresh"}, e.State().Log)
}

func TestEngine_TaskErrorAndPanicAreContained(t *testing.T) {
	e := startEngine(t)
	e.Send(effectOnly{eff: Merge(
		Async(func(context.Context) (testAction, error) { return nil, errors.New("offline") }),
		Async(func(context.Context) (testAction, error) { panic("bug") }),
	)})
	e.Send(appendLog{entry: "still alive"})
	settle(t, e)
	assert.Equal(t, []string{"still alive"}, e.State().Log)
}

func TestEngine_UpdatesCoalesce(t *testing.T) {
	e := startEngine(t)
	for i := 0; i < 10; i++ {
		e.Send(appendLog{entry: "x"})
	}
	settle(t, e)

	select {
	case <-e.Updates():
	default:
		t.Fatal("expected an update notification")
	}
	select {
	case <-e.Updates():
		t.Fatal("notifications should coalesce")
	default:
	}
}

func TestEngine_ConcurrentSendersAreSerialized(t *testing.T) {
	e := startEngine(t)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				e.Send(appendLog{entry: fmt.Sprintf("%d-%d", g, i)})
			}
		}(g)
	}
	wg.Wait()
	settle(t, e)
	assert.Len(t, e.State().Log, 400)
}

func TestEngine_StopEndsRunAndRejectsSends(t *testing.T) {
	e := New(testState{}, testReducer)
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	e.Send(appendLog{entry: "before"})
	settle(t, e)
	e.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
	assert.False(t, e.Send(appendLog{entry: "after"}))
	assert.Equal(t, []string{"before"}, e.State().Log)
}

func TestEngine_ContextCancelCancelsTasks(t *testing.T) {
	e := New(testState{}, testReducer)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	started := make(chan struct{})
	observed := make(chan error, 1)
	e.Send(effectOnly{eff: Async(func(ctx context.Context) (testAction, error) {
		close(started)
		<-ctx.Done()
		observed <- ctx.Err()
		return nil, ctx.Err()
	})})
	<-started
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	select {
	case err := <-observed:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("task context was not cancelled")
	}
}

func TestEngine_SettleHonoursContext(t *testing.T) {
	e := startEngine(t)
	gate := make(chan struct{})
	defer close(gate)
	e.Send(startTagged{tag: "t", name: "blocked", gate: gate})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Settle(ctx), context.DeadlineExceeded)
}
