package engine

import (
	"context"
	"sync"
)

// guard pins work to the generation of a tag that was current when the work
// started. Work whose guard is stale at dequeue time is discarded.
type guard struct {
	tag Tag
	gen uint64
}

type tagGroup struct {
	gen     uint64
	running map[uint64]context.CancelFunc
}

// tagTable maps tags to their current generation and running handles.
//
// Generations come from one table-wide counter, so a group that was cancelled
// and later recreated never reuses a generation a stale guard could match.
type tagTable struct {
	mu      sync.Mutex
	groups  map[Tag]*tagGroup
	nextGen uint64
	nextID  uint64
}

func newTagTable() *tagTable {
	return &tagTable{groups: make(map[Tag]*tagGroup)}
}

// current returns a guard for the live generation of tag, creating it.
func (t *tagTable) current(tag Tag) guard {
	t.mu.Lock()
	defer t.mu.Unlock()
	return guard{tag: tag, gen: t.groupLocked(tag).gen}
}

func (t *tagTable) groupLocked(tag Tag) *tagGroup {
	g, ok := t.groups[tag]
	if !ok {
		t.nextGen++
		g = &tagGroup{gen: t.nextGen, running: make(map[uint64]context.CancelFunc)}
		t.groups[tag] = g
	}
	return g
}

// cancel invalidates every guard issued for tag so far and cancels the
// contexts of its running handles.
func (t *tagTable) cancel(tag Tag) int {
	t.mu.Lock()
	g, ok := t.groups[tag]
	if ok {
		delete(t.groups, tag)
	}
	t.mu.Unlock()

	if !ok {
		return 0
	}
	for _, cancel := range g.running {
		cancel()
	}
	return len(g.running)
}

// fresh reports whether every guard still matches its tag's generation.
func (t *tagTable) fresh(guards []guard) bool {
	if len(guards) == 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freshLocked(guards)
}

func (t *tagTable) freshLocked(guards []guard) bool {
	for _, gd := range guards {
		g, ok := t.groups[gd.tag]
		if !ok || g.gen != gd.gen {
			return false
		}
	}
	return true
}

// register records cancel as running under every guarded tag. It returns a
// release func that unregisters and cancels; ok is false when a guard is
// already stale, in which case cancel has been called and nothing is held.
func (t *tagTable) register(guards []guard, cancel context.CancelFunc) (release func(), ok bool) {
	t.mu.Lock()
	if !t.freshLocked(guards) {
		t.mu.Unlock()
		cancel()
		return func() {}, false
	}
	t.nextID++
	id := t.nextID
	for _, gd := range guards {
		t.groups[gd.tag].running[id] = cancel
	}
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			for _, gd := range guards {
				if g, ok := t.groups[gd.tag]; ok && g.gen == gd.gen {
					delete(g.running, id)
				}
			}
			t.mu.Unlock()
			cancel()
		})
	}, true
}

// running returns the number of handles registered under tag.
func (t *tagTable) running(tag Tag) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if g, ok := t.groups[tag]; ok {
		return len(g.running)
	}
	return 0
}
