package engine

import (
	"context"
	"fmt"
	"time"
)

// Tag names a cancellation group.
type Tag string

// Task is a unit of asynchronous work. A nil action emits nothing. A non-nil
// error is logged and emits nothing; reducers that care about failure should
// return a result action carrying the error instead.
type Task[A any] func(ctx context.Context) (A, error)

// Kind discriminates Effect variants.
type Kind int

const (
	KindNone Kind = iota
	KindSend
	KindAsync
	KindMerge
	KindCancel
	KindDebounce
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSend:
		return "send"
	case KindAsync:
		return "async"
	case KindMerge:
		return "merge"
	case KindCancel:
		return "cancel"
	case KindDebounce:
		return "debounce"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Effect describes work the Engine performs after a reduction. The zero value
// is None.
type Effect[A any] struct {
	kind     Kind
	action   A
	task     Task[A]
	tag      Tag
	delay    time.Duration
	children []Effect[A]
}

// None is the effect that does nothing.
func None[A any]() Effect[A] {
	return Effect[A]{}
}

// Send feeds action back into the engine queue without spawning a task.
func Send[A any](action A) Effect[A] {
	if isNil(action) {
		return None[A]()
	}
	return Effect[A]{kind: KindSend, action: action}
}

// Async runs task concurrently with the engine.
func Async[A any](task Task[A]) Effect[A] {
	if task == nil {
		return None[A]()
	}
	return Effect[A]{kind: KindAsync, task: task}
}

// AsyncTagged runs task as a member of the cancellation group tag.
func AsyncTagged[A any](tag Tag, task Task[A]) Effect[A] {
	eff := Async(task)
	if eff.kind == KindAsync {
		eff.tag = tag
	}
	return eff
}

// Merge runs effects concurrently. None entries are dropped.
func Merge[A any](effects ...Effect[A]) Effect[A] {
	kept := make([]Effect[A], 0, len(effects))
	for _, eff := range effects {
		switch eff.kind {
		case KindNone:
		case KindMerge:
			kept = append(kept, eff.children...)
		default:
			kept = append(kept, eff)
		}
	}
	switch len(kept) {
	case 0:
		return None[A]()
	case 1:
		return kept[0]
	}
	return Effect[A]{kind: KindMerge, children: kept}
}

// Cancel revokes every in-flight effect started under tag. Their actions
// are never reduced afterward.
func Cancel[A any](tag Tag) Effect[A] {
	return Effect[A]{kind: KindCancel, tag: tag}
}

// Debounce cancels tag and schedules effect under tag once delay has passed
// without another Debounce or Cancel on the same tag.
func Debounce[A any](effect Effect[A], tag Tag, delay time.Duration) Effect[A] {
	return Effect[A]{kind: KindDebounce, tag: tag, delay: delay, children: []Effect[A]{effect}}
}

// Kind reports the variant.
func (e Effect[A]) Kind() Kind { return e.kind }

// IsNone reports whether e does nothing.
func (e Effect[A]) IsNone() bool { return e.kind == KindNone }

// Tag returns the cancellation tag of an Async, Cancel or Debounce effect.
func (e Effect[A]) Tag() Tag { return e.tag }

// Delay returns the debounce delay.
func (e Effect[A]) Delay() time.Duration { return e.delay }

// Action returns the action carried by a Send effect.
func (e Effect[A]) Action() A { return e.action }

// Children returns the members of a Merge, or the wrapped effect of a Debounce.
func (e Effect[A]) Children() []Effect[A] { return e.children }

// Map re-types the actions e produces. Tags, delays and structure are kept.
func Map[A, B any](e Effect[A], f func(A) B) Effect[B] {
	out := Effect[B]{kind: e.kind, tag: e.tag, delay: e.delay}
	switch e.kind {
	case KindSend:
		out.action = f(e.action)
	case KindAsync:
		task := e.task
		out.task = func(ctx context.Context) (B, error) {
			var zero B
			action, err := task(ctx)
			if err != nil {
				return zero, err
			}
			if isNil(action) {
				return zero, nil
			}
			return f(action), nil
		}
	case KindMerge, KindDebounce:
		out.children = make([]Effect[B], len(e.children))
		for i, child := range e.children {
			out.children[i] = Map(child, f)
		}
	}
	return out
}

func isNil[A any](a A) bool {
	return any(a) == nil
}
