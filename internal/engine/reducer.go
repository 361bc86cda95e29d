package engine

// Reducer is a pure transition from (state, action) to (state, effect). It
// must be total: actions it does not handle return state unchanged and None.
type Reducer[S, A any] func(state S, action A) (S, Effect[A])

// CasePath projects a child action out of a parent action and back.
type CasePath[P, C any] struct {
	Extract func(P) (C, bool)
	Embed   func(C) P
}

// Combine runs reducers in order over the same action and merges their effects.
func Combine[S, A any](reducers ...Reducer[S, A]) Reducer[S, A] {
	return func(state S, action A) (S, Effect[A]) {
		effects := make([]Effect[A], 0, len(reducers))
		for _, r := range reducers {
			var eff Effect[A]
			state, eff = r(state, action)
			effects = append(effects, eff)
		}
		return state, Merge(effects...)
	}
}

// Scope runs child on an always-present sub-state for the actions path
// extracts. Other actions pass through untouched.
func Scope[PS, PA, CS, CA any](
	get func(PS) CS,
	set func(PS, CS) PS,
	path CasePath[PA, CA],
	child Reducer[CS, CA],
) Reducer[PS, PA] {
	return func(state PS, action PA) (PS, Effect[PA]) {
		childAction, ok := path.Extract(action)
		if !ok {
			return state, None[PA]()
		}
		next, eff := child(get(state), childAction)
		return set(state, next), Map(eff, path.Embed)
	}
}

// IfLet runs child only while the optional sub-state is present. Child
// actions that arrive while it is nil are dropped.
func IfLet[PS, PA, CS, CA any](
	get func(PS) *CS,
	set func(PS, *CS) PS,
	path CasePath[PA, CA],
	child Reducer[CS, CA],
) Reducer[PS, PA] {
	return func(state PS, action PA) (PS, Effect[PA]) {
		childAction, ok := path.Extract(action)
		if !ok {
			return state, None[PA]()
		}
		current := get(state)
		if current == nil {
			return state, None[PA]()
		}
		next, eff := child(*current, childAction)
		return set(state, &next), Map(eff, path.Embed)
	}
}
