package core

// Reducer is the unit of state transition: given the current state, one
// action, and a read-only environment, it may mutate the state in place and
// returns the effect describing any further asynchronous work triggered by
// this action. A reducer invocation never suspends; effects are the only
// suspension point.
type Reducer[S, A, E any] func(state *S, action A, env E) Effect[A]

// Combine merges two reducers into one, with a policy for conditionally
// discarding the second's work.
//
// Per dispatched action, in order: other runs first, then base, then
// cancelOther is evaluated exactly once against the state as mutated by
// both. When it reports true, the effect other just produced is dropped and
// canceller's cancel unit is emitted instead, merged with base's effect.
// That stops not only the fresh effect but anything of other's still active
// from earlier dispatches. When false, other's effect is registered under
// canceller and merged concurrently with base's.
//
// Running other first lets its own state mutation participate in the very
// predicate that decides whether to cancel it: "did this action make the
// child state disappear" is asked after the child has had its chance to
// react to its own dismissal action.
func Combine[S, A, E any](
	base, other Reducer[S, A, E],
	cancelOther func(*S) bool,
	canceller Canceller[A],
) Reducer[S, A, E] {
	return func(state *S, action A, env E) Effect[A] {
		effOther := other(state, action, env)
		effBase := base(state, action, env)
		if cancelOther(state) {
			return Merge(canceller.Cancel(), effBase)
		}
		return Merge(canceller.Register(effOther), effBase)
	}
}
