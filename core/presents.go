package core

// Slice reads a child's optional state out of the parent. Get returns nil
// while the child is not being shown; reducers mutate the child state
// through the returned pointer.
type Slice[S, CS any] struct {
	Get func(*S) *CS
}

// CasePath extracts and embeds one variant of the parent's action union.
// Each presentable child gets its own explicit Extract/Embed pair; no
// reflection is involved.
type CasePath[A, CA any] struct {
	Extract func(A) (CA, bool)
	Embed   func(CA) A
}

// Presents binds child to the optional slice of parent state, built on
// Combine: the child runs (before base, the parent) only while the slice is
// present and the action matches the case. Every effect the child produces
// is re-embedded through the case path and registered under the identity of
// the current presentation, and a present-to-absent transition cancels that
// identity before the next action is processed.
//
// Each presentation gets a fresh CancelToken, so a cancellation aimed at a
// dismissed instance can never reach a later one. A dismiss and re-present
// landing in the same action is detected by slice pointer identity: a
// different non-nil pointer after the step means the old instance is torn
// down and a new one begins. The resolution is cancel-old-before-start-new.
//
// The returned reducer carries per-slot instance state and inherits the
// ScopedCanceller's precondition: drive it from exactly one Store.
func Presents[S, A, E, CS, CA, CE any](
	name string,
	base Reducer[S, A, E],
	child Reducer[CS, CA, CE],
	slice Slice[S, CS],
	action CasePath[A, CA],
	env func(E) CE,
) Reducer[S, A, E] {
	slot := &presentationSlot[A, CS]{name: name}

	childStep := func(state *S, a A, e E) Effect[A] {
		cs := slice.Get(state)
		slot.beginStep(cs)
		if cs == nil {
			return None[A]()
		}
		ca, ok := action.Extract(a)
		if !ok {
			return None[A]()
		}
		return Map(child(cs, ca, env(e)), action.Embed)
	}

	// Doubles as the per-step lifecycle bookkeeping point: Combine calls it
	// exactly once per action, after both reducers have run.
	dismissed := func(state *S) bool {
		return slot.endStep(slice.Get(state))
	}

	return Combine(base, childStep, dismissed, slot)
}

// presentationSlot owns the per-instance canceller for one Presents wiring.
// It implements Canceller by routing Register to the instance the child ran
// under in the current step, and Cancel to the instance being torn down.
type presentationSlot[A, CS any] struct {
	name string

	current *ScopedCanceller[A] // live instance; nil while absent
	lastPtr *CS                 // slice pointer after the previous step

	stepCanceller *ScopedCanceller[A] // instance live when the child ran
	retiring      *ScopedCanceller[A] // instance torn down this step
}

// beginStep runs before the child reducer. A slice already present with no
// live instance means the child was seeded into the initial state; it gets
// an instance here so its effects are tracked from the first action.
func (p *presentationSlot[A, CS]) beginStep(cs *CS) {
	if cs != nil && p.current == nil {
		p.current = NewScopedCanceller[A](NewCancelToken(p.name))
		p.lastPtr = cs
	}
	p.stepCanceller = p.current
}

// endStep runs after both reducers, observes the present/absent transition
// this action caused, and reports whether the old instance must be
// cancelled. A replaced pointer counts as dismiss-plus-re-present: the old
// instance retires and a fresh identity is minted for the new one.
func (p *presentationSlot[A, CS]) endStep(now *CS) bool {
	gone := p.current != nil && now == nil
	replaced := p.current != nil && now != nil && now != p.lastPtr

	if gone || replaced {
		p.retiring = p.current
		p.current = nil
	}
	if now != nil && p.current == nil {
		p.current = NewScopedCanceller[A](NewCancelToken(p.name))
	}
	p.lastPtr = now
	return gone || replaced
}

// Register tracks e under the instance the child ran under this step. With
// no instance live at child time there is nothing to own the effect, so it
// passes through untracked; that only happens for effects of an absent
// child, which are None anyway.
func (p *presentationSlot[A, CS]) Register(e Effect[A]) Effect[A] {
	if p.stepCanceller == nil {
		return e
	}
	return p.stepCanceller.Register(e)
}

// Cancel tears down the instance retired by endStep. The cancel effect is
// built eagerly so that a new instance minted in the same step can never be
// its target.
func (p *presentationSlot[A, CS]) Cancel() Effect[A] {
	r := p.retiring
	p.retiring = nil
	if r == nil {
		return None[A]()
	}
	return r.Cancel()
}
