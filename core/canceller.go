package core

import "context"

// Canceller tracks the in-flight effects of one child instance so they can
// all be stopped when that instance goes away.
//
// Register wraps an effect so it is tracked under this canceller's identity
// while active; it never alters the effect's produced values. Cancel
// returns a side-effect-only effect that stops everything currently tracked
// and clears the set. Cancelling with nothing tracked is a no-op, never an
// error, and cancelling twice is indistinguishable from cancelling once.
type Canceller[A any] interface {
	Register(Effect[A]) Effect[A]
	Cancel() Effect[A]
}

// ScopedCanceller keeps a private set of cancel handles with no locking.
//
// Precondition, not enforced: every Register and Cancel for one
// ScopedCanceller must happen on a single serial action-processing context.
// The Store loop provides exactly that: the start and done hooks Register
// installs both run on the loop, which is what keeps the handle set
// single-writer and correct without a mutex. Use the KeyedCanceller when
// registration or cancellation can come from other goroutines.
type ScopedCanceller[A any] struct {
	token   CancelToken
	handles map[int]context.CancelFunc
	nextID  int
}

// NewScopedCanceller scopes a canceller to one instance identity.
func NewScopedCanceller[A any](token CancelToken) *ScopedCanceller[A] {
	return &ScopedCanceller[A]{
		token:   token,
		handles: make(map[int]context.CancelFunc),
	}
}

// Token returns the instance identity this canceller is scoped to.
func (c *ScopedCanceller[A]) Token() CancelToken {
	return c.token
}

// Active returns the number of currently tracked effects.
func (c *ScopedCanceller[A]) Active() int {
	return len(c.handles)
}

// Register wraps each async op of e so that a handle joins the tracking set
// when the op starts and leaves it when the op completes or is cancelled.
func (c *ScopedCanceller[A]) Register(e Effect[A]) Effect[A] {
	if len(e.ops) == 0 {
		return e
	}
	out := Effect[A]{ops: make([]effectOp[A], 0, len(e.ops))}
	for _, op := range e.ops {
		if op.sync {
			out.ops = append(out.ops, op)
			continue
		}
		op := op
		prevStart, prevDone := op.start, op.done
		id := -1
		op.start = func(ctx context.Context) context.Context {
			if prevStart != nil {
				ctx = prevStart(ctx)
			}
			ctx, cancel := context.WithCancel(ctx)
			id = c.nextID
			c.nextID++
			c.handles[id] = cancel
			return ctx
		}
		op.done = func() {
			if cancel, ok := c.handles[id]; ok {
				cancel()
				delete(c.handles, id)
			}
			if prevDone != nil {
				prevDone()
			}
		}
		out.ops = append(out.ops, op)
	}
	return out
}

// Cancel stops every tracked effect and clears the set. The returned effect
// is a sync op: the Store runs it inline, so cancellation completes before
// the next action reaches any reducer.
func (c *ScopedCanceller[A]) Cancel() Effect[A] {
	return syncEffect[A](func() {
		for id, cancel := range c.handles {
			cancel()
			delete(c.handles, id)
		}
	})
}
