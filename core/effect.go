package core

import (
	"context"
	"time"
)

// Effect describes the asynchronous work triggered by one reducer step:
// zero or more ops that each produce zero-or-more actions over time, then
// complete. Effects are inert values; running them is the Store's job.
type Effect[A any] struct {
	ops []effectOp[A]
}

// effectOp is one schedulable unit inside an Effect.
//
// Async ops run on their own goroutine and emit actions through send until
// their context is done. Sync ops run inline on the store loop before the
// next action is dequeued; cancellation is delivered this way so that a
// cancel decided while processing action N is complete before action N+1
// reaches any reducer.
//
// start and done bracket the op's lifetime for effect trackers. start runs
// on the store loop just before the op is launched and may derive the
// context the op runs under; done is scheduled back onto the store loop
// after the op returns.
type effectOp[A any] struct {
	run   func(ctx context.Context, send func(A))
	sync  bool
	start func(ctx context.Context) context.Context
	done  func()
}

// None is the effect that does nothing.
func None[A any]() Effect[A] {
	return Effect[A]{}
}

// IsNone reports whether the effect carries no work at all.
func (e Effect[A]) IsNone() bool {
	return len(e.ops) == 0
}

// Merge combines effects into one; all of their ops run concurrently
// without interference and either side may keep emitting actions.
func Merge[A any](effs ...Effect[A]) Effect[A] {
	var out Effect[A]
	for _, e := range effs {
		out.ops = append(out.ops, e.ops...)
	}
	return out
}

// Run wraps a long-lived subscription: f emits zero or more actions through
// send and must return promptly once ctx is done.
func Run[A any](f func(ctx context.Context, send func(A))) Effect[A] {
	return Effect[A]{ops: []effectOp[A]{{run: f}}}
}

// Task runs f once and emits its action unless ok is false.
func Task[A any](f func(ctx context.Context) (A, bool)) Effect[A] {
	return Run(func(ctx context.Context, send func(A)) {
		if a, ok := f(ctx); ok {
			send(a)
		}
	})
}

// Emit dispatches a single action as soon as the effect starts.
func Emit[A any](a A) Effect[A] {
	return Run(func(_ context.Context, send func(A)) {
		send(a)
	})
}

// Every emits f(now) on every interval tick until cancelled.
func Every[A any](interval time.Duration, f func(time.Time) A) Effect[A] {
	return Run(func(ctx context.Context, send func(A)) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				send(f(now))
			}
		}
	})
}

// Map re-tags every action the effect produces. Tracking hooks installed by
// a Canceller travel with the op.
func Map[A, B any](e Effect[A], f func(A) B) Effect[B] {
	if len(e.ops) == 0 {
		return None[B]()
	}
	out := Effect[B]{ops: make([]effectOp[B], 0, len(e.ops))}
	for _, op := range e.ops {
		op := op
		mapped := effectOp[B]{sync: op.sync, start: op.start, done: op.done}
		mapped.run = func(ctx context.Context, send func(B)) {
			op.run(ctx, func(a A) { send(f(a)) })
		}
		out.ops = append(out.ops, mapped)
	}
	return out
}

// syncEffect runs f inline on the store loop, ahead of any async op started
// for the same action and ahead of the next dequeue.
func syncEffect[A any](f func()) Effect[A] {
	return Effect[A]{ops: []effectOp[A]{{
		sync: true,
		run:  func(context.Context, func(A)) { f() },
	}}}
}
