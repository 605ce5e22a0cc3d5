package core

import (
	"context"
	"sync"
)

// queueDepth bounds the action queue. Effect goroutines block (or bail out
// on shutdown) once it fills; external senders do the same.
const queueDepth = 256

// entry is one unit of loop work: an action to reduce, or a housekeeping
// job scheduled by the effect runtime (completion hooks, state reads).
type entry[A any] struct {
	action   A
	isAction bool
	ctx      context.Context
	job      func()
}

// Store owns one state tree and processes actions strictly sequentially on
// a single worker goroutine: state mutation, effect spawning, and any
// cancellation decided for action N fully complete before action N+1
// begins. Effects run on their own goroutines, but their outputs funnel
// back through the same queue, tagged with the effect's context; an output
// whose context was cancelled by the time it is dequeued is dropped, so a
// stale effect can never be observed after its identity was cancelled.
type Store[S, A, E any] struct {
	reducer Reducer[S, A, E]
	env     E

	queue     chan entry[A]
	root      context.Context
	cancel    context.CancelFunc
	observers []func(*S)

	wg        sync.WaitGroup
	workerEnd chan struct{}
	closeOnce sync.Once

	// owned by the worker goroutine
	state S
}

// NewStore starts the worker immediately. The initial state is owned by the
// store from here on; reach it through OnChange or Read.
func NewStore[S, A, E any](initial S, reducer Reducer[S, A, E], env E) *Store[S, A, E] {
	root, cancel := context.WithCancel(context.Background())
	s := &Store[S, A, E]{
		reducer:   reducer,
		env:       env,
		state:     initial,
		queue:     make(chan entry[A], queueDepth),
		root:      root,
		cancel:    cancel,
		workerEnd: make(chan struct{}),
	}
	go s.loop()
	return s
}

// OnChange registers an observer invoked on the store loop after every
// processed action, with the post-action state. Observers must copy
// whatever they keep. Register all observers before the first Send.
func (s *Store[S, A, E]) OnChange(fn func(*S)) {
	s.observers = append(s.observers, fn)
}

// Send enqueues an action from any goroutine. It blocks only while the
// queue is full, and drops the action once the store is closed.
func (s *Store[S, A, E]) Send(a A) {
	s.enqueue(entry[A]{action: a, isAction: true, ctx: s.root})
}

// Read runs fn on the store loop against the current state and waits for it
// to complete. Because the queue is FIFO, Read doubles as a barrier: it
// observes the state after every action enqueued before it. Meant for tests
// and shutdown reporting, not hot paths.
func (s *Store[S, A, E]) Read(fn func(*S)) {
	done := make(chan struct{})
	s.enqueue(entry[A]{job: func() {
		fn(&s.state)
		close(done)
	}})
	select {
	case <-done:
	case <-s.root.Done():
	}
}

// Close stops intake, cancels every running effect, and waits for the
// worker and all effect goroutines to exit. Safe to call more than once.
func (s *Store[S, A, E]) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.workerEnd
		s.wg.Wait()
	})
}

func (s *Store[S, A, E]) enqueue(e entry[A]) {
	select {
	case s.queue <- e:
	case <-s.root.Done():
	}
}

func (s *Store[S, A, E]) loop() {
	defer close(s.workerEnd)
	for {
		select {
		case <-s.root.Done():
			return
		case e := <-s.queue:
			s.process(e)
		}
	}
}

func (s *Store[S, A, E]) process(e entry[A]) {
	if !e.isAction {
		e.job()
		return
	}
	if e.ctx != nil && e.ctx.Err() != nil {
		// output of an effect cancelled after it was enqueued
		return
	}
	eff := s.reducer(&s.state, e.action, s.env)
	s.execute(eff)
	for _, fn := range s.observers {
		fn(&s.state)
	}
}

// execute starts the effect's ops. Sync ops (cancellation units) run inline
// here, on the loop, before the next dequeue; async ops each get a
// goroutine whose outputs re-enter through the queue and whose completion
// hook is funnelled back to the loop as a job.
func (s *Store[S, A, E]) execute(eff Effect[A]) {
	for _, op := range eff.ops {
		if op.sync {
			op.run(s.root, s.sender(s.root))
			continue
		}
		ctx := s.root
		if op.start != nil {
			ctx = op.start(ctx)
		}
		s.wg.Add(1)
		go func(op effectOp[A], ctx context.Context) {
			defer s.wg.Done()
			op.run(ctx, s.sender(ctx))
			if op.done != nil {
				s.enqueue(entry[A]{job: op.done})
			}
		}(op, ctx)
	}
}

// sender returns the send func for one op, binding its outputs to the op's
// context so cancellation suppresses them both at enqueue and at dequeue.
func (s *Store[S, A, E]) sender(ctx context.Context) func(A) {
	return func(a A) {
		if ctx.Err() != nil {
			return
		}
		s.enqueue(entry[A]{action: a, isAction: true, ctx: ctx})
	}
}
