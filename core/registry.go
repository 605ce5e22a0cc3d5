package core

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// CancelRegistry is process-scoped shared state mapping live instance
// tokens to the cancel handles of their in-flight effects. It is explicit
// and injected rather than a package-level singleton, so applications and
// tests control its lifetime.
//
// All methods are safe for concurrent use; this external synchronization is
// what the KeyedCanceller buys over the lock-free ScopedCanceller.
type CancelRegistry struct {
	mu     sync.Mutex
	nextID int
	live   map[uuid.UUID]map[int]context.CancelFunc
}

// NewCancelRegistry returns an empty registry with no live tokens.
func NewCancelRegistry() *CancelRegistry {
	return &CancelRegistry{live: make(map[uuid.UUID]map[int]context.CancelFunc)}
}

// Mint issues a fresh token and marks it live.
func (r *CancelRegistry) Mint(debugName string) CancelToken {
	t := NewCancelToken(debugName)
	r.mu.Lock()
	r.live[t.key()] = make(map[int]context.CancelFunc)
	r.mu.Unlock()
	return t
}

// Live reports whether t has been minted and not yet invalidated.
func (r *CancelRegistry) Live(t CancelToken) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.live[t.key()]
	return ok
}

// add registers a cancel handle under t. It reports false when the token is
// stale (never minted here, or already invalidated), in which case the
// caller must treat the effect as already cancelled.
func (r *CancelRegistry) add(t CancelToken, cancel context.CancelFunc) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.live[t.key()]
	if !ok {
		return 0, false
	}
	id := r.nextID
	r.nextID++
	set[id] = cancel
	return id, true
}

// remove drops one handle; called when its effect completes on its own.
func (r *CancelRegistry) remove(t CancelToken, id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.live[t.key()]; ok {
		delete(set, id)
	}
}

// CancelToken stops every effect currently registered under t. The token
// stays live for future registrations. Cancelling an unknown or empty token
// is a no-op, never an error.
func (r *CancelRegistry) CancelToken(t CancelToken) {
	r.mu.Lock()
	set := r.live[t.key()]
	handles := make([]context.CancelFunc, 0, len(set))
	for id, cancel := range set {
		handles = append(handles, cancel)
		delete(set, id)
	}
	r.mu.Unlock()
	// invoked outside the lock: cancel funcs may run arbitrary callbacks
	for _, cancel := range handles {
		cancel()
	}
}

// Invalidate cancels everything under t and retires the token. Later
// register or cancel calls against t are treated as no-ops.
func (r *CancelRegistry) Invalidate(t CancelToken) {
	r.mu.Lock()
	set := r.live[t.key()]
	delete(r.live, t.key())
	r.mu.Unlock()
	for _, cancel := range set {
		cancel()
	}
}

// Close invalidates every live token.
func (r *CancelRegistry) Close() {
	r.mu.Lock()
	sets := make([]map[int]context.CancelFunc, 0, len(r.live))
	for k, set := range r.live {
		sets = append(sets, set)
		delete(r.live, k)
	}
	r.mu.Unlock()
	for _, set := range sets {
		for _, cancel := range set {
			cancel()
		}
	}
}

// KeyedCanceller is the globally-keyed Canceller: it delegates tracking to
// a shared CancelRegistry under one token. Use it when effects may be
// registered or cancelled from multiple goroutines, or when an identity
// must be cancellable from outside the owning scope (via
// CancelRegistry.CancelToken); the cost is the registry's lock.
type KeyedCanceller[A any] struct {
	registry *CancelRegistry
	token    CancelToken
}

// NewKeyedCanceller mints a live token on registry and scopes a canceller
// to it.
func NewKeyedCanceller[A any](registry *CancelRegistry, debugName string) *KeyedCanceller[A] {
	return &KeyedCanceller[A]{registry: registry, token: registry.Mint(debugName)}
}

// Token returns the instance identity this canceller is scoped to.
func (c *KeyedCanceller[A]) Token() CancelToken {
	return c.token
}

// Register wraps each async op of e so that a handle joins the registry
// when the op starts and leaves it when the op completes or is cancelled.
// Registration against an invalidated token yields an op that starts
// already cancelled and emits nothing.
func (c *KeyedCanceller[A]) Register(e Effect[A]) Effect[A] {
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
		tracked := false
		var release context.CancelFunc
		op.start = func(ctx context.Context) context.Context {
			if prevStart != nil {
				ctx = prevStart(ctx)
			}
			ctx, cancel := context.WithCancel(ctx)
			release = cancel
			id, tracked = c.registry.add(c.token, cancel)
			if !tracked {
				cancel()
			}
			return ctx
		}
		op.done = func() {
			if tracked {
				c.registry.remove(c.token, id)
			}
			if release != nil {
				release()
			}
			if prevDone != nil {
				prevDone()
			}
		}
		out.ops = append(out.ops, op)
	}
	return out
}

// Cancel stops every effect tracked under this canceller's token. Runs
// inline on the store loop; idempotent.
func (c *KeyedCanceller[A]) Cancel() Effect[A] {
	return syncEffect[A](func() {
		c.registry.CancelToken(c.token)
	})
}

// Invalidate retires this canceller's token, cancelling anything still
// tracked. Call at instance teardown so stale registrations are rejected.
func (c *KeyedCanceller[A]) Invalidate() {
	c.registry.Invalidate(c.token)
}
