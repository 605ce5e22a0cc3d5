package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// startOp drives one op's lifecycle hooks the way the store loop would.
func startOp[A any](t *testing.T, e Effect[A], i int) context.Context {
	t.Helper()
	require.Greater(t, len(e.ops), i)
	op := e.ops[i]
	require.False(t, op.sync)
	ctx := context.Background()
	if op.start != nil {
		ctx = op.start(ctx)
	}
	return ctx
}

// runSync executes every sync op of e inline, as the store loop would.
func runSync[A any](e Effect[A]) {
	for _, op := range e.ops {
		if op.sync {
			op.run(context.Background(), func(A) {})
		}
	}
}

func TestScopedCancellerTracksWhileActive(t *testing.T) {
	t.Parallel()

	c := NewScopedCanceller[string](NewCancelToken("child"))
	require.Equal(t, 0, c.Active())

	eff := c.Register(Run(func(ctx context.Context, send func(string)) {}))
	ctx := startOp(t, eff, 0)
	require.Equal(t, 1, c.Active())
	require.NoError(t, ctx.Err())

	// normal completion removes the handle without firing a cancel later
	eff.ops[0].done()
	require.Equal(t, 0, c.Active())

	runSync(c.Cancel())
	require.Equal(t, 0, c.Active())
}

func TestScopedCancellerCancelStopsEverything(t *testing.T) {
	t.Parallel()

	c := NewScopedCanceller[string](NewCancelToken("child"))
	e1 := c.Register(Run(func(ctx context.Context, send func(string)) {}))
	e2 := c.Register(Run(func(ctx context.Context, send func(string)) {}))
	ctx1 := startOp(t, e1, 0)
	ctx2 := startOp(t, e2, 0)
	require.Equal(t, 2, c.Active())

	runSync(c.Cancel())
	require.Error(t, ctx1.Err())
	require.Error(t, ctx2.Err())
	require.Equal(t, 0, c.Active())

	// idempotent
	runSync(c.Cancel())
	require.Equal(t, 0, c.Active())
}

func TestScopedCancellerRegisterPreservesValues(t *testing.T) {
	t.Parallel()

	c := NewScopedCanceller[int](NewCancelToken("child"))
	eff := c.Register(Emit(42))
	ctx := startOp(t, eff, 0)

	var got []int
	eff.ops[0].run(ctx, func(v int) { got = append(got, v) })
	require.Equal(t, []int{42}, got)
}

func TestKeyedCancellerRoundTrip(t *testing.T) {
	t.Parallel()

	r := NewCancelRegistry()
	c := NewKeyedCanceller[string](r, "child")
	require.True(t, r.Live(c.Token()))

	eff := c.Register(Run(func(ctx context.Context, send func(string)) {}))
	ctx := startOp(t, eff, 0)
	require.NoError(t, ctx.Err())

	runSync(c.Cancel())
	require.Error(t, ctx.Err())

	// cancel with nothing tracked is a no-op
	runSync(c.Cancel())
}

func TestKeyedCancellerStaleTokenStartsCancelled(t *testing.T) {
	t.Parallel()

	r := NewCancelRegistry()
	c := NewKeyedCanceller[string](r, "child")
	c.Invalidate()

	eff := c.Register(Run(func(ctx context.Context, send func(string)) {}))
	ctx := startOp(t, eff, 0)
	require.Error(t, ctx.Err(), "registration against a stale token must start cancelled")

	// done hook for an untracked op must not panic
	eff.ops[0].done()
}

func TestKeyedCancellerOutOfScopeCancel(t *testing.T) {
	t.Parallel()

	r := NewCancelRegistry()
	c := NewKeyedCanceller[string](r, "child")
	eff := c.Register(Run(func(ctx context.Context, send func(string)) {}))
	ctx := startOp(t, eff, 0)

	// an external owner of the token can cancel without the canceller
	r.CancelToken(c.Token())
	require.Error(t, ctx.Err())
}
