package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// subscribeTo forwards every value from ch as an action until cancelled.
func subscribeTo[A any](ch <-chan A) Effect[A] {
	return Run(func(ctx context.Context, send func(A)) {
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-ch:
				if !ok {
					return
				}
				send(v)
			}
		}
	})
}

// appendReducer appends a prefixed entry for every action and opens a
// subscription to source on the first action.
func appendReducer(prefix string, source <-chan string) Reducer[[]string, string, struct{}] {
	return func(s *[]string, a string, _ struct{}) Effect[string] {
		*s = append(*s, prefix+"-"+a)
		if a == "1" {
			return subscribeTo(source)
		}
		return None[string]()
	}
}

func snapshot(store *Store[[]string, string, struct{}]) []string {
	var got []string
	store.Read(func(s *[]string) { got = append([]string(nil), *s...) })
	return got
}

func waitForState(t *testing.T, store *Store[[]string, string, struct{}], want []string) {
	t.Helper()
	require.Eventually(t, func() bool {
		got := snapshot(store)
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond, "state never reached %v", want)
}

// Scenario A: the predicate fires after the first dispatch. The child's
// freshly produced effect is discarded, the parent's keeps running.
func TestCombineCancelPredicateTrue(t *testing.T) {
	t.Parallel()

	childSource := make(chan string, 4)
	mainSource := make(chan string, 4)

	registry := NewCancelRegistry()
	defer registry.Close()
	canceller := NewKeyedCanceller[string](registry, "child")

	var predCalls int
	var firstPredState []string
	predicate := func(s *[]string) bool {
		predCalls++
		if predCalls == 1 {
			firstPredState = append([]string(nil), *s...)
		}
		return true
	}

	reducer := Combine(
		appendReducer("main-reducer", mainSource),
		appendReducer("child-reducer", childSource),
		predicate,
		canceller,
	)
	store := NewStore([]string{}, reducer, struct{}{})
	defer store.Close()

	store.Send("1")
	require.Equal(t, []string{"child-reducer-1", "main-reducer-1"}, snapshot(store))

	// counters are mutated on the loop; the Read barrier above makes them
	// safe to inspect here
	var calls int
	var seen []string
	store.Read(func(*[]string) { calls, seen = predCalls, firstPredState })
	require.Equal(t, 1, calls)
	require.Equal(t, []string{"child-reducer-1", "main-reducer-1"}, seen)

	// the child's effect source has no subscriber: this emission must never
	// become a dispatch
	childSource <- "child-effect-x"

	// the parent's effect is alive and produces a dispatch, re-entering the
	// combined reducer child-first
	mainSource <- "main-effect-2"
	waitForState(t, store, []string{
		"child-reducer-1", "main-reducer-1",
		"child-reducer-main-effect-2", "main-reducer-main-effect-2",
	})

	require.Len(t, childSource, 1, "cancelled child subscription consumed an emission")
}

// Scenario B: the predicate stays false; both subscriptions live and every
// re-dispatch preserves child-then-main append ordering.
func TestCombineCancelPredicateFalse(t *testing.T) {
	t.Parallel()

	childSource := make(chan string, 4)
	mainSource := make(chan string, 4)

	registry := NewCancelRegistry()
	defer registry.Close()
	canceller := NewKeyedCanceller[string](registry, "child")

	reducer := Combine(
		appendReducer("main-reducer", mainSource),
		appendReducer("child-reducer", childSource),
		func(*[]string) bool { return false },
		canceller,
	)
	store := NewStore([]string{}, reducer, struct{}{})
	defer store.Close()

	store.Send("1")
	require.Equal(t, []string{"child-reducer-1", "main-reducer-1"}, snapshot(store))

	childSource <- "child-effect-2"
	waitForState(t, store, []string{
		"child-reducer-1", "main-reducer-1",
		"child-reducer-child-effect-2", "main-reducer-child-effect-2",
	})

	mainSource <- "main-effect-2"
	waitForState(t, store, []string{
		"child-reducer-1", "main-reducer-1",
		"child-reducer-child-effect-2", "main-reducer-child-effect-2",
		"child-reducer-main-effect-2", "main-reducer-main-effect-2",
	})
}

// A predicate firing on a later action must also stop subscriptions the
// child registered on earlier dispatches.
func TestCombineCancelReachesEarlierEffects(t *testing.T) {
	t.Parallel()

	childSource := make(chan string, 4)
	mainSource := make(chan string, 4)

	registry := NewCancelRegistry()
	defer registry.Close()
	canceller := NewKeyedCanceller[string](registry, "child")

	reducer := Combine(
		appendReducer("main-reducer", mainSource),
		appendReducer("child-reducer", childSource),
		func(s *[]string) bool {
			return len(*s) > 0 && (*s)[len(*s)-1] == "main-reducer-dismiss"
		},
		canceller,
	)
	store := NewStore([]string{}, reducer, struct{}{})
	defer store.Close()

	store.Send("1")
	childSource <- "child-effect-2"
	waitForState(t, store, []string{
		"child-reducer-1", "main-reducer-1",
		"child-reducer-child-effect-2", "main-reducer-child-effect-2",
	})

	store.Send("dismiss")
	require.Equal(t, []string{
		"child-reducer-1", "main-reducer-1",
		"child-reducer-child-effect-2", "main-reducer-child-effect-2",
		"child-reducer-dismiss", "main-reducer-dismiss",
	}, snapshot(store))

	// the subscription from dispatch "1" was cancelled: this emission may be
	// drained by the dying goroutine but can never become a dispatch
	childSource <- "child-effect-late"
	mainSource <- "main-effect-3"
	final := []string{
		"child-reducer-1", "main-reducer-1",
		"child-reducer-child-effect-2", "main-reducer-child-effect-2",
		"child-reducer-dismiss", "main-reducer-dismiss",
		"child-reducer-main-effect-3", "main-reducer-main-effect-3",
	}
	waitForState(t, store, final)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, final, snapshot(store))
}
