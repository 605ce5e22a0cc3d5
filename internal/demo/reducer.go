package demo

import (
	"time"

	"github.com/jask/jaskflux/core"
)

// Env carries the demo's dependencies, threaded read-only into reducers.
type Env struct {
	TickEvery     time.Duration
	CountdownFrom int
}

// TimerEnv is the slice of Env the timer child is allowed to see.
type TimerEnv struct {
	TickEvery time.Duration
}

// CountdownEnv is the slice of Env the countdown child is allowed to see.
type CountdownEnv struct {
	TickEvery time.Duration
}

// TimerReducer starts a recurring tick subscription when the screen comes
// up and counts ticks. The subscription is owned by the presentation
// instance; dismissal cancels it.
func TimerReducer(s *TimerState, a TimerAction, env TimerEnv) core.Effect[TimerAction] {
	switch a.(type) {
	case TimerStarted:
		return core.Every(env.TickEvery, func(at time.Time) TimerAction {
			return TimerTicked{At: at}
		})
	case TimerTicked:
		s.Elapsed++
	}
	return core.None[TimerAction]()
}

// CountdownReducer ticks down and emits CountdownFinished exactly once when
// the count reaches zero; the parent dismisses the screen in response.
func CountdownReducer(s *CountdownState, a CountdownAction, env CountdownEnv) core.Effect[CountdownAction] {
	switch a.(type) {
	case CountdownStarted:
		return core.Every(env.TickEvery, func(at time.Time) CountdownAction {
			return CountdownTicked{At: at}
		})
	case CountdownTicked:
		if s.Remaining > 0 {
			s.Remaining--
			if s.Remaining == 0 {
				return core.Emit[CountdownAction](CountdownFinished{})
			}
		}
	case CountdownFinished:
		// handled by the parent, which clears the slice
	}
	return core.None[CountdownAction]()
}

// appReducer is the parent: the counter, plus presentation bookkeeping.
// Presenting a child replaces the whole PresentedScreen value, which keeps
// the variants mutually exclusive and hands the previous child (if any) to
// its Presents wiring for teardown.
func appReducer(s *AppState, a AppAction, env Env) core.Effect[AppAction] {
	switch act := a.(type) {
	case IncrementTapped:
		s.Count++
	case DecrementTapped:
		s.Count--
	case PresentTimerTapped:
		s.Presented = PresentedScreen{Timer: &TimerState{}}
		return core.Emit[AppAction](TimerEvent{Action: TimerStarted{}})
	case PresentCountdownTapped:
		s.Presented = PresentedScreen{Countdown: &CountdownState{Remaining: env.CountdownFrom}}
		return core.Emit[AppAction](CountdownEvent{Action: CountdownStarted{}})
	case DismissTapped:
		if s.Presented.Active() != ScreenNone {
			s.Presented = PresentedScreen{}
			return core.Emit[AppAction](ScreenDismissed{})
		}
	case ScreenDismissed:
		// acknowledgement only; the request already cleared the slice
	case CountdownEvent:
		if _, ok := act.Action.(CountdownFinished); ok {
			s.Presented.Countdown = nil
			return core.Emit[AppAction](ScreenDismissed{})
		}
	}
	return core.None[AppAction]()
}

// Reducer assembles the demo's composed reducer: the parent plus one
// Presents wiring per presentable screen variant.
func Reducer() core.Reducer[AppState, AppAction, Env] {
	r := core.Presents(
		"timer",
		appReducer,
		TimerReducer,
		core.Slice[AppState, TimerState]{
			Get: func(s *AppState) *TimerState { return s.Presented.Timer },
		},
		core.CasePath[AppAction, TimerAction]{
			Extract: func(a AppAction) (TimerAction, bool) {
				if ev, ok := a.(TimerEvent); ok {
					return ev.Action, true
				}
				return nil, false
			},
			Embed: func(ca TimerAction) AppAction { return TimerEvent{Action: ca} },
		},
		func(e Env) TimerEnv { return TimerEnv{TickEvery: e.TickEvery} },
	)
	r = core.Presents(
		"countdown",
		r,
		CountdownReducer,
		core.Slice[AppState, CountdownState]{
			Get: func(s *AppState) *CountdownState { return s.Presented.Countdown },
		},
		core.CasePath[AppAction, CountdownAction]{
			Extract: func(a AppAction) (CountdownAction, bool) {
				if ev, ok := a.(CountdownEvent); ok {
					return ev.Action, true
				}
				return nil, false
			},
			Embed: func(ca CountdownAction) AppAction { return CountdownEvent{Action: ca} },
		},
		func(e Env) CountdownEnv { return CountdownEnv{TickEvery: e.TickEvery} },
	)
	return r
}
