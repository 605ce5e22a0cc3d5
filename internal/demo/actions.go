package demo

import "time"

// AppAction is the root action union. Dismissal is ordinary actions: the
// view binding dispatches DismissTapped on the gesture, and the reducer
// acknowledges with ScreenDismissed once the slice is cleared.
type AppAction interface{ isAppAction() }

type IncrementTapped struct{}

func (IncrementTapped) isAppAction() {}

type DecrementTapped struct{}

func (DecrementTapped) isAppAction() {}

type PresentTimerTapped struct{}

func (PresentTimerTapped) isAppAction() {}

type PresentCountdownTapped struct{}

func (PresentCountdownTapped) isAppAction() {}

// DismissTapped requests dismissal of whichever child is presented.
type DismissTapped struct{}

func (DismissTapped) isAppAction() {}

// ScreenDismissed acknowledges that a child's slice became absent.
type ScreenDismissed struct{}

func (ScreenDismissed) isAppAction() {}

// TimerEvent wraps the timer child's actions into the parent union.
type TimerEvent struct{ Action TimerAction }

func (TimerEvent) isAppAction() {}

// CountdownEvent wraps the countdown child's actions into the parent union.
type CountdownEvent struct{ Action CountdownAction }

func (CountdownEvent) isAppAction() {}

// TimerAction is the timer child's action union.
type TimerAction interface{ isTimerAction() }

type TimerStarted struct{}

func (TimerStarted) isTimerAction() {}

type TimerTicked struct{ At time.Time }

func (TimerTicked) isTimerAction() {}

// CountdownAction is the countdown child's action union.
type CountdownAction interface{ isCountdownAction() }

type CountdownStarted struct{}

func (CountdownStarted) isCountdownAction() {}

type CountdownTicked struct{ At time.Time }

func (CountdownTicked) isCountdownAction() {}

// CountdownFinished is the countdown's delegate action: the parent reacts
// by clearing the slice, which tears the instance down.
type CountdownFinished struct{}

func (CountdownFinished) isCountdownAction() {}
