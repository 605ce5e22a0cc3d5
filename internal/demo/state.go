package demo

// AppState is the demo's root state: a counter plus at most one presented
// child screen.
type AppState struct {
	Count     int
	Presented PresentedScreen
}

// PresentedScreen is the sum of mutually exclusive next screens. At most
// one pointer is non-nil; presence of a pointer means that child is being
// shown.
type PresentedScreen struct {
	Timer     *TimerState
	Countdown *CountdownState
}

// ScreenKind identifies the active variant for exhaustive rendering.
type ScreenKind int

const (
	ScreenNone ScreenKind = iota
	ScreenTimer
	ScreenCountdown
)

// Active returns which child, if any, is currently shown.
func (p PresentedScreen) Active() ScreenKind {
	switch {
	case p.Timer != nil:
		return ScreenTimer
	case p.Countdown != nil:
		return ScreenCountdown
	default:
		return ScreenNone
	}
}

// TimerState counts elapsed ticks while the timer screen is up.
type TimerState struct {
	Elapsed int
}

// CountdownState ticks down to zero and then asks to be dismissed.
type CountdownState struct {
	Remaining int
}

// ViewModel is the render projection of AppState. It is a plain value so
// the view binding can copy it across goroutines.
type ViewModel struct {
	Count     int
	Screen    ScreenKind
	Elapsed   int
	Remaining int
}

// Snapshot projects the current state into a ViewModel. Called on the store
// loop; the result shares nothing with the state tree.
func Snapshot(s *AppState) ViewModel {
	vm := ViewModel{Count: s.Count, Screen: s.Presented.Active()}
	switch vm.Screen {
	case ScreenTimer:
		vm.Elapsed = s.Presented.Timer.Elapsed
	case ScreenCountdown:
		vm.Remaining = s.Presented.Countdown.Remaining
	}
	return vm
}
