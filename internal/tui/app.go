package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/jaskflux/core"
	"github.com/jask/jaskflux/internal/demo"
)

// Model is the view binding: it reads "is a child presented" off the store
// state to drive a modal, and translates dismissal gestures into actions.
// It owns no app state of its own beyond the latest render snapshot.
type Model struct {
	store   *core.Store[demo.AppState, demo.AppAction, demo.Env]
	view    demo.ViewModel
	updates chan demo.ViewModel

	width    int
	height   int
	quitting bool
}

// New wires a model to the store. Must be called before the store's first
// Send so the change observer is in place.
func New(store *core.Store[demo.AppState, demo.AppAction, demo.Env]) *Model {
	m := &Model{
		store:   store,
		updates: make(chan demo.ViewModel, 1),
	}
	store.OnChange(func(s *demo.AppState) {
		vm := demo.Snapshot(s)
		// coalesce: only the latest snapshot matters to the renderer
		for {
			select {
			case m.updates <- vm:
				return
			default:
				select {
				case <-m.updates:
				default:
				}
			}
		}
	})
	return m
}

type stateMsg demo.ViewModel

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-m.updates)
	}
}

func (m *Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case stateMsg:
		m.view = demo.ViewModel(msg)
		return m, m.waitForUpdate()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		// the dismissal gesture: enqueued synchronously here, before any
		// other action for the slot can be
		if m.view.Screen != demo.ScreenNone {
			m.store.Send(demo.DismissTapped{})
		}
	case "+", "k", "up":
		m.store.Send(demo.IncrementTapped{})
	case "-", "j", "down":
		m.store.Send(demo.DecrementTapped{})
	case "t":
		m.store.Send(demo.PresentTimerTapped{})
	case "c":
		m.store.Send(demo.PresentCountdownTapped{})
	}
	return m, nil
}

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	hintStyle   = lipgloss.NewStyle().Faint(true)
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
	accentStyle = lipgloss.NewStyle().Bold(true)
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	title := titleStyle.Render("jaskflux demo")
	body := fmt.Sprintf("Count: %s", accentStyle.Render(fmt.Sprintf("%d", m.view.Count)))
	hints := hintStyle.Render("[+/-] count  [t] timer  [c] countdown  [q] quit")

	out := fmt.Sprintf("%s\n\n%s\n\n%s", title, body, hints)

	switch m.view.Screen {
	case demo.ScreenTimer:
		out += "\n\n" + modalStyle.Render(fmt.Sprintf(
			"Timer\n\nelapsed: %ds\n\n%s",
			m.view.Elapsed, hintStyle.Render("[esc] dismiss"),
		))
	case demo.ScreenCountdown:
		out += "\n\n" + modalStyle.Render(fmt.Sprintf(
			"Countdown\n\nremaining: %ds\n\n%s",
			m.view.Remaining, hintStyle.Render("[esc] dismiss"),
		))
	case demo.ScreenNone:
	}
	return out
}
