package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/jaskflux/core"
	"github.com/jask/jaskflux/internal/config"
	"github.com/jask/jaskflux/internal/demo"
	"github.com/jask/jaskflux/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	env := demo.Env{
		TickEvery:     cfg.Demo.TickEvery,
		CountdownFrom: cfg.Demo.CountdownFrom,
	}

	reducer := demo.Reducer()
	if cfg.Debug.Enabled {
		logger, closeLog, err := debugLogger(cfg.Debug.LogPath)
		if err != nil {
			log.Fatalf("debug log: %v", err)
		}
		defer closeLog()
		reducer = core.DebugReducer("app", reducer, logger)
	}

	store := core.NewStore(demo.AppState{}, reducer, env)
	defer store.Close()

	p := tea.NewProgram(tui.New(store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// debugLogger writes JSON lines to path; the TUI owns the terminal, so a
// file is the only sane debug sink.
func debugLogger(path string) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Logger{}, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	logger := zerolog.New(f).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}
