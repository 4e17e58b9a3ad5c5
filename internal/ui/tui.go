// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the settings channel it feeds
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/practicalovertone/overtone-go/internal/app"
	"github.com/practicalovertone/overtone-go/pkg/analysis"
	"github.com/practicalovertone/overtone-go/pkg/audio"
	"github.com/practicalovertone/overtone-go/pkg/capture"
)

// StatusInterval is how often the process pushes a StatusMsg
const StatusInterval = 100 * time.Millisecond

// StatusMsg updates TUI state
type StatusMsg struct {
	Device       string
	Format       audio.Format
	BufferFrames int
	State        string
	Stats        capture.Stats
	Report       analysis.Report
	Wave         []float32
}

// Controls carries settings changes and the quit request out of the TUI
type Controls struct {
	Changes chan app.Settings
	Quit    chan struct{}
}

// NewControls creates a new control handler
func NewControls() *Controls {
	return &Controls{
		Changes: make(chan app.Settings, 10),
		Quit:    make(chan struct{}, 1),
	}
}

func (c *Controls) send(s app.Settings) {
	select {
	case c.Changes <- s:
	default:
		// Drop the oldest pending change so the newest always lands
		select {
		case <-c.Changes:
		default:
		}
		select {
		case c.Changes <- s:
		default:
		}
	}
}

func (c *Controls) quit() {
	select {
	case c.Quit <- struct{}{}:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls, settings app.Settings) Model {
	return Model{
		settings: settings,
		controls: controls,
		state:    capture.Stopped.String(),
	}
}

// TUI runs the bubbletea program
type TUI struct {
	program *tea.Program
	updates chan StatusMsg
	done    chan struct{}
}

// New creates a TUI showing settings
func New(controls *Controls, settings app.Settings) *TUI {
	return &TUI{
		program: tea.NewProgram(NewModel(controls, settings), tea.WithAltScreen()),
		updates: make(chan StatusMsg, 10),
		done:    make(chan struct{}),
	}
}

// Run blocks until the user quits
func (t *TUI) Run() error {
	go func() {
		for {
			select {
			case status := <-t.updates:
				t.program.Send(status)
			case <-t.done:
				return
			}
		}
	}()

	_, err := t.program.Run()
	close(t.done)
	return err
}

// Update sends a status update to the TUI without blocking
func (t *TUI) Update(status StatusMsg) {
	select {
	case t.updates <- status:
	default:
	}
}

// Stop quits the program
func (t *TUI) Stop() {
	t.program.Quit()
}
