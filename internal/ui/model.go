// ABOUTME: Bubbletea model for the overtone control surface
// ABOUTME: Edits Settings from the keyboard and renders capture status
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/practicalovertone/overtone-go/internal/app"
	"github.com/practicalovertone/overtone-go/pkg/analysis"
	"github.com/practicalovertone/overtone-go/pkg/capture"
)

const (
	frequencyStep = 10
	tiltStep      = 1
	waveWidth     = 48
)

var waveLevels = []rune("▁▂▃▄▅▆▇█")

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	waveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// Model represents the TUI state
type Model struct {
	settings app.Settings
	controls *Controls

	// Device
	device       string
	format       string
	bufferFrames int

	// Capture
	state  string
	stats  capture.Stats
	report analysis.Report
	wave   []float32

	showDebug bool
	quitting  bool

	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Practical Overtone"))
	b.WriteString("\n\n")

	m.renderField(&b, "Device", fmt.Sprintf("%s (%s, %d frames)", m.device, m.format, m.bufferFrames))
	m.renderField(&b, "Capture", m.state)
	b.WriteString("\n")

	m.renderField(&b, "Frequency", fmt.Sprintf("%.0f Hz", m.settings.Frequency))
	m.renderField(&b, "Tilt", fmt.Sprintf("%+.1f dB", m.settings.TiltDB))
	m.renderField(&b, "Record", onOff(m.settings.Record))
	m.renderField(&b, "Draw", onOff(m.settings.Draw))
	b.WriteString("\n")

	m.renderField(&b, "Level", fmt.Sprintf("RMS %.3f  Peak %.3f", m.report.RMS, m.report.Peak))
	m.renderField(&b, "Pitch", fmt.Sprintf("%.1f Hz", m.report.PeakHz))
	b.WriteString(waveStyle.Render(renderWave(m.wave, waveWidth)))
	b.WriteString("\n")

	if m.showDebug {
		b.WriteString("\n")
		m.renderField(&b, "Blocks", fmt.Sprintf("%d", m.stats.Blocks))
		m.renderField(&b, "Samples", fmt.Sprintf("%d", m.stats.Samples))
		m.renderField(&b, "Errors", fmt.Sprintf("%d", m.stats.Errors))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓:Frequency  ←/→:Tilt  r:Record  d:Draw  0:Reset phase  i:Debug  q:Quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderField(b *strings.Builder, name, value string) {
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s", name+":")))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next := m.settings

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.controls != nil {
			m.controls.quit()
		}
		return m, tea.Quit
	case "up":
		next.Frequency += frequencyStep
	case "down":
		next.Frequency -= frequencyStep
	case "right":
		next.TiltDB += tiltStep
	case "left":
		next.TiltDB -= tiltStep
	case "r":
		next.Record = !next.Record
	case "d":
		next.Draw = !next.Draw
	case "0":
		next.ResetPhase = true
	case "i":
		m.showDebug = !m.showDebug
		return m, nil
	default:
		return m, nil
	}

	next = next.Clamped()
	if m.controls != nil {
		m.controls.send(next)
	}

	// Phase reset is a one-shot request
	next.ResetPhase = false
	m.settings = next

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Device != "" {
		m.device = msg.Device
		m.format = msg.Format.String()
		m.bufferFrames = msg.BufferFrames
	}
	if msg.State != "" {
		m.state = msg.State
	}
	m.stats = msg.Stats
	m.report = msg.Report
	if msg.Wave != nil {
		m.wave = msg.Wave
	}
}

// Settings returns the settings currently shown
func (m Model) Settings() app.Settings {
	return m.settings
}

// renderWave draws samples as a one-line bar graph of width columns
func renderWave(samples []float32, width int) string {
	if len(samples) == 0 || width <= 0 {
		return strings.Repeat(string(waveLevels[0]), max(width, 0))
	}

	peak := float32(0)
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		peak = max(peak, s)
	}

	var b strings.Builder
	step := float64(len(samples)) / float64(width)
	for col := 0; col < width; col++ {
		s := samples[min(int(float64(col)*step), len(samples)-1)]
		level := 0
		if peak > 0 {
			// Map [-peak, peak] onto the available glyphs
			level = int((s/peak + 1) / 2 * float32(len(waveLevels)-1))
		}
		level = max(0, min(level, len(waveLevels)-1))
		b.WriteRune(waveLevels[level])
	}
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
